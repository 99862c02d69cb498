// Package admin implements the advisory database maintenance
// workflows driven by the rustsec-admin command.
package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/quay/zlog"

	"github.com/amousset/rustsec/advisory"
	v3 "github.com/amousset/rustsec/cvss/v3"
	"github.com/amousset/rustsec/nvd"
)

var (
	advisoriesCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rustsec",
			Subsystem: "admin",
			Name:      "advisories_processed_total",
			Help:      "Total number of advisories processed in the UpdateAdvisories method.",
		},
		[]string{"collection"},
	)

	fetchErrorCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "rustsec",
			Subsystem: "admin",
			Name:      "nvd_fetch_errors_total",
			Help:      "Total number of failed NVD fetches in the UpdateAdvisories method.",
		},
	)
)

// OutputMode selects how the updater reports on stdout.
type OutputMode int

const (
	// HumanReadable is normal logging for a person at a terminal.
	HumanReadable OutputMode = iota
	// GithubAction is terser output for the workflow that runs the
	// updater in CI.
	GithubAction
)

// Updater cross-checks an advisory database against the NVD.
type Updater struct {
	DB     *advisory.Database
	Client *nvd.Client
	Mode   OutputMode

	// Out is where reports are written. Defaults to os.Stdout.
	Out io.Writer
}

// Report is the outcome of checking one advisory.
type Report struct {
	ID advisory.ID
	// Scores are the distinct CVSS vectors the NVD attaches to the
	// advisory's CVE identifiers, in increasing severity order.
	Scores []*NVDScore
	// BrokenAliases are CVE identifiers the NVD could not serve.
	BrokenAliases []advisory.ID
	// Mismatch is set when the advisory carries a vector and the
	// NVD reports a different one.
	Mismatch bool
}

// NVDScore is a CVSS vector the NVD attaches to a CVE identifier.
type NVDScore struct {
	ID   advisory.ID
	Base *v3.Base
}

// Compare orders scores by severity, then by the identifier they came
// from.
func (s *NVDScore) Compare(o *NVDScore) int {
	if c := s.Base.Compare(o.Base); c != 0 {
		return c
	}
	return strings.Compare(s.ID.String(), o.ID.String())
}

// UpdateAdvisories walks every advisory, fetches the NVD entries for
// its CVE identifiers, and reports score mismatches and broken aliases.
//
// Identifiers unknown to the NVD are reported as broken aliases rather
// than failing the run; any other fetch error aborts.
func (u *Updater) UpdateAdvisories(ctx context.Context) ([]*Report, error) {
	ctx = zlog.ContextWithValues(ctx,
		"component", "admin/Updater.UpdateAdvisories")
	out := u.Out
	if out == nil {
		out = os.Stdout
	}
	if u.DB.Len() == 0 {
		return nil, errors.New("admin: no advisories found")
	}
	if u.Mode == HumanReadable {
		fmt.Fprintf(out, "Loaded %d security advisories\n", u.DB.Len())
	}

	var reports []*Report
	for _, e := range u.DB.Entries() {
		advisoriesCounter.WithLabelValues(e.Collection.String()).Inc()
		r, err := u.check(ctx, e)
		if err != nil {
			return nil, err
		}
		u.write(out, e, r)
		reports = append(reports, r)
	}
	return reports, nil
}

func (u *Updater) check(ctx context.Context, e *advisory.Entry) (*Report, error) {
	r := Report{ID: e.Metadata.ID}
	for _, id := range e.CVEIDs() {
		cve, err := u.Client.FetchCVE(ctx, id.String())
		switch {
		case errors.Is(err, nil):
		case errors.Is(err, nvd.ErrNotFound):
			r.BrokenAliases = append(r.BrokenAliases, id)
			continue
		default:
			fetchErrorCounter.Inc()
			return nil, fmt.Errorf("admin: checking %v: %w", e.Metadata.ID, err)
		}
		if cve.CVSS != nil {
			r.Scores = append(r.Scores, &NVDScore{ID: id, Base: cve.CVSS})
		}
	}

	// Distinct vectors only; the same score reported under two
	// aliases is one datum.
	slices.SortFunc(r.Scores, (*NVDScore).Compare)
	r.Scores = slices.CompactFunc(r.Scores, func(a, b *NVDScore) bool {
		return a.Base.Compare(b.Base) == 0
	})

	if have := e.Metadata.CVSS; have != nil {
		for _, s := range r.Scores {
			if s.Base.Compare(have) != 0 {
				r.Mismatch = true
			}
		}
	}
	zlog.Debug(ctx).
		Stringer("id", e.Metadata.ID).
		Int("scores", len(r.Scores)).
		Int("broken", len(r.BrokenAliases)).
		Bool("mismatch", r.Mismatch).
		Msg("checked advisory")
	return &r, nil
}

func (u *Updater) write(out io.Writer, e *advisory.Entry, r *Report) {
	if u.Mode == HumanReadable {
		fmt.Fprintln(out, r.ID)
	}
	for _, broken := range r.BrokenAliases {
		fmt.Fprintf(out, "Broken alias for %v: %v\n", r.ID, broken)
	}
	if r.Mismatch {
		for _, s := range r.Scores {
			fmt.Fprintf(out, "Score mismatch for %v: %v reports %v, advisory has %v\n",
				r.ID, s.ID, s.Base, e.Metadata.CVSS)
		}
	}
}

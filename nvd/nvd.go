// Package nvd implements a minimal client for the NVD CVE API,
// fetching the bits of a CVE entry that advisory tooling cares about.
package nvd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/quay/zlog"
	"golang.org/x/time/rate"

	v3 "github.com/amousset/rustsec/cvss/v3"
)

// DefaultRoot is the default API endpoint.
const DefaultRoot = `https://services.nvd.nist.gov/rest/json/cve/1.0/`

// DefaultInterval is the default minimum time between requests. The
// public API throttles aggressively; this pace stays under the limit.
const DefaultInterval = 150 * time.Millisecond

// ErrNotFound is reported by [Client.FetchCVE] when the API has no
// entry for the requested identifier.
var ErrNotFound = errors.New("nvd: cve not found")

// Client is a rate-limited NVD API client.
//
// The zero value is not usable; use [New].
type Client struct {
	c       *http.Client
	root    *url.URL
	limiter *rate.Limiter
}

// Option is a Client constructor option.
type Option func(*Client) error

// WithClient sets the http.Client used for requests.
func WithClient(c *http.Client) Option {
	return func(n *Client) error {
		n.c = c
		return nil
	}
}

// WithRoot sets the API root. The URL must end with a trailing slash.
func WithRoot(root string) Option {
	return func(n *Client) error {
		u, err := url.Parse(root)
		if err != nil {
			return err
		}
		n.root = u
		return nil
	}
}

// WithInterval sets the minimum time between requests.
func WithInterval(d time.Duration) Option {
	return func(n *Client) error {
		n.limiter = rate.NewLimiter(rate.Every(d), 1)
		return nil
	}
}

// New constructs a Client talking to [DefaultRoot] at
// [DefaultInterval], modified by the provided options.
func New(opts ...Option) (*Client, error) {
	n := Client{
		c:       http.DefaultClient,
		limiter: rate.NewLimiter(rate.Every(DefaultInterval), 1),
	}
	var err error
	n.root, err = url.Parse(DefaultRoot)
	if err != nil {
		panic(fmt.Errorf("programmer error: %w", err))
	}
	for _, o := range opts {
		if err = o(&n); err != nil {
			return nil, err
		}
	}
	return &n, nil
}

// CVE is the subset of an NVD CVE entry used by the updater.
type CVE struct {
	ID string
	// CVSS is the v3 vector attached to the entry, if there is one
	// and it parses.
	CVSS *v3.Base
	// References are the reference URLs attached to the entry.
	References []string
}

// The interesting paths of an API response.
type cveResponse struct {
	Result struct {
		CVEItems []struct {
			CVE struct {
				References struct {
					ReferenceData []struct {
						URL string `json:"url"`
					} `json:"reference_data"`
				} `json:"references"`
			} `json:"cve"`
			Impact struct {
				BaseMetricV3 struct {
					CVSSV3 struct {
						VectorString string `json:"vectorString"`
					} `json:"cvssV3"`
				} `json:"baseMetricV3"`
			} `json:"impact"`
		} `json:"CVE_Items"`
	} `json:"result"`
}

// FetchCVE fetches the entry for the provided CVE identifier.
//
// An identifier unknown to the API is reported as [ErrNotFound]. The
// call blocks until the rate limiter allows the request or the context
// is cancelled.
func (n *Client) FetchCVE(ctx context.Context, id string) (*CVE, error) {
	ctx = zlog.ContextWithValues(ctx,
		"component", "nvd/Client.FetchCVE",
		"cve", id)
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u, err := n.root.Parse(id)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	res, err := n.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	default:
		return nil, fmt.Errorf("nvd: unexpected response fetching %s: %s", id, res.Status)
	}

	var body cveResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("nvd: decoding %s: %w", id, err)
	}
	if len(body.Result.CVEItems) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	item := body.Result.CVEItems[0]

	cve := CVE{ID: id}
	for _, r := range item.CVE.References.ReferenceData {
		cve.References = append(cve.References, r.URL)
	}
	if vs := item.Impact.BaseMetricV3.CVSSV3.VectorString; vs != "" {
		b, err := v3.ParseBase(vs)
		if err != nil {
			zlog.Warn(ctx).
				Str("vector", vs).
				Err(err).
				Msg("unparseable vector in NVD entry")
		} else {
			cve.CVSS = &b
		}
	}
	zlog.Debug(ctx).
		Bool("cvss", cve.CVSS != nil).
		Int("references", len(cve.References)).
		Msg("fetched cve")
	return &cve, nil
}

package advisory

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	v3 "github.com/amousset/rustsec/cvss/v3"
)

// Fences delimiting the TOML front matter of an advisory file.
const (
	fenceOpen  = "```toml"
	fenceClose = "```"
)

// Advisory is one advisory: the TOML front matter plus the markdown
// description that follows it.
type Advisory struct {
	Metadata Metadata `toml:"advisory"`
	Versions Versions `toml:"versions"`

	// Title is the first markdown heading of the description.
	Title string `toml:"-"`
	// Description is the markdown body, minus the title heading.
	Description string `toml:"-"`
}

// Metadata is the [advisory] table of the front matter.
type Metadata struct {
	ID       ID       `toml:"id"`
	Package  string   `toml:"package"`
	Date     Date     `toml:"date"`
	Aliases  []ID     `toml:"aliases"`
	Related  []ID     `toml:"related"`
	CVSS     *v3.Base `toml:"cvss"`
	Keywords []string `toml:"keywords"`
	URL      string   `toml:"url"`
}

// Versions is the [versions] table of the front matter.
type Versions struct {
	Patched    []string `toml:"patched"`
	Unaffected []string `toml:"unaffected"`
}

// Date is an advisory date, "YYYY-MM-DD".
type Date struct {
	time.Time
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Date) UnmarshalText(b []byte) error {
	t, err := time.Parse(time.DateOnly, string(b))
	if err != nil {
		return fmt.Errorf("advisory: bad date: %w", err)
	}
	d.Time = t
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.Format(time.DateOnly)), nil
}

// CVEIDs reports the CVE-kind identifiers attached to the advisory: the
// advisory's own identifier, if it is a CVE, plus any CVE aliases.
func (a *Advisory) CVEIDs() []ID {
	var ids []ID
	if a.Metadata.ID.Kind() == KindCVE {
		ids = append(ids, a.Metadata.ID)
	}
	for _, alias := range a.Metadata.Aliases {
		if alias.Kind() == KindCVE {
			ids = append(ids, alias)
		}
	}
	return ids
}

// Parse parses an advisory file: TOML front matter between "```toml"
// and "```" fences, followed by a markdown description whose first
// heading is the advisory title.
func Parse(b []byte) (*Advisory, error) {
	front, body, err := split(string(b))
	if err != nil {
		return nil, err
	}
	var a Advisory
	if err := toml.Unmarshal([]byte(front), &a); err != nil {
		return nil, fmt.Errorf("advisory: bad front matter: %w", err)
	}
	if a.Metadata.ID == (ID{}) {
		return nil, fmt.Errorf("advisory: missing id")
	}
	if a.Metadata.Package == "" {
		return nil, fmt.Errorf("advisory: missing package")
	}
	a.Title, a.Description = splitTitle(body)
	return &a, nil
}

// Split cuts the input into the front matter and the markdown body.
func split(s string) (front, body string, err error) {
	rest, ok := strings.CutPrefix(strings.TrimLeft(s, "\n"), fenceOpen+"\n")
	if !ok {
		return "", "", fmt.Errorf("advisory: missing %q fence", fenceOpen)
	}
	front, body, ok = strings.Cut(rest, "\n"+fenceClose+"\n")
	if !ok {
		front, ok = strings.CutSuffix(rest, "\n"+fenceClose)
		if !ok {
			return "", "", fmt.Errorf("advisory: unterminated front matter")
		}
	}
	return front, body, nil
}

func splitTitle(body string) (title, description string) {
	description = strings.TrimSpace(body)
	if rest, ok := strings.CutPrefix(description, "# "); ok {
		title, description, _ = strings.Cut(rest, "\n")
		description = strings.TrimSpace(description)
	}
	return title, description
}

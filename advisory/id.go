// Package advisory implements the RustSec advisory data model: the
// advisory identifiers, the markdown-with-front-matter file format, and
// a reader for a checkout of the advisory database repository.
package advisory

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the namespace an advisory identifier belongs to.
type Kind int

const (
	// KindOther is any identifier not in a recognized namespace.
	KindOther Kind = iota
	// KindRustsec is a "RUSTSEC-YYYY-NNNN" identifier.
	KindRustsec
	// KindCVE is a "CVE-YYYY-NNNN" identifier.
	KindCVE
	// KindGHSA is a "GHSA-xxxx-xxxx-xxxx" identifier.
	KindGHSA
)

var kindNames = [...]string{"Other", "RUSTSEC", "CVE", "GHSA"}

// String implements [fmt.Stringer].
func (k Kind) String() string { return kindNames[k] }

// Placeholder is the identifier assigned to advisories that have not
// been through identifier assignment yet.
const Placeholder = `RUSTSEC-0000-0000`

// ID is an advisory identifier.
//
// Identifiers in the RUSTSEC and CVE namespaces are validated on parse;
// anything else is passed through with [KindOther] (or [KindGHSA] for
// the GHSA prefix, whose check-digit scheme is not validated here).
type ID struct {
	value string
	kind  Kind
	year  int
}

// ParseID parses an advisory identifier.
func ParseID(s string) (ID, error) {
	id := ID{value: s}
	prefix, rest, ok := strings.Cut(s, "-")
	if !ok {
		return id, nil
	}
	switch prefix {
	case "RUSTSEC":
		id.kind = KindRustsec
	case "CVE":
		id.kind = KindCVE
	case "GHSA":
		id.kind = KindGHSA
		return id, nil
	default:
		return id, nil
	}
	year, _, ok := strings.Cut(rest, "-")
	if !ok {
		return ID{}, fmt.Errorf("advisory: malformed %s identifier: %q", id.kind, s)
	}
	y, err := strconv.Atoi(year)
	if err != nil || len(year) != 4 {
		return ID{}, fmt.Errorf("advisory: malformed %s identifier: %q", id.kind, s)
	}
	id.year = y
	return id, nil
}

// Kind reports the identifier's namespace.
func (id ID) Kind() Kind { return id.kind }

// Year reports the year encoded in a RUSTSEC or CVE identifier, and 0
// for other kinds.
func (id ID) Year() int { return id.year }

// IsPlaceholder reports whether the identifier is the assignment
// placeholder.
func (id ID) IsPlaceholder() bool { return id.value == Placeholder }

// String implements [fmt.Stringer].
func (id ID) String() string { return id.value }

// MarshalText implements [encoding.TextMarshaler].
func (id ID) MarshalText() ([]byte, error) { return []byte(id.value), nil }

// UnmarshalText implements [encoding.TextUnmarshaler].
func (id *ID) UnmarshalText(b []byte) error {
	v, err := ParseID(string(b))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

package advisory

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/quay/zlog"
)

// Collection is a top-level directory of the advisory database,
// grouping advisories by what they affect.
type Collection int

const (
	// Crates is the collection of advisories affecting crates.io
	// packages.
	Crates Collection = iota
	// Rust is the collection of advisories affecting the standard
	// library and toolchain.
	Rust
)

var collectionNames = [...]string{"crates", "rust"}

// Collections are all the collections of the advisory database, in the
// order they are walked.
var Collections = []Collection{Crates, Rust}

// String implements [fmt.Stringer]. The string is the directory name.
func (c Collection) String() string { return collectionNames[c] }

// Entry is an advisory along with where the database found it.
type Entry struct {
	*Advisory

	Collection Collection
	// Path is the file the advisory was read from, relative to the
	// database root.
	Path string
}

// Database is an in-memory load of an advisory database checkout.
type Database struct {
	entries []*Entry
	byID    map[string]*Entry
}

// Open reads every advisory under the collection directories of the
// checkout rooted at "root".
//
// A file that fails to parse or a duplicated identifier makes the whole
// load fail; the database is only ever complete.
func Open(ctx context.Context, root string) (*Database, error) {
	ctx = zlog.ContextWithValues(ctx,
		"component", "advisory/Open",
		"root", root)
	db := Database{
		byID: make(map[string]*Entry),
	}
	for _, c := range Collections {
		dir := filepath.Join(root, c.String())
		if _, err := os.Stat(dir); err != nil {
			zlog.Debug(ctx).
				Stringer("collection", c).
				Msg("collection directory missing, skipping")
			continue
		}
		if err := db.walk(ctx, root, c); err != nil {
			return nil, err
		}
	}
	zlog.Info(ctx).
		Int("count", db.Len()).
		Msg("loaded advisory database")
	return &db, nil
}

func (db *Database) walk(ctx context.Context, root string, c Collection) error {
	dir := filepath.Join(root, c.String())
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case d.IsDir():
			return nil
		case !strings.HasSuffix(d.Name(), ".md"):
			return nil
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("advisory: reading %q: %w", path, err)
		}
		a, err := Parse(b)
		if err != nil {
			return fmt.Errorf("advisory: parsing %q: %w", path, err)
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		e := &Entry{
			Advisory:   a,
			Collection: c,
			Path:       rel,
		}
		id := a.Metadata.ID.String()
		if prev, ok := db.byID[id]; ok && !a.Metadata.ID.IsPlaceholder() {
			return fmt.Errorf("advisory: duplicate id %q: %q and %q", id, prev.Path, rel)
		}
		db.byID[id] = e
		db.entries = append(db.entries, e)
		zlog.Debug(ctx).
			Str("id", id).
			Str("path", rel).
			Msg("loaded advisory")
		return nil
	})
}

// Len reports the number of loaded advisories.
func (db *Database) Len() int { return len(db.entries) }

// Entries reports every loaded advisory, in walk order.
func (db *Database) Entries() []*Entry { return db.entries }

// Get reports the advisory with the provided identifier, or nil.
func (db *Database) Get(id ID) *Entry { return db.byID[id.String()] }

package advisory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/quay/zlog"
)

func TestOpen(t *testing.T) {
	ctx := zlog.Test(context.Background(), t)
	db, err := Open(ctx, "testdata/db")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := db.Len(), 3; got != want {
		t.Fatalf("got: %d advisories, want: %d", got, want)
	}

	id, err := ParseID("RUSTSEC-2021-0119")
	if err != nil {
		t.Fatal(err)
	}
	e := db.Get(id)
	if e == nil {
		t.Fatal("lookup failed")
	}
	if got, want := e.Collection, Crates; got != want {
		t.Errorf("collection: got: %v, want: %v", got, want)
	}
	if got, want := e.Path, filepath.Join("crates", "nix", "RUSTSEC-2021-0119.md"); got != want {
		t.Errorf("path: got: %q, want: %q", got, want)
	}

	id, err = ParseID("RUSTSEC-2018-0005")
	if err != nil {
		t.Fatal(err)
	}
	if e := db.Get(id); e == nil || e.Collection != Rust {
		t.Errorf("rust collection lookup failed: %+v", e)
	}
}

func TestOpenDuplicate(t *testing.T) {
	ctx := zlog.Test(context.Background(), t)
	root := t.TempDir()
	dir := filepath.Join(root, "crates", "dup")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	const doc = "```toml\n[advisory]\nid = \"RUSTSEC-2020-0001\"\npackage = \"dup\"\n```\n\n# T\n"
	for _, n := range []string{"a.md", "b.md"} {
		if err := os.WriteFile(filepath.Join(dir, n), []byte(doc), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := Open(ctx, root); err == nil {
		t.Error("expected duplicate-id error")
	}
}

func TestOpenEmpty(t *testing.T) {
	ctx := zlog.Test(context.Background(), t)
	db, err := Open(ctx, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if db.Len() != 0 {
		t.Errorf("got: %d advisories, want: 0", db.Len())
	}
}

package admin

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/quay/zlog"

	"github.com/amousset/rustsec/advisory"
	"github.com/amousset/rustsec/nvd"
)

const advisoryDoc = "```toml\n" + `[advisory]
id = "RUSTSEC-2021-0119"
package = "nix"
date = "2021-09-27"
aliases = ["CVE-2021-45707"]
cvss = "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H"
` + "```" + `

# Out-of-bounds write in nix::unistd::getgrouplist

Description.
`

func testDB(t *testing.T, docs map[string]string) *advisory.Database {
	t.Helper()
	ctx := zlog.Test(context.Background(), t)
	root := t.TempDir()
	for name, doc := range docs {
		p := filepath.Join(root, "crates", name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(doc), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	db, err := advisory.Open(ctx, root)
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func testClient(t *testing.T, h http.HandlerFunc) *nvd.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := nvd.New(
		nvd.WithClient(srv.Client()),
		nvd.WithRoot(srv.URL+"/"),
		nvd.WithInterval(time.Microsecond),
	)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func nvdResponse(vector string) string {
	return fmt.Sprintf(`{"result":{"CVE_Items":[{"impact":{"baseMetricV3":{"cvssV3":{"vectorString":%q}}}}]}}`, vector)
}

func TestUpdateAdvisoriesAgreement(t *testing.T) {
	ctx := zlog.Test(context.Background(), t)
	db := testDB(t, map[string]string{"nix/RUSTSEC-2021-0119.md": advisoryDoc})
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, nvdResponse("CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H"))
	})

	var out bytes.Buffer
	u := Updater{DB: db, Client: c, Out: &out}
	reports, err := u.UpdateAdvisories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 1 {
		t.Fatalf("got: %d reports, want: 1", len(reports))
	}
	r := reports[0]
	if len(r.Scores) != 1 || r.Mismatch || len(r.BrokenAliases) != 0 {
		t.Errorf("unexpected report: %+v", r)
	}
	if !strings.Contains(out.String(), "Loaded 1 security advisories") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestUpdateAdvisoriesMismatch(t *testing.T) {
	ctx := zlog.Test(context.Background(), t)
	db := testDB(t, map[string]string{"nix/RUSTSEC-2021-0119.md": advisoryDoc})
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, nvdResponse("CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:N/A:N"))
	})

	var out bytes.Buffer
	u := Updater{DB: db, Client: c, Mode: GithubAction, Out: &out}
	reports, err := u.UpdateAdvisories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	r := reports[0]
	if !r.Mismatch {
		t.Errorf("expected a mismatch: %+v", r)
	}
	if !strings.Contains(out.String(), "Score mismatch for RUSTSEC-2021-0119") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestUpdateAdvisoriesBrokenAlias(t *testing.T) {
	ctx := zlog.Test(context.Background(), t)
	db := testDB(t, map[string]string{"nix/RUSTSEC-2021-0119.md": advisoryDoc})
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	var out bytes.Buffer
	u := Updater{DB: db, Client: c, Out: &out}
	reports, err := u.UpdateAdvisories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	r := reports[0]
	if len(r.BrokenAliases) != 1 || r.BrokenAliases[0].String() != "CVE-2021-45707" {
		t.Errorf("unexpected report: %+v", r)
	}
	if !strings.Contains(out.String(), "Broken alias for RUSTSEC-2021-0119: CVE-2021-45707") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestUpdateAdvisoriesEmpty(t *testing.T) {
	ctx := zlog.Test(context.Background(), t)
	db := testDB(t, nil)
	u := Updater{DB: db, Client: testClient(t, nil), Out: new(bytes.Buffer)}
	if _, err := u.UpdateAdvisories(ctx); err == nil {
		t.Error("expected error")
	}
}

func TestUpdateAdvisoriesDedup(t *testing.T) {
	ctx := zlog.Test(context.Background(), t)
	// Two CVE ids for the advisory: the advisory's own id and an
	// alias, both reporting the same vector.
	doc := "```toml\n" + `[advisory]
id = "CVE-2021-45707"
package = "nix"
aliases = ["CVE-2021-99999"]
` + "```" + `

# T
`
	db := testDB(t, map[string]string{"nix/CVE-2021-45707.md": doc})
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, nvdResponse("CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H"))
	})

	u := Updater{DB: db, Client: c, Out: new(bytes.Buffer)}
	reports, err := u.UpdateAdvisories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(reports[0].Scores); got != 1 {
		t.Errorf("got: %d scores, want: 1", got)
	}
}

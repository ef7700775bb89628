package storage

import (
	"path/filepath"
	"testing"
	"time"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMetaRoundTrip(t *testing.T) {
	db := openTest(t)

	if _, ok, err := db.GetMeta("recentFiles"); err != nil || ok {
		t.Fatalf("unset key: ok=%v err=%v", ok, err)
	}
	if err := db.SetMeta("recentFiles", `["a.js"]`); err != nil {
		t.Fatal(err)
	}
	if err := db.SetMeta("recentFiles", `["b.js","a.js"]`); err != nil {
		t.Fatal(err)
	}
	v, ok, err := db.GetMeta("recentFiles")
	if err != nil || !ok || v != `["b.js","a.js"]` {
		t.Fatalf("GetMeta = %q %v %v", v, ok, err)
	}

	if err := db.DeleteMeta("recentFiles"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := db.GetMeta("recentFiles"); ok {
		t.Error("key survived delete")
	}
	if err := db.DeleteMeta("never-set"); err != nil {
		t.Errorf("delete unknown key: %v", err)
	}
}

func TestMetaPersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.SetMeta("k", "v"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db, err = Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if v, ok, _ := db.GetMeta("k"); !ok || v != "v" {
		t.Errorf("after reopen: %q %v", v, ok)
	}
	if db.Path() != filepath.Join(dir, "data.db") {
		t.Errorf("path = %q", db.Path())
	}
}

func TestRunHistory(t *testing.T) {
	db := openTest(t)
	start := time.Now()

	for i, name := range []string{"a.js", "b.lua", "c.go"} {
		if err := db.RecordRun(name, "x", "ok", start.Add(time.Duration(i)*time.Second), 15*time.Millisecond); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := db.ListRuns(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].FileName != "c.go" || runs[1].FileName != "b.lua" {
		t.Fatalf("runs = %+v", runs)
	}
	if runs[0].DurationMS != 15 {
		t.Errorf("duration = %d", runs[0].DurationMS)
	}

	if err := db.PruneRuns(1); err != nil {
		t.Fatal(err)
	}
	runs, _ = db.ListRuns(0)
	if len(runs) != 1 || runs[0].FileName != "c.go" {
		t.Errorf("after prune = %+v", runs)
	}
}

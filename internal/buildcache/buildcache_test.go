package buildcache

import (
	"path/filepath"
	"testing"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()

	cache, err := Open(filepath.Join(t.TempDir(), "build.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	t.Cleanup(func() { cache.Close() })

	return cache
}

func TestPutAndGet(t *testing.T) {
	cache := openTestCache(t)

	entry := Entry{
		Module:      "std::fs",
		Path:        "build/std_fs.json",
		Hash:        "abc123",
		Session:     "f47ac10b-58cc-4372-a567-0e02b2c3d479",
		Diagnostics: 2,
	}
	if err := cache.Put(entry); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, ok, err := cache.Get("std::fs")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected the entry to exist")
	}
	if got.Hash != "abc123" || got.Diagnostics != 2 || got.Session != entry.Session {
		t.Errorf("unexpected entry: %+v", got)
	}
	if got.CheckedAt.IsZero() {
		t.Error("expected a recorded timestamp")
	}
}

func TestGetMissing(t *testing.T) {
	cache := openTestCache(t)

	_, ok, err := cache.Get("ghost")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ok {
		t.Error("expected a miss")
	}
}

func TestPutReplacesExistingEntry(t *testing.T) {
	cache := openTestCache(t)

	if err := cache.Put(Entry{Module: "m", Path: "p", Hash: "old", Session: "s1", Diagnostics: 1}); err != nil {
		t.Fatal(err)
	}
	if err := cache.Put(Entry{Module: "m", Path: "p", Hash: "new", Session: "s2"}); err != nil {
		t.Fatal(err)
	}

	got, ok, err := cache.Get("m")
	if err != nil || !ok {
		t.Fatalf("get failed: %v", err)
	}
	if got.Hash != "new" || got.Session != "s2" || got.Diagnostics != 0 {
		t.Errorf("expected the replacement, got %+v", got)
	}
}

func TestFresh(t *testing.T) {
	cache := openTestCache(t)

	if err := cache.Put(Entry{Module: "clean", Path: "p", Hash: "h1", Session: "s"}); err != nil {
		t.Fatal(err)
	}
	if err := cache.Put(Entry{Module: "dirty", Path: "p", Hash: "h1", Session: "s", Diagnostics: 3}); err != nil {
		t.Fatal(err)
	}

	if fresh, err := cache.Fresh("clean", "h1"); err != nil || !fresh {
		t.Errorf("expected clean/h1 to be fresh (err: %v)", err)
	}
	if fresh, _ := cache.Fresh("clean", "h2"); fresh {
		t.Error("a changed hash is stale")
	}
	if fresh, _ := cache.Fresh("dirty", "h1"); fresh {
		t.Error("recorded diagnostics make an entry stale")
	}
	if fresh, _ := cache.Fresh("ghost", "h1"); fresh {
		t.Error("a missing module is never fresh")
	}
}

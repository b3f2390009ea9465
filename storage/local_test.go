package storage

import (
	"path/filepath"
	"testing"
)

func TestLocalRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "local.db")
	l, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	if _, found, err := l.GetItem("auth_token"); err != nil || found {
		t.Fatalf("fresh store: found=%v err=%v", found, err)
	}
	if err := l.SetItem("auth_token", "abc"); err != nil {
		t.Fatal(err)
	}
	if err := l.SetItem("auth_token", "def"); err != nil {
		t.Fatal(err)
	}
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	// Values survive reopening
	l, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	v, found, err := l.GetItem("auth_token")
	if err != nil || !found || v != "def" {
		t.Fatalf("GetItem = %q, %v, %v", v, found, err)
	}

	if err := l.RemoveItem("auth_token"); err != nil {
		t.Fatal(err)
	}
	if err := l.RemoveItem("auth_token"); err != nil {
		t.Fatalf("removing a missing key: %v", err)
	}
	if _, found, _ := l.GetItem("auth_token"); found {
		t.Fatal("key still present after RemoveItem")
	}
}

func TestClear(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "local.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	_ = l.SetItem("a", "1")
	_ = l.SetItem("b", "2")
	if err := l.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := l.GetItem("a"); found {
		t.Fatal("a survived Clear")
	}
}

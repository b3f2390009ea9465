package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resto-pos/config"
	"resto-pos/models"
	"resto-pos/testutil"
)

type harness struct {
	t      *testing.T
	b      *testutil.Backend
	cfg    config.Config
	opened []string
}

func newHarness(t *testing.T) *harness {
	dir := t.TempDir()
	b := testutil.NewBackend(t)
	return &harness{t: t, b: b, cfg: config.Config{
		APIBaseURL:   b.URL(),
		StoragePath:  filepath.Join(dir, "local.db"),
		DownloadDir:  filepath.Join(dir, "downloads"),
		OpenReceipts: true,
	}}
}

func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	var out bytes.Buffer
	env := Env{
		Config: h.cfg,
		In:     strings.NewReader(stdin),
		Out:    &out,
		Open: func(path string) error {
			h.opened = append(h.opened, path)
			return nil
		},
	}
	err := Run(context.Background(), env, args)
	return out.String(), err
}

func (h *harness) mustRun(stdin string, args ...string) string {
	h.t.Helper()
	out, err := h.run(stdin, args...)
	if err != nil {
		h.t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

func TestSessionCommands(t *testing.T) {
	h := newHarness(t)

	if _, err := h.run("", "whoami"); err == nil {
		t.Fatal("whoami without login succeeded")
	}
	if _, err := h.run("", "login", "-email", testutil.WaiterEmail, "-password", "nope"); err == nil {
		t.Fatal("login with wrong password succeeded")
	}

	out := h.mustRun("", "login", "-email", testutil.WaiterEmail, "-password", testutil.Password)
	if !strings.Contains(out, "(Server)") {
		t.Fatalf("login output = %q", out)
	}
	// the token survives between runs
	if out := h.mustRun("", "whoami"); !strings.Contains(out, testutil.WaiterEmail) {
		t.Fatalf("whoami = %q", out)
	}

	h.mustRun("", "logout")
	if _, err := h.run("", "whoami"); err == nil {
		t.Fatal("whoami after logout succeeded")
	}
}

func TestOrderEntrySession(t *testing.T) {
	h := newHarness(t)
	h.mustRun("", "login", "-email", testutil.CashierEmail, "-password", testutil.Password)

	script := strings.Join([]string{
		"add Burger",
		"add burger",
		"add Cola",
		"dec Cola",
		"send",
		"close",
		"y",
	}, "\n") + "\n"
	out := h.mustRun(script, "order", "-table", "T5")

	for _, want := range []string{"$18.00", "Quantity is already 1", "Order sent to kitchen", "closed, total $18.00", "Receipt saved to"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	entries, err := os.ReadDir(h.cfg.DownloadDir)
	if err != nil || len(entries) != 1 || !strings.HasPrefix(entries[0].Name(), "receipt-order-") {
		t.Fatalf("downloads = %v, %v", entries, err)
	}
	if want := filepath.Join(h.cfg.DownloadDir, entries[0].Name()); len(h.opened) != 1 || h.opened[0] != want {
		t.Fatalf("opened = %v, want %s", h.opened, want)
	}
	if got := h.b.Table(t, "T5").Status; got != models.TableAvailable {
		t.Fatalf("T5 status = %s", got)
	}

	list := h.mustRun("", "orders", "-status", "closed")
	if !strings.Contains(list, "T5") || !strings.Contains(list, "$18.00") {
		t.Fatalf("orders = %s", list)
	}
}

func TestUnsavedDraftIsNotPersisted(t *testing.T) {
	h := newHarness(t)
	h.mustRun("", "login", "-email", testutil.WaiterEmail, "-password", testutil.Password)

	out := h.mustRun("add Brownie\nquit\n", "order", "-table", "T2")
	if !strings.Contains(out, "Unsaved changes were discarded") {
		t.Fatalf("output = %s", out)
	}
	var n int64
	h.b.DB.Model(&models.Order{}).Count(&n)
	if n != 0 {
		t.Fatalf("orders stored = %d", n)
	}
}

func TestMenuCommandsNeedCashier(t *testing.T) {
	h := newHarness(t)
	h.mustRun("", "login", "-email", testutil.WaiterEmail, "-password", testutil.Password)
	if _, err := h.run("", "menu"); err == nil {
		t.Fatal("waiter listed menu management")
	}

	h.mustRun("", "logout")
	h.mustRun("", "login", "-email", testutil.CashierEmail, "-password", testutil.Password)

	if _, err := h.run("", "menu", "add", "-name", "Te", "-price", "0"); err == nil {
		t.Fatal("invalid form accepted")
	}
	out := h.mustRun("", "menu", "add", "-name", "Lemonade", "-price", "2.5", "-category", "Beverages")
	if !strings.Contains(out, "Lemonade $2.50") {
		t.Fatalf("add = %q", out)
	}
	out = h.mustRun("", "menu", "list", "-category", "Beverages")
	if !strings.Contains(out, "Lemonade") || !strings.Contains(out, "Cola") {
		t.Fatalf("list = %q", out)
	}
}

func TestFloorAndGuestBoard(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("", "guest", "-once")
	if !strings.Contains(out, "T8") || !strings.Contains(out, "Available") {
		t.Fatalf("guest = %q", out)
	}

	h.mustRun("", "login", "-email", testutil.WaiterEmail, "-password", testutil.Password)
	h.mustRun("add Cola\nsave\nquit\n", "order", "-table", "T3")
	out = h.mustRun("", "tables")
	if !strings.Contains(out, "8 tables: 7 available, 1 occupied") {
		t.Fatalf("tables = %q", out)
	}
}

func TestUnknownCommand(t *testing.T) {
	h := newHarness(t)
	if _, err := h.run("", "dance"); !errors.Is(err, ErrUsage) {
		t.Fatalf("err = %v", err)
	}
}

// Package cli is the resto-pos command line: the staff terminal, the guest
// table board and the reference API server.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"resto-pos/api"
	"resto-pos/config"
	"resto-pos/history"
	"resto-pos/routes"
	"resto-pos/session"
	"resto-pos/storage"

	"github.com/gin-gonic/gin"
)

const usage = `usage: resto-pos <command> [flags]

commands:
  serve      run the POS API
  login      sign in (-email, -password)
  logout     sign out
  whoami     show the signed-in staff member
  tables     show the floor plan
  guest      public table board, refreshed periodically
  order      order entry for a table (-table T5)
  orders     order list (-status, -search) or "orders close -id N"
  receipt    download and open the receipt of a closed order (-id N)
  menu       menu management: list | add | edit | delete (cashier)
`

var ErrUsage = errors.New("invalid usage")

// Env is what a command runs against
type Env struct {
	Config config.Config
	In     io.Reader
	Out    io.Writer
	Log    *log.Logger
	// Open shows a downloaded receipt; the desktop viewer when nil
	Open history.Opener
}

// Run executes one command line. args excludes the program name.
func Run(ctx context.Context, env Env, args []string) error {
	if env.Log == nil {
		env.Log = log.New(io.Discard, "", 0)
	}
	if env.Open == nil {
		env.Open = openFile
	}
	if len(args) == 0 {
		fmt.Fprint(env.Out, usage)
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "serve":
		return serve(ctx, env, rest)
	case "guest":
		return guest(ctx, env, rest)
	case "help", "-h", "--help":
		fmt.Fprint(env.Out, usage)
		return nil
	}

	t, err := openTerminal(env)
	if err != nil {
		return err
	}
	defer t.close()

	switch cmd {
	case "login":
		return t.login(ctx, rest)
	case "logout":
		return t.logout(ctx)
	case "whoami":
		return t.whoami(ctx)
	case "tables":
		return t.tables(ctx)
	case "order":
		return t.order(ctx, rest)
	case "orders":
		return t.orders(ctx, rest)
	case "receipt":
		return t.receipt(ctx, rest)
	case "menu":
		return t.menu(ctx, rest)
	}
	fmt.Fprint(env.Out, usage)
	return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
}

// terminal is a staff terminal: local storage, session and API client
type terminal struct {
	Env
	store  *storage.Local
	sess   *session.Session
	client *api.Client
}

func openTerminal(env Env) (*terminal, error) {
	store, err := storage.Open(env.Config.StoragePath)
	if err != nil {
		return nil, err
	}
	sess, err := session.Open(store)
	if err != nil {
		store.Close()
		return nil, err
	}
	client, err := api.New(env.Config.APIBaseURL,
		api.WithTimeout(env.Config.HTTPTimeout),
		api.WithTokenSource(sess))
	if err != nil {
		store.Close()
		return nil, err
	}
	return &terminal{Env: env, store: store, sess: sess, client: client}, nil
}

func (t *terminal) close() {
	if err := t.store.Close(); err != nil {
		t.Log.Printf("close local storage: %v", err)
	}
}

// signedIn restores the user behind the persisted token
func (t *terminal) signedIn(ctx context.Context) error {
	if err := t.sess.Refresh(ctx, t.client.Auth); err != nil {
		if errors.Is(err, session.ErrSignedOut) {
			return fmt.Errorf("%w: run resto-pos login first", err)
		}
		return errors.New(api.Message(err, "Unable to connect to server."))
	}
	return nil
}

func newFlags(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

// serve runs the POS API until ctx is cancelled
func serve(ctx context.Context, env Env, args []string) error {
	cfg := env.Config
	fs := newFlags("serve", env.Out)
	port := fs.String("port", cfg.Port, "listen port")
	dbPath := fs.String("db", cfg.DBPath, "SQLite database file")
	tables := fs.Int("tables", 12, "tables to create on a fresh database")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	db, err := config.OpenDB(*dbPath)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := config.Seed(db, config.DefaultStaff, *tables); err != nil {
		return err
	}

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      routes.NewEngine(db, cfg.JWTSecret),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	env.Log.Printf("🚀 Server running on http://localhost:%s", *port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server stopped unexpectedly: %w", err)
	}
	return nil
}

package floor

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"resto-pos/models"
)

// DefaultPollInterval is how often the guest board refreshes
const DefaultPollInterval = 30 * time.Second

const unreachable = "Unable to connect to server."

// Board is the public table board shown to guests. It needs no session.
type Board struct {
	tables   TableLister
	interval time.Duration
	log      *log.Logger

	mu     sync.RWMutex
	list   []models.Table
	loaded bool
	errMsg string
}

type BoardOption func(*Board)

func WithInterval(d time.Duration) BoardOption {
	return func(b *Board) {
		if d > 0 {
			b.interval = d
		}
	}
}

func WithLogger(l *log.Logger) BoardOption {
	return func(b *Board) {
		if l != nil {
			b.log = l
		}
	}
}

func NewBoard(tables TableLister, opts ...BoardOption) *Board {
	b := &Board{
		tables:   tables,
		interval: DefaultPollInterval,
		log:      log.New(os.Stderr, "[guest-board] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Refresh loads the table list once. Failures after the first successful
// load keep the last good list and show no error.
func (b *Board) Refresh(ctx context.Context) error {
	tables, err := b.tables.List(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		if !b.loaded {
			b.errMsg = unreachable
		}
		return fmt.Errorf("refresh guest board: %w", err)
	}
	b.list = tables
	b.loaded = true
	b.errMsg = ""
	return nil
}

// Run refreshes immediately and then on every tick until ctx is done.
// onUpdate, if set, is called after every refresh attempt.
func (b *Board) Run(ctx context.Context, onUpdate func(*Board)) error {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		if err := b.Refresh(ctx); err != nil && ctx.Err() == nil {
			b.log.Printf("%v", err)
		}
		if onUpdate != nil {
			onUpdate(b)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Tables is the last good table list
func (b *Board) Tables() []models.Table {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]models.Table(nil), b.list...)
}

// Error is the message to show, empty once any load succeeded
func (b *Board) Error() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.errMsg
}

// Loaded reports whether a load has ever succeeded
func (b *Board) Loaded() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loaded
}

package history

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"resto-pos/api"
	"resto-pos/models"
)

var ErrNotLoaded = errors.New("no order loaded")

// Opener shows a downloaded receipt to the user
type Opener func(path string) error

// Detail is the read-only view of one order
type Detail struct {
	orders OrderAPI
	dir    string
	open   Opener
	log    *log.Logger

	order  *models.Order
	banner string
}

type DetailOption func(*Detail)

// WithDownloadDir sets where receipts are saved; default is the working directory
func WithDownloadDir(dir string) DetailOption {
	return func(d *Detail) { d.dir = dir }
}

func WithOpener(fn Opener) DetailOption {
	return func(d *Detail) { d.open = fn }
}

func WithLogger(l *log.Logger) DetailOption {
	return func(d *Detail) {
		if l != nil {
			d.log = l
		}
	}
}

func NewDetail(orders OrderAPI, opts ...DetailOption) *Detail {
	d := &Detail{
		orders: orders,
		dir:    ".",
		log:    log.New(os.Stderr, "[history] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Detail) Load(ctx context.Context, id uint) error {
	order, err := d.orders.Get(ctx, id)
	if err != nil {
		d.banner = api.Message(err, "Failed to fetch order details")
		return fmt.Errorf("get order %d: %w", id, err)
	}
	order.Recalculate()
	d.order = &order
	return nil
}

// Order returns the loaded order
func (d *Detail) Order() (models.Order, bool) {
	if d.order == nil {
		return models.Order{}, false
	}
	return *d.order, true
}

func (d *Detail) Banner() string { return d.banner }
func (d *Detail) DismissBanner() { d.banner = "" }

// PrintReceipt downloads the receipt PDF into the download directory and
// hands it to the opener. It returns the path of the saved file.
func (d *Detail) PrintReceipt(ctx context.Context) (string, error) {
	if d.order == nil {
		return "", ErrNotLoaded
	}
	d.banner = ""

	rc, err := d.orders.Receipt(ctx, d.order.ID)
	if err != nil {
		d.banner = api.Message(err, "Failed to generate receipt")
		return "", err
	}

	name := filepath.Base(rc.Filename)
	if name == "." || name == string(filepath.Separator) {
		name = fmt.Sprintf("receipt-order-%d.pdf", d.order.ID)
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		d.banner = "Failed to save receipt"
		return "", fmt.Errorf("create download dir: %w", err)
	}
	path := filepath.Join(d.dir, name)
	if err := os.WriteFile(path, rc.Data, 0o644); err != nil {
		d.banner = "Failed to save receipt"
		return "", fmt.Errorf("write receipt: %w", err)
	}

	if d.open != nil {
		if err := d.open(path); err != nil {
			d.log.Printf("open %s: %v", path, err)
		}
	}
	return path, nil
}

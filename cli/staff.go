package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"resto-pos/api"
	"resto-pos/floor"
	"resto-pos/history"
	"resto-pos/menu"
	"resto-pos/models"
)

func (t *terminal) login(ctx context.Context, args []string) error {
	fs := newFlags("login", t.Out)
	email := fs.String("email", "", "staff email")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return fmt.Errorf("%w: -email and -password are required", ErrUsage)
	}

	res, err := t.client.Auth.Login(ctx, *email, *password)
	if err != nil {
		return errors.New(api.Message(err, "Login failed"))
	}
	if err := t.sess.Login(res.User, res.Token); err != nil {
		// still signed in for this run
		t.Log.Printf("%v", err)
	}
	fmt.Fprintf(t.Out, "Signed in as %s (%s)\n", res.User.Name, res.User.Role.Label())
	return nil
}

func (t *terminal) logout(ctx context.Context) error {
	if t.sess.IsAuthenticated() {
		if err := t.client.Auth.Logout(ctx); err != nil {
			t.Log.Printf("logout: %v", err)
		}
	}
	if err := t.sess.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(t.Out, "Signed out")
	return nil
}

func (t *terminal) whoami(ctx context.Context) error {
	if err := t.signedIn(ctx); err != nil {
		return err
	}
	user, _ := t.sess.User()
	fmt.Fprintf(t.Out, "%s <%s> %s\n", user.Name, user.Email, user.Role.Label())
	return nil
}

func (t *terminal) tables(ctx context.Context) error {
	if err := t.signedIn(ctx); err != nil {
		return err
	}
	f := floor.FromClient(t.client)
	if err := f.Load(ctx); err != nil {
		return errors.New(f.Banner())
	}
	printFloor(t.Out, f)
	return nil
}

func (t *terminal) orders(ctx context.Context, args []string) error {
	if err := t.signedIn(ctx); err != nil {
		return err
	}
	l := history.NewList(t.client.Orders)

	if len(args) > 0 && args[0] == "close" {
		fs := newFlags("orders close", t.Out)
		id := fs.Uint("id", 0, "order id")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if err := l.Load(ctx); err != nil {
			return errors.New(l.Banner())
		}
		if err := l.Close(ctx, *id); err != nil {
			if errors.Is(err, history.ErrNotOpen) {
				return err
			}
			return errors.New(l.Banner())
		}
		fmt.Fprintf(t.Out, "Order %d closed\n", *id)
		return nil
	}

	fs := newFlags("orders", t.Out)
	status := fs.String("status", history.AllStatuses, "all, pending, open or closed")
	search := fs.String("search", "", "order or table number")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := l.Load(ctx); err != nil {
		return errors.New(l.Banner())
	}
	l.SetFilter(*status, *search)
	printOrders(t.Out, l)
	return nil
}

func (t *terminal) receipt(ctx context.Context, args []string) error {
	fs := newFlags("receipt", t.Out)
	id := fs.Uint("id", 0, "order id")
	open := fs.Bool("open", t.Config.OpenReceipts, "open the PDF after download")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return fmt.Errorf("%w: -id is required", ErrUsage)
	}
	if err := t.signedIn(ctx); err != nil {
		return err
	}
	return t.printReceipt(ctx, *id, *open)
}

func (t *terminal) printReceipt(ctx context.Context, id uint, open bool) error {
	opts := []history.DetailOption{
		history.WithDownloadDir(t.Config.DownloadDir),
		history.WithLogger(t.Log),
	}
	if open {
		opts = append(opts, history.WithOpener(t.Open))
	}
	d := history.NewDetail(t.client.Orders, opts...)
	if err := d.Load(ctx, id); err != nil {
		return errors.New(d.Banner())
	}
	path, err := d.PrintReceipt(ctx)
	if err != nil {
		if msg := d.Banner(); msg != "" {
			return errors.New(msg)
		}
		return err
	}
	fmt.Fprintf(t.Out, "Receipt saved to %s\n", path)
	return nil
}

func (t *terminal) menu(ctx context.Context, args []string) error {
	if err := t.signedIn(ctx); err != nil {
		return err
	}
	m, err := menu.New(t.client.Menu, t.sess)
	if err != nil {
		return err
	}
	action := "list"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		action, args = args[0], args[1:]
	}

	fs := newFlags("menu "+action, t.Out)
	id := fs.Uint("id", 0, "menu item id (edit, delete)")
	query := fs.String("q", "", "name filter (list)")
	category := fs.String("category", "", "category")
	name := fs.String("name", "", "item name")
	description := fs.String("description", "", "item description")
	price := fs.Float64("price", 0, "price in USD")
	image := fs.String("image", "", "image URL")
	unavailable := fs.Bool("unavailable", false, "mark the item unavailable")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := m.Load(ctx); err != nil {
		return errors.New(m.Banner())
	}

	switch action {
	case "list":
		m.SetFilter(*query, *category)
		printMenu(t.Out, m)
		return nil

	case "add":
		form := menu.NewForm()
		form.Name, form.Description, form.Price, form.Image = *name, *description, *price, *image
		if *category != "" {
			form.Category = *category
		}
		form.Available = !*unavailable
		item, err := m.Create(ctx, form)
		if err != nil {
			return menuError(m, err)
		}
		fmt.Fprintf(t.Out, "Added #%d %s %s\n", item.ID, item.Name, models.FormatPrice(item.Price))
		return nil

	case "edit":
		var current *models.MenuItem
		for _, item := range m.Items() {
			if item.ID == *id {
				current = &item
				break
			}
		}
		if current == nil {
			return fmt.Errorf("menu item %d not found", *id)
		}
		form := menu.FormFor(*current)
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "name":
				form.Name = *name
			case "description":
				form.Description = *description
			case "price":
				form.Price = *price
			case "category":
				form.Category = *category
			case "image":
				form.Image = *image
			case "unavailable":
				form.Available = !*unavailable
			}
		})
		item, err := m.Update(ctx, *id, form)
		if err != nil {
			return menuError(m, err)
		}
		fmt.Fprintf(t.Out, "Updated #%d %s %s\n", item.ID, item.Name, models.FormatPrice(item.Price))
		return nil

	case "delete":
		if err := m.Delete(ctx, *id); err != nil {
			return menuError(m, err)
		}
		fmt.Fprintf(t.Out, "Deleted #%d\n", *id)
		return nil
	}
	return fmt.Errorf("%w: unknown menu action %q", ErrUsage, action)
}

func menuError(m *menu.Manager, err error) error {
	var fe menu.FormErrors
	if errors.As(err, &fe) {
		return fe
	}
	if msg := m.Banner(); msg != "" {
		return errors.New(msg)
	}
	return err
}

// openFile hands a file to the desktop's default viewer
func openFile(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	return cmd.Start()
}

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"resto-pos/api"
	"resto-pos/floor"
	"resto-pos/models"
	"resto-pos/orderentry"
	"resto-pos/statemachine"
)

const orderHelp = `commands:
  menu [category]     show the menu (all categories when omitted)
  search <text>       filter the menu by name
  add <item>          add one unit (menu id or name)
  inc|dec <item>      change the quantity by one
  qty <item> <n>      set the quantity
  rm <item>           remove the line
  show                show the order
  save                save the draft
  send                send to kitchen
  close               check out (cashier)
  discard             throw the order away
  quit                leave order entry
`

// order is the order entry terminal for one table
func (t *terminal) order(ctx context.Context, args []string) error {
	fs := newFlags("order", t.Out)
	ref := fs.String("table", "", "table number or id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *ref == "" {
		return fmt.Errorf("%w: -table is required", ErrUsage)
	}
	if err := t.signedIn(ctx); err != nil {
		return err
	}

	f := floor.FromClient(t.client)
	if err := f.Load(ctx); err != nil {
		return errors.New(f.Banner())
	}
	view, ok := f.Find(*ref)
	if !ok {
		return fmt.Errorf("table %s: %w", *ref, floor.ErrUnknownTable)
	}
	e, err := f.Enter(ctx, orderentry.FromClient(t.client), t.sess, view.Table.ID, orderentry.WithLogger(t.Log))
	if err != nil {
		return err
	}
	defer e.Release(context.WithoutCancel(ctx))

	fmt.Fprintf(t.Out, "Table %s\n", e.Table().TableNumber)
	printEntry(t.Out, e)

	in := bufio.NewScanner(t.In)
	for {
		fmt.Fprint(t.Out, "> ")
		if !in.Scan() {
			break
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		quit, err := t.orderCommand(ctx, e, in, strings.Fields(line))
		if err != nil {
			fmt.Fprintln(t.Out, describe(e, err))
			e.DismissBanner()
		}
		if quit {
			break
		}
	}
	if !e.Saved() {
		fmt.Fprintln(t.Out, "Unsaved changes were discarded")
	}
	return in.Err()
}

func (t *terminal) orderCommand(ctx context.Context, e *orderentry.Entry, in *bufio.Scanner, words []string) (bool, error) {
	cmd, rest := words[0], words[1:]
	switch cmd {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		fmt.Fprint(t.Out, orderHelp)
	case "menu":
		e.SelectCategory(strings.Join(rest, " "))
		e.Search("")
		printMenuItems(t.Out, e.VisibleMenu())
	case "search":
		e.SelectCategory("")
		e.Search(strings.Join(rest, " "))
		printMenuItems(t.Out, e.VisibleMenu())
	case "show":
		printEntry(t.Out, e)

	case "add", "inc", "dec", "rm", "qty":
		if len(rest) == 0 {
			return false, fmt.Errorf("%w: %s needs an item", ErrUsage, cmd)
		}
		itemRef := rest
		qty := 0
		if cmd == "qty" {
			if len(rest) < 2 {
				return false, fmt.Errorf("%w: qty <item> <n>", ErrUsage)
			}
			n, err := strconv.Atoi(rest[len(rest)-1])
			if err != nil {
				return false, fmt.Errorf("%w: %q is not a quantity", ErrUsage, rest[len(rest)-1])
			}
			itemRef, qty = rest[:len(rest)-1], n
		}
		food, ok := lookupFood(e, strings.Join(itemRef, " "))
		if !ok {
			return false, fmt.Errorf("no menu item %q", strings.Join(itemRef, " "))
		}
		var err error
		switch cmd {
		case "add":
			err = e.AddItem(ctx, food)
		case "inc":
			err = e.Increment(ctx, food.ID)
		case "dec":
			err = e.Decrement(ctx, food.ID)
		case "rm":
			err = e.Remove(ctx, food.ID)
		case "qty":
			err = e.SetQuantity(ctx, food.ID, qty)
		}
		if err != nil {
			return false, err
		}
		printEntry(t.Out, e)

	case "save":
		if err := e.SaveDraft(ctx); err != nil {
			return false, err
		}
		id, _ := e.OrderID()
		fmt.Fprintf(t.Out, "Draft saved as order %d\n", id)
	case "send":
		if err := e.SendToKitchen(ctx); err != nil {
			return false, err
		}
		fmt.Fprintln(t.Out, "Order sent to kitchen")
	case "close":
		closed, err := e.Close(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(t.Out, "Order %s closed, total %s\n", closed.OrderNumber, models.FormatPrice(closed.Total))
		if confirm(t.Out, in, "Print receipt? [y/N] ") {
			if err := t.printReceipt(ctx, closed.ID, t.Config.OpenReceipts); err != nil {
				fmt.Fprintln(t.Out, err)
			}
		}
		return true, nil
	case "discard":
		if !confirm(t.Out, in, "Discard this order? [y/N] ") {
			return false, nil
		}
		if err := e.Discard(ctx); err != nil {
			return false, err
		}
		fmt.Fprintln(t.Out, "Order discarded")
	default:
		return false, fmt.Errorf("%w: unknown command %q (try help)", ErrUsage, cmd)
	}
	return false, nil
}

// describe turns a failed action into the line shown to the user
func describe(e *orderentry.Entry, err error) string {
	if msg := e.Banner(); msg != "" {
		return "! " + msg
	}
	switch {
	case errors.Is(err, orderentry.ErrQuantityBelowOne):
		return "! Quantity is already 1, use rm to remove the item"
	case errors.Is(err, statemachine.ErrInvalidTransition):
		return "! Only a cashier can close orders"
	}
	return "! " + err.Error()
}

func lookupFood(e *orderentry.Entry, ref string) (models.MenuItem, bool) {
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		return e.Food(uint(id))
	}
	for _, item := range e.Menu() {
		if strings.EqualFold(item.Name, ref) {
			return item, true
		}
	}
	return models.MenuItem{}, false
}

func confirm(out io.Writer, in *bufio.Scanner, prompt string) bool {
	fmt.Fprint(out, prompt)
	if !in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(in.Text()))
	return answer == "y" || answer == "yes"
}

// guest runs the public table board until interrupted
func guest(ctx context.Context, env Env, args []string) error {
	fs := newFlags("guest", env.Out)
	interval := fs.Duration("interval", env.Config.GuestPollInterval, "refresh interval")
	once := fs.Bool("once", false, "print the board once and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := api.New(env.Config.APIBaseURL, api.WithTimeout(env.Config.HTTPTimeout))
	if err != nil {
		return err
	}

	board := floor.NewBoard(client.Tables, floor.WithInterval(*interval), floor.WithLogger(env.Log))
	if *once {
		_ = board.Refresh(ctx)
		printBoard(env.Out, board, time.Now())
		if msg := board.Error(); msg != "" {
			return errors.New(msg)
		}
		return nil
	}

	err = board.Run(ctx, func(b *floor.Board) { printBoard(env.Out, b, time.Now()) })
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

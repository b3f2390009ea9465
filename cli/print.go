package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"resto-pos/floor"
	"resto-pos/history"
	"resto-pos/menu"
	"resto-pos/models"
	"resto-pos/orderentry"
)

func table(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func printFloor(out io.Writer, f *floor.Floor) {
	w := table(out)
	fmt.Fprintln(w, "TABLE\tSEATS\tSTATUS\tORDER\tTOTAL")
	for _, v := range f.Tables() {
		order, total := "-", "-"
		if v.Order != nil {
			order = fmt.Sprintf("%s (%s)", v.Order.OrderNumber, v.Order.Status)
			total = models.FormatPrice(v.Order.Total)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", v.Table.TableNumber, v.Table.Capacity, v.Status.Label(), order, total)
	}
	w.Flush()

	s := f.Summary()
	fmt.Fprintf(out, "%d tables: %d available, %d occupied, %d reserved, %d inactive\n",
		s.Total, s.Available, s.Occupied, s.Reserved, s.Inactive)
}

func printBoard(out io.Writer, b *floor.Board, now time.Time) {
	fmt.Fprintf(out, "Table availability, %s\n", now.Format("15:04"))
	if msg := b.Error(); msg != "" {
		fmt.Fprintln(out, msg)
		return
	}
	w := table(out)
	for _, t := range b.Tables() {
		fmt.Fprintf(w, "%s\t%d seats\t%s\n", t.TableNumber, t.Capacity, t.Status.Label())
	}
	w.Flush()
}

func printMenuItems(out io.Writer, items []models.MenuItem) {
	if len(items) == 0 {
		fmt.Fprintln(out, "No menu items")
		return
	}
	w := table(out)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\t")
	for _, item := range items {
		note := ""
		if !item.Available {
			note = "unavailable"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", item.ID, item.Name, item.Category, models.FormatPrice(item.Price), note)
	}
	w.Flush()
}

func printMenu(out io.Writer, m *menu.Manager) {
	items := m.Visible()
	if len(items) == 0 && m.Filtered() {
		fmt.Fprintln(out, "No menu items match the filter")
		return
	}
	printMenuItems(out, items)
}

func printEntry(out io.Writer, e *orderentry.Entry) {
	header := e.Phase().String()
	if id, ok := e.OrderID(); ok {
		header = fmt.Sprintf("order %d, %s", id, header)
	}
	fmt.Fprintf(out, "[%s]\n", header)

	items := e.Items()
	if len(items) == 0 {
		fmt.Fprintln(out, "No items yet")
		return
	}
	w := table(out)
	for _, it := range items {
		fmt.Fprintf(w, "%d\t%s\tx%d\t%s\n", it.MenuItemID, it.Name, it.Quantity, models.FormatPrice(it.ComputeSubtotal()))
	}
	fmt.Fprintf(w, "\tTotal\t\t%s\n", models.FormatPrice(e.Total()))
	w.Flush()
}

func printOrders(out io.Writer, l *history.List) {
	orders := l.Visible()
	if len(orders) == 0 {
		fmt.Fprintln(out, "No orders")
		return
	}
	w := table(out)
	fmt.Fprintln(w, "ID\tNUMBER\tTABLE\tSTATUS\tITEMS\tTOTAL\tCREATED")
	for _, o := range orders {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n",
			o.ID, o.OrderNumber, o.Table.TableNumber, o.Status, o.ItemCount(),
			models.FormatPrice(o.Total), o.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	w.Flush()
}

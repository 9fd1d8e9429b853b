package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/OilerRig/WebApp/internal/checkout"
	"github.com/OilerRig/WebApp/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const timeLayout = "2006-01-02 15:04"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func money(amount decimal.Decimal, unit currency.Unit) string {
	return domain.NewMoney(amount, unit).String()
}

func renderPage(w io.Writer, page domain.CatalogPage, term string, unit currency.Unit) {
	if term != "" {
		fmt.Fprintf(w, "Search: %q\n", term)
	}
	if len(page.Products) == 0 {
		fmt.Fprintln(w, "No products found.")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tVENDOR\tPRICE\tSTOCK")
	for _, p := range page.Products {
		stock := fmt.Sprint(p.Stock)
		if !p.InStock() {
			stock = "out of stock"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.VendorName, money(p.Price, unit), stock)
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "Page %d of %d\n", page.Number+1, max(page.TotalPages, 1))
}

func renderProduct(w io.Writer, d domain.ProductDetail, unit currency.Unit) {
	fmt.Fprintf(w, "%s by %s\n", d.Name, d.VendorName)
	fmt.Fprintf(w, "Price: %s\n", money(d.Price, unit))
	if d.InStock() {
		fmt.Fprintf(w, "In stock: %d\n", d.Stock)
	} else {
		fmt.Fprintln(w, "Out of stock")
	}

	keys := d.SpecKeys()
	if len(keys) == 0 {
		return
	}

	tw := newTable(w)
	for _, key := range keys {
		fmt.Fprintf(tw, "  %s\t%s\n", key, d.Specs[key])
	}
	_ = tw.Flush()
}

func renderCart(w io.Writer, lines []domain.CartLine, total domain.Money) {
	if len(lines) == 0 {
		fmt.Fprintln(w, "Your cart is empty.")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tPRICE\tSUBTOTAL")
	for _, l := range lines {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n",
			l.Product.ID, l.Product.Name, l.Quantity,
			money(l.Product.Price, total.Currency), money(l.Subtotal(), total.Currency))
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "Total: %s\n", total)
}

// renderOrders lists orders with their totals; the expanded one also shows
// its items.
func renderOrders(w io.Writer, orders []domain.Order, expanded string, unit currency.Unit) {
	if len(orders) == 0 {
		fmt.Fprintln(w, "No orders.")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tSTATUS\tCREATED\tITEMS\tTOTAL")
	for _, o := range orders {
		units := lo.SumBy(o.Items, func(i domain.OrderItem) int { return i.Quantity })
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", o.ID, o.Status, formatCreatedAt(o), units, money(o.Total(), unit))

		if o.ID != expanded {
			continue
		}
		for _, item := range o.Items {
			fmt.Fprintf(tw, "  - %s\t%d x %s\t\t\t%s\n",
				item.Product.Name, item.Quantity, money(item.Product.Price, unit), money(item.Subtotal(), unit))
		}
	}
	_ = tw.Flush()
}

func formatCreatedAt(o domain.Order) string {
	if o.CreatedAt.IsZero() {
		return "-"
	}
	return o.CreatedAt.Local().Format(timeLayout)
}

func renderForm(w io.Writer, form *checkout.Form) {
	tw := newTable(w)
	for _, field := range checkout.Fields() {
		status := ""
		if err := form.FieldError(field); err != nil {
			status = err.Error()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", field.Label(), masked(field, form.Value(field)), status)
	}
	_ = tw.Flush()
}

func masked(field checkout.Field, value string) string {
	switch field {
	case checkout.FieldCVV:
		return strings.Repeat("*", len(value))
	case checkout.FieldCardNumber:
		if len(value) <= 4 {
			return value
		}
		return strings.Repeat("*", len(value)-4) + value[len(value)-4:]
	}
	return value
}

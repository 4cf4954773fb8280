package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/noah-isme/checkout-pricing/internal/checkout"
	"github.com/noah-isme/checkout-pricing/internal/pricing"
)

var (
	accent = lipgloss.Color("#7D56F4")
	dim    = lipgloss.Color("#888888")
	good   = lipgloss.Color("#04B575")
	bad    = lipgloss.Color("#FF5F87")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	dimStyle   = lipgloss.NewStyle().Foreground(dim)
	labelStyle = lipgloss.NewStyle().Width(20)
	totalStyle = lipgloss.NewStyle().Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(good)
	failStyle  = lipgloss.NewStyle().Foreground(bad)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1)
)

// RenderQuote renders a quote as a styled summary.
func RenderQuote(q checkout.Quote, cart pricing.Cart) string {
	var b strings.Builder

	header := titleStyle.Render("Quote "+q.ID) + "\n" +
		dimStyle.Render(fmt.Sprintf("%s customer · %s shipping · %s", cart.CustomerType, cart.ShippingMethod, q.Tier))
	if q.Cached {
		header += "  " + dimStyle.Render("(cached)")
	}
	b.WriteString(boxStyle.Render(header))
	b.WriteString("\n")

	writeLine(&b, "Items", q.Totals.ItemsCost.StringFixed(2), lipgloss.NewStyle())
	writeLine(&b, "Shipping", q.Totals.ShippingCost.StringFixed(2), lipgloss.NewStyle())
	writeLine(&b, "Customer discount", "-"+q.Totals.CustomerDiscount.StringFixed(2), okStyle)
	writeLine(&b, "Total", q.Totals.Total.StringFixed(2), totalStyle)
	return b.String()
}

// RenderAddressVerdict renders the validate-address result.
func RenderAddressVerdict(missing []string) string {
	if len(missing) == 0 {
		return okStyle.Render("✓ valid") + "\n"
	}
	return failStyle.Render("✗ invalid") + "  " + dimStyle.Render("missing: "+strings.Join(missing, ", ")) + "\n"
}

func writeLine(b *strings.Builder, label, value string, style lipgloss.Style) {
	b.WriteString("  " + labelStyle.Render(label) + style.Render(value) + "\n")
}

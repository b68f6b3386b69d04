package cart

import (
	"fmt"
	"strings"
)

func Money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// Render formats a view as plain text for the chat transcript.
func Render(v View) string {
	if v.Count == 0 {
		return "Your cart is empty."
	}
	var sb strings.Builder
	sb.WriteString("Here's your cart:\n")
	for _, g := range v.Groups {
		sb.WriteString(fmt.Sprintf("\n%s\n", g.Store))
		for _, l := range g.Lines {
			sb.WriteString(fmt.Sprintf("  %d. %s (size %s) x%d - %s\n",
				l.Position, l.Item.Name, l.Item.SelectedSize, l.Item.Quantity, l.Item.Price))
		}
	}
	sb.WriteString(fmt.Sprintf("\nTotal: %s for %d item(s)", Money(v.Total), v.Count))
	return sb.String()
}

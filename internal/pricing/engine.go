package pricing

import "github.com/shopspring/decimal"

// ItemsCost sums quantity × unit price over every item.
func ItemsCost(items []Item) Money {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Cost())
	}
	return subtotal
}

// QuantitySum sums the quantities of every item.
func QuantitySum(items []Item) int64 {
	var total int64
	for _, it := range items {
		total += int64(it.Quantity)
	}
	return total
}

// Summarize assembles totals, subtracting the discount from items plus shipping.
func Summarize(itemsCost, shipping, discount Money) Totals {
	return Totals{
		ItemsCost:        itemsCost,
		ShippingCost:     shipping,
		CustomerDiscount: discount,
		Total:            itemsCost.Add(shipping).Sub(discount),
	}
}

package services

import (
	"github.com/SundayYogurt/store_service/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	taxRate           = decimal.RequireFromString("0.08")
	freeShippingAbove = decimal.NewFromInt(100)
	flatShippingFee   = decimal.NewFromInt(10)
)

type OrderTotals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals prices the order lines: 8% tax, free shipping when the
// subtotal is over 100 and a flat 10 otherwise. Amounts are rounded to cents.
func ComputeTotals(items []domain.OrderItem) OrderTotals {
	subtotal := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}
	subtotal = subtotal.Round(2)

	tax := subtotal.Mul(taxRate).Round(2)
	shipping := flatShippingFee
	if subtotal.GreaterThan(freeShippingAbove) {
		shipping = decimal.Zero
	}

	return OrderTotals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping),
	}
}

// Apply copies the totals onto the order.
func (t OrderTotals) Apply(o *domain.Order) {
	o.Subtotal = t.Subtotal.InexactFloat64()
	o.Tax = t.Tax.InexactFloat64()
	o.Shipping = t.Shipping.InexactFloat64()
	o.Total = t.Total.InexactFloat64()
}

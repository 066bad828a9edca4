package messages

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency formats amounts as whole units with a symbol
type Currency struct {
	Code   string
	Symbol string
}

// DefaultCurrency is Indian rupees
var DefaultCurrency = Currency{Code: "INR", Symbol: "₹"}

// Format renders amount rounded half away from zero to whole units. INR uses
// lakh grouping (1,00,000); other codes group by thousands.
func (c Currency) Format(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	negative := rounded.IsNegative()
	digits := rounded.Abs().String()

	var grouped string
	if strings.EqualFold(c.Code, "INR") {
		grouped = groupIndian(digits)
	} else {
		grouped = groupThousands(digits)
	}

	if negative {
		return "-" + c.Symbol + grouped
	}
	return c.Symbol + grouped
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var b strings.Builder
	lead := len(head) % 2
	if lead > 0 {
		b.WriteString(head[:lead])
	}
	for i := lead; i < len(head); i += 2 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(head[i : i+2])
	}
	b.WriteByte(',')
	b.WriteString(tail)
	return b.String()
}

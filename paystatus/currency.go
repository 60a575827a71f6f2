package paystatus

import (
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency renders amounts rounded to whole units. The zero value prints
// bare integers ("20000"). Setting Tag adds locale digit grouping.
// Amounts below one unit that would round to 0 keep two decimals ("0.40"),
// so a nonzero balance never reads as zero.
type Currency struct {
	Prefix string
	Tag    language.Tag
}

// NewCurrency parses a BCP 47 locale. An empty locale keeps plain integers.
func NewCurrency(prefix, locale string) (Currency, error) {
	c := Currency{Prefix: prefix}
	if locale == "" {
		return c, nil
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return Currency{}, err
	}
	c.Tag = tag
	return c, nil
}

func (c Currency) Format(amount decimal.Decimal) string {
	n := amount.Round(0).IntPart()
	if n == 0 && !amount.IsZero() {
		return c.Prefix + c.formatCents(amount)
	}
	if c.Tag == language.Und {
		return c.Prefix + strconv.FormatInt(n, 10)
	}
	return c.Prefix + message.NewPrinter(c.Tag).Sprintf("%d", n)
}

func (c Currency) formatCents(amount decimal.Decimal) string {
	if c.Tag == language.Und {
		return amount.StringFixed(2)
	}
	f, _ := amount.Round(2).Float64()
	return message.NewPrinter(c.Tag).Sprintf("%.2f", f)
}

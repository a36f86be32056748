package reservation

import (
	"strings"

	"github.com/shopspring/decimal"
)

const servicesSeparator = " + "

// Catalog maps a service name to its price.
type Catalog map[string]decimal.Decimal

// Total sums the known prices. Unknown names are free text and contribute zero.
func (c Catalog) Total(services []string) decimal.Decimal {
	total := decimal.Zero
	for _, s := range NormalizeServices(services) {
		if price, ok := c[s]; ok {
			total = total.Add(price)
		}
	}
	return total
}

// TotalForText prices a stored service selection text.
func (c Catalog) TotalForText(text string) decimal.Decimal {
	return c.Total(ParseServicesText(text))
}

// DepositPolicy is the tenant's fixed deposit configuration.
type DepositPolicy struct {
	Enabled bool            `json:"enabled"`
	Amount  decimal.Decimal `json:"amount"`
}

// Deposit is zero when disabled; negative configured amounts clamp to zero.
func (p DepositPolicy) Deposit() decimal.Decimal {
	if !p.Enabled || p.Amount.IsNegative() {
		return decimal.Zero
	}
	return p.Amount
}

// NormalizeServices trims names and drops empty entries.
func NormalizeServices(services []string) []string {
	out := make([]string, 0, len(services))
	for _, s := range services {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ServicesText joins a selection into its stored form, "A + B".
func ServicesText(services []string) string {
	return strings.Join(NormalizeServices(services), servicesSeparator)
}

func ParseServicesText(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return NormalizeServices(strings.Split(text, "+"))
}

package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warp/studio-engine/studio"
)

// =============================================================================
// CLIENT ROLL-UP
// =============================================================================

// ClientSummaries rolls booking ledgers up to the client that owns them.
// The summary name is the first booking's display name seen for the client.
// Output is ordered by client id.
func ClientSummaries(bookings []studio.Booking, records []studio.ClientPaymentRecord) []Summary {
	entries := ClientEntries(records)
	byClient := make(map[studio.ClientID]*Summary)
	var order []studio.ClientID

	for _, b := range bookings {
		s := Summarize(string(b.ID), b.Name, entries)
		acc, ok := byClient[b.ClientID]
		if !ok {
			acc = &Summary{ID: string(b.ClientID), Name: b.Name}
			byClient[b.ClientID] = acc
			order = append(order, b.ClientID)
		}
		acc.TotalAgreed = acc.TotalAgreed.Add(s.TotalAgreed)
		acc.TotalPaid = acc.TotalPaid.Add(s.TotalPaid)
		acc.TotalDue = acc.TotalAgreed.Sub(acc.TotalPaid)
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	out := make([]Summary, len(order))
	for i, id := range order {
		out[i] = *byClient[id]
	}
	return out
}

// =============================================================================
// EXPENSES
// =============================================================================

type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

// ExpenseTotals sums expenses per category inside [from, to]. Empty bounds
// are open. Categories are sorted by total, largest first, then by name.
func ExpenseTotals(expenses []studio.Expense, from, to studio.Date) []CategoryTotal {
	byCat := make(map[string]*CategoryTotal)
	for _, e := range expenses {
		if !e.Date.InRange(from, to) {
			continue
		}
		ct, ok := byCat[e.Category]
		if !ok {
			ct = &CategoryTotal{Category: e.Category}
			byCat[e.Category] = ct
		}
		ct.Total = ct.Total.Add(e.Amount)
		ct.Count++
	}

	out := make([]CategoryTotal, 0, len(byCat))
	for _, ct := range byCat {
		out = append(out, *ct)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

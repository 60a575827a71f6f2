package ledger

import (
	"sort"
	"strings"
)

// DefaultTopN is used when TopN is called with n <= 0.
const DefaultTopN = 10

// TopN ranks subjects by amount due, highest first. Ties fall back to the
// larger agreed total, then to the name (case-insensitive). Subjects with
// nothing agreed and nothing paid are dropped before ranking.
func TopN[E Entry](subjects []Subject, records []E, n int) []Summary {
	if n <= 0 {
		n = DefaultTopN
	}

	ranked := make([]Summary, 0, len(subjects))
	for _, s := range subjects {
		sum := Summarize(s.ID, s.Name, records)
		if !sum.HasActivity() {
			continue
		}
		ranked = append(ranked, sum)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if c := a.TotalDue.Cmp(b.TotalDue); c != 0 {
			return c > 0
		}
		if c := a.TotalAgreed.Cmp(b.TotalAgreed); c != 0 {
			return c > 0
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

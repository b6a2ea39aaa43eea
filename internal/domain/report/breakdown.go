package report

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Breakdown maps a dimension key (category or platform) to an amount.
// Missing keys read as zero.
type Breakdown map[string]decimal.Decimal

// Get returns the amount for key, zero when absent
func (b Breakdown) Get(key string) decimal.Decimal {
	if v, ok := b[key]; ok {
		return v
	}
	return decimal.Zero
}

// Add accumulates amount under key
func (b Breakdown) Add(key string, amount decimal.Decimal) {
	b[key] = b.Get(key).Add(amount)
}

// Sum returns the total over all keys
func (b Breakdown) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range b {
		total = total.Add(v)
	}
	return total
}

// Keys returns the keys in sorted order
func (b Breakdown) Keys() []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns an independent copy. A nil breakdown clones to an empty one.
func (b Breakdown) Clone() Breakdown {
	out := make(Breakdown, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

package tabular

import (
	"fmt"
	"strings"
)

// Roles maps inferred column roles to column indexes. -1 means the role
// could not be assigned.
type Roles struct {
	Identity int
	Quantity int
}

// numericMajorityThreshold: a quantity candidate must have at least this
// share of parseable numeric values among its non-blank cells.
const numericMajorityThreshold = 0.5

// headerTextShare: a first row counts as a header when at least this
// share of its non-blank cells is textual.
const headerTextShare = 0.6

var (
	identityWords    = []string{"name", "member"}
	memberQtyWords   = []string{"dividend", "paid", "payout"}
	financeQtyWords  = []string{"amount", "total", "value", "balance"}
	aggregateMarkers = []string{"total", "subtotal", "sum", "grand", "overall"}
)

// InferMemberRoles finds the identity and dividend columns of a member
// sheet. The quantity column must both match the dividend vocabulary and
// pass the numeric-majority test; when no column does, the sheet is
// skipped entirely rather than guessed at.
func InferMemberRoles(header []string, rows [][]string) (Roles, bool) {
	roles := Roles{Identity: -1, Quantity: -1}

	for i, h := range header {
		if roles.Identity < 0 && headerMatches(h, identityWords) {
			roles.Identity = i
		}
	}
	for i, h := range header {
		if headerMatches(h, memberQtyWords) && numericMajority(rows, i) {
			roles.Quantity = i
			break
		}
	}

	return roles, roles.Identity >= 0 && roles.Quantity >= 0
}

// InferFinancialRoles finds the line-item and amount columns of a
// financial sheet. The amount column is the first numeric-majority column
// matching the amount vocabulary, falling back to the numeric-majority
// column with the highest variance. The fallback is a heuristic default,
// not a correctness guarantee.
func InferFinancialRoles(header []string, rows [][]string) (Roles, bool) {
	roles := Roles{Identity: -1, Quantity: -1}

	for i, h := range header {
		if headerMatches(h, financeQtyWords) && numericMajority(rows, i) {
			roles.Quantity = i
			break
		}
	}
	if roles.Quantity < 0 {
		bestVar := -1.0
		for i := range header {
			if !numericMajority(rows, i) {
				continue
			}
			if v := columnVariance(rows, i); v > bestVar {
				bestVar = v
				roles.Quantity = i
			}
		}
	}

	// Line-item label: first mostly-textual column that is not the amount.
	for i := range header {
		if i != roles.Quantity && textualMajority(rows, i) {
			roles.Identity = i
			break
		}
	}

	return roles, roles.Identity >= 0 && roles.Quantity >= 0
}

// LooksLikeHeader reports whether row reads as column names rather than
// data: mostly textual and no blank run. Handles headerless exports.
func LooksLikeHeader(row []string) bool {
	var nonBlank, textual int
	for _, c := range row {
		c = trim(c)
		if c == "" {
			continue
		}
		nonBlank++
		if _, ok := ParseNumeric(c); !ok {
			textual++
		}
	}
	if nonBlank == 0 {
		return false
	}
	return float64(textual)/float64(nonBlank) >= headerTextShare
}

// SyntheticHeader names columns positionally for headerless sheets.
func SyntheticHeader(width int) []string {
	header := make([]string, width)
	for i := range header {
		header[i] = fmt.Sprintf("col_%d", i+1)
	}
	return header
}

// IsAggregateRow reports whether the identity text marks a
// grand-total/aggregate row, which must not pollute the typed tables.
func IsAggregateRow(identity string) bool {
	lower := strings.ToLower(identity)
	for _, m := range aggregateMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func headerMatches(header string, words []string) bool {
	lower := strings.ToLower(header)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func numericMajority(rows [][]string, col int) bool {
	var nonBlank, numeric int
	for _, row := range rows {
		c := cell(row, col)
		if c == "" {
			continue
		}
		nonBlank++
		if _, ok := ParseNumeric(c); ok {
			numeric++
		}
	}
	if nonBlank == 0 {
		return false
	}
	return float64(numeric)/float64(nonBlank) >= numericMajorityThreshold
}

func textualMajority(rows [][]string, col int) bool {
	var nonBlank, textual int
	for _, row := range rows {
		c := cell(row, col)
		if c == "" {
			continue
		}
		nonBlank++
		if _, ok := ParseNumeric(c); !ok {
			textual++
		}
	}
	if nonBlank == 0 {
		return false
	}
	return float64(textual)/float64(nonBlank) >= numericMajorityThreshold
}

func columnVariance(rows [][]string, col int) float64 {
	var vals []float64
	for _, row := range rows {
		if v, ok := ParseNumeric(cell(row, col)); ok {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return 0
	}
	var mean float64
	for _, v := range vals {
		mean += v
	}
	mean /= float64(len(vals))
	var variance float64
	for _, v := range vals {
		variance += (v - mean) * (v - mean)
	}
	return variance / float64(len(vals))
}

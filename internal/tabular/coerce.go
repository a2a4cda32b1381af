package tabular

import (
	"strconv"
	"strings"
)

// currencyTokens are stripped before numeric parsing. KES variants first;
// the SACCO's spreadsheets mix "KES", "KSh" and plain "Ksh".
var currencyTokens = []string{"kes", "ksh", "sh.", "sh", "$", "€", "£"}

// Coerce converts a spreadsheet cell to a number permissively: currency
// symbols, thousands separators and surrounding whitespace are stripped,
// and accounting-style parentheses mean negative. Anything left that is
// not a number coerces to zero.
func Coerce(s string) float64 {
	v, _ := ParseNumeric(s)
	return v
}

// ParseNumeric reports whether the cell holds a recognizable number and
// returns its value.
func ParseNumeric(s string) (float64, bool) {
	s = strings.ToLower(trim(s))
	if s == "" || s == "-" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	for _, tok := range currencyTokens {
		s = strings.ReplaceAll(s, tok, "")
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	s = trim(s)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		v = -v
	}
	return v, true
}

func trim(s string) string {
	return strings.TrimSpace(s)
}

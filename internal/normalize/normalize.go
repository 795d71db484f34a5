// Package normalize converts raw text fragments scraped from a product page
// into canonical typed values. Every function is pure and total: unparsable
// input yields an absent value, never an error.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PriceScale is the fixed number of fractional digits of a parsed price.
const PriceScale = 2

// asciiFold decomposes characters and strips the combining marks, mapping
// e.g. "Kuřecí" to "Kureci".
var asciiFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var (
	priceRe = regexp.MustCompile(`-?\d+(?:[.,]\d+)?`)
	countRe = regexp.MustCompile(`-?\d+`)
)

// Name lower-cases the given text, folds diacritics to their closest ASCII
// equivalent and collapses internal whitespace. It is idempotent:
// Name(Name(s)) == Name(s).
func Name(text string) string {
	folded, _, err := transform.String(asciiFold, text)
	if err != nil {
		folded = text
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// Price parses a monetary amount out of a decorated string such as
// "12,50 Kč" or "79.90". Comma and dot both work as the decimal separator,
// any non-numeric decoration is dropped and the result is rounded to
// PriceScale digits. Negative and zero amounts are kept as-is; whether they
// are acceptable is the caller's policy. Unparsable input yields an invalid
// NullDecimal.
func Price(text string) decimal.NullDecimal {
	match := priceRe.FindString(strings.TrimSpace(text))
	if match == "" {
		return decimal.NullDecimal{}
	}

	amount, err := decimal.NewFromString(strings.ReplaceAll(match, ",", "."))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: amount.Round(PriceScale), Valid: true}
}

// Quantity parses a stock count out of a string with an optional unit
// suffix, e.g. "2 kusy" or "5 ks". The source pages spell a single remaining
// item as "poslední kus", which parses as 1. Negative counts are not valid
// quantities and yield ok == false, as does any input without a number.
func Quantity(text string) (int64, bool) {
	normalized := Name(text)
	if normalized == "" {
		return 0, false
	}
	if strings.HasPrefix(normalized, "posledni") {
		return 1, true
	}

	match := countRe.FindString(normalized)
	if match == "" {
		return 0, false
	}
	count, err := strconv.ParseInt(match, 10, 64)
	if err != nil || count < 0 {
		return 0, false
	}
	return count, true
}

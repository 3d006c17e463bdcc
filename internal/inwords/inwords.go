// Package inwords spells rupee amounts the way Indian invoices print them.
package inwords

import (
	"strings"

	"github.com/shopspring/decimal"
)

var ones = []string{
	"Zero", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

const (
	thousand = 1000
	lakh     = 100 * thousand
	crore    = 100 * lakh
)

var hundred = decimal.NewFromInt(100)

// ToWords converts amount to "Rupees {words} and {paise} Paisa Only.".
// When the paise part is zero the paise words are omitted:
// "Rupees Five Thousand and Paisa Only.".
func ToWords(amount decimal.Decimal) string {
	negative := amount.IsNegative()
	amount = amount.Abs()

	rupees := amount.Truncate(0)
	paise := amount.Sub(rupees).Mul(hundred).Round(0).IntPart()
	r := rupees.IntPart()
	if paise >= 100 {
		r++
		paise -= 100
	}

	rupeeWords := Number(r)
	if negative {
		rupeeWords = "Minus " + rupeeWords
	}

	if paise > 0 {
		return "Rupees " + rupeeWords + " and " + Number(paise) + " Paisa Only."
	}
	return "Rupees " + rupeeWords + " and Paisa Only."
}

// Number spells a non-negative integer with crore/lakh grouping, title case,
// no hyphens and no "and": 123456 is "One Lakh Twenty Three Thousand Four
// Hundred Fifty Six".
func Number(n int64) string {
	if n < 0 {
		return "Minus " + Number(-n)
	}
	if n == 0 {
		return ones[0]
	}
	return strings.Join(group(n), " ")
}

func group(n int64) []string {
	var parts []string
	if n >= crore {
		parts = append(parts, group(n/crore)...)
		parts = append(parts, "Crore")
		n %= crore
	}
	if n >= lakh {
		parts = append(parts, belowHundred(n/lakh)...)
		parts = append(parts, "Lakh")
		n %= lakh
	}
	if n >= thousand {
		parts = append(parts, belowHundred(n/thousand)...)
		parts = append(parts, "Thousand")
		n %= thousand
	}
	if n >= 100 {
		parts = append(parts, ones[n/100], "Hundred")
		n %= 100
	}
	if n > 0 {
		parts = append(parts, belowHundred(n)...)
	}
	return parts
}

func belowHundred(n int64) []string {
	if n < 20 {
		return []string{ones[n]}
	}
	if n%10 == 0 {
		return []string{tens[n/10]}
	}
	return []string{tens[n/10], ones[n%10]}
}

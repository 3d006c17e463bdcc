package inwords_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"invoicecheck/internal/inwords"
)

func TestToWords(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{"whole_thousands", "5000.00", "Rupees Five Thousand and Paisa Only."},
		{"with_paise", "1234.56", "Rupees One Thousand Two Hundred Thirty Four and Fifty Six Paisa Only."},
		{"zero", "0.00", "Rupees Zero and Paisa Only."},
		{"lakh", "61336.40", "Rupees Sixty One Thousand Three Hundred Thirty Six and Forty Paisa Only."},
		{"lakh_grouping", "123456.00", "Rupees One Lakh Twenty Three Thousand Four Hundred Fifty Six and Paisa Only."},
		{"crore_grouping", "12345678.05", "Rupees One Crore Twenty Three Lakh Forty Five Thousand Six Hundred Seventy Eight and Five Paisa Only."},
		{"hundred_crore", "1234567890", "Rupees One Hundred Twenty Three Crore Forty Five Lakh Sixty Seven Thousand Eight Hundred Ninety and Paisa Only."},
		{"no_and_inside_hundreds", "105.00", "Rupees One Hundred Five and Paisa Only."},
		{"teens", "2052.76", "Rupees Two Thousand Fifty Two and Seventy Six Paisa Only."},
		{"paise_rounding", "10.005", "Rupees Ten and One Paisa Only."},
		{"paise_carry", "9.999", "Rupees Ten and Paisa Only."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inwords.ToWords(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestToWords_Deterministic(t *testing.T) {
	amount := decimal.RequireFromString("98765.43")
	assert.Equal(t, inwords.ToWords(amount), inwords.ToWords(amount))
}

func TestToWords_PaiseClause(t *testing.T) {
	got := inwords.ToWords(decimal.RequireFromString("1234.56"))
	assert.Contains(t, got, "Rupees One Thousand")
	assert.Contains(t, got, "Fifty Six")
	assert.Regexp(t, `Paisa Only\.$`, got)
}

func TestNumber(t *testing.T) {
	assert.Equal(t, "Zero", inwords.Number(0))
	assert.Equal(t, "Nineteen", inwords.Number(19))
	assert.Equal(t, "Twenty", inwords.Number(20))
	assert.Equal(t, "Ninety Nine", inwords.Number(99))
	assert.Equal(t, "One Lakh", inwords.Number(100000))
	assert.Equal(t, "Ten Lakh One", inwords.Number(1000001))
	assert.Equal(t, "Minus Five", inwords.Number(-5))
}

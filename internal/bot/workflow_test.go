package bot

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/aungnyeinchamthu/GG-4-NEXT-WIN/internal/models"
)

func TestValidAccountID(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		valid bool
	}{
		{name: "nine digits", input: "123456789", valid: true},
		{name: "thirteen digits", input: "1234567890123", valid: true},
		{name: "eleven digits", input: "12345678901", valid: true},
		{name: "eight digits too short", input: "12345678", valid: false},
		{name: "fourteen digits too long", input: "12345678901234", valid: false},
		{name: "letters mixed in", input: "12345678a", valid: false},
		{name: "empty", input: "", valid: false},
		{name: "spaces", input: "123 456 789", valid: false},
		{name: "decimal point", input: "123456789.0", valid: false},
		{name: "negative sign", input: "-123456789", valid: false},
		{name: "unicode digits", input: "١٢٣٤٥٦٧٨٩", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, validAccountID(tc.input))
		})
	}
}

func TestParseAmount(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		ok       bool
		expected string
	}{
		{name: "decimal", input: "100.5", ok: true, expected: "100.5"},
		{name: "integer", input: "5000", ok: true, expected: "5000"},
		{name: "small fraction", input: "0.01", ok: true, expected: "0.01"},
		{name: "zero", input: "0", ok: false},
		{name: "negative", input: "-10", ok: false},
		{name: "words", input: "one hundred", ok: false},
		{name: "empty", input: "", ok: false},
		{name: "comma separator", input: "1,000", ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			amount, ok := parseAmount(tc.input)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.expected, amount.String())
			}
		})
	}
}

func TestBankSet(t *testing.T) {
	for _, bank := range models.Banks {
		assert.True(t, models.IsValidBank(bank.ID), "bank %s should be valid", bank.ID)
		assert.NotEmpty(t, models.BankLabel(bank.ID))
	}

	assert.False(t, models.IsValidBank("hsbc"))
	assert.False(t, models.IsValidBank(""))
	assert.Equal(t, "hsbc", models.BankLabel("hsbc"))
}

func TestHighestResPhotoRef(t *testing.T) {
	assert.Equal(t, "", highestResPhotoRef(nil))

	photos := []tgbotapi.PhotoSize{
		{FileID: "small", Width: 90, Height: 90},
		{FileID: "large", Width: 1280, Height: 960},
		{FileID: "medium", Width: 320, Height: 240},
	}
	assert.Equal(t, "large", highestResPhotoRef(photos))
}

func TestReviewCaption(t *testing.T) {
	deposit := &models.Deposit{
		ID:               7,
		UserID:           "42",
		Amount:           decimal.RequireFromString("100.5"),
		PaymentMethod:    "kpay",
		BettingAccountID: "123456789",
		Status:           models.DepositApproved,
	}

	caption := reviewCaption(deposit, "staff")
	assert.Contains(t, caption, "Deposit #7")
	assert.Contains(t, caption, "123456789")
	assert.Contains(t, caption, "100.5")
	assert.Contains(t, caption, "KBZPay")
	assert.Contains(t, caption, "approved")
	assert.Contains(t, caption, "@staff")
}

package assistant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatResponseFailurePassesMessageThrough(t *testing.T) {
	res := Result{Success: false, Message: "Balance information is not available for drivers"}
	assert.Equal(t, res.Message, FormatResponse(res))
}

func TestFormatResponseNumbersItems(t *testing.T) {
	res := Result{
		Success: true,
		Message: "Here are 2 drivers:",
		Data: map[string]any{
			"items": []DisplayItem{
				{{"name", "Ahmed"}, {"status", "Active"}},
				{{"name", "Salim"}, {"status", "Active"}},
			},
		},
	}

	out := FormatResponse(res)
	assert.Contains(t, out, "1. Name: Ahmed | Status: Active")
	assert.Contains(t, out, "2. Name: Salim | Status: Active")
	assert.NotContains(t, out, "(Showing limited results")
}

func TestFormatResponseSkipsPlaceholderFields(t *testing.T) {
	res := Result{
		Success: true,
		Message: "Here are 1 drivers:",
		Data: map[string]any{
			"items": []DisplayItem{
				{{"name", "Ahmed"}, {"assigned_vehicle", "Unknown"}, {"rating", nil}, {"status", ""}},
			},
		},
	}

	out := FormatResponse(res)
	assert.Contains(t, out, "1. Name: Ahmed")
	assert.NotContains(t, out, "Unknown")
	assert.NotContains(t, out, "Rating")
	assert.NotContains(t, out, "Status")
}

func TestFormatResponseLimitedFootnote(t *testing.T) {
	res := Result{
		Success: true,
		Message: "Here are 5 drivers:",
		Data: map[string]any{
			"items":   []DisplayItem{{{"name", "Ahmed"}}},
			"limited": true,
		},
	}

	assert.Contains(t, FormatResponse(res), "(Showing limited results for better readability)")
}

func TestFormatResponseBalanceBreakdown(t *testing.T) {
	res := Result{
		Success: true,
		Message: "Total balance across 2 cards: 2770 INR",
		Data: map[string]any{
			"total_balance": 2770.0,
			"cards": []CardInfo{
				{Bank: "Bank Muscat", Type: "Corporate", Balance: 1770, Currency: "OMR"},
				{Bank: "HSBC", Type: "Travel", Balance: 1000, Currency: "OMR"},
			},
		},
	}

	out := FormatResponse(res)
	assert.True(t, strings.HasPrefix(out, "Total balance across 2 cards: 2770 INR"))
	assert.Contains(t, out, "Breakdown by card:")
	assert.Contains(t, out, "• Bank Muscat (Corporate): 1770 OMR")
	assert.Contains(t, out, "• HSBC (Travel): 1000 OMR")
}

func TestFormatResponseStatusBreakdownSorted(t *testing.T) {
	res := Result{
		Success: true,
		Message: "Found 4 drivers",
		Data: map[string]any{
			"total_count": 4,
			"status_breakdown": map[string]int{
				"pending":  1,
				"active":   2,
				"inactive": 1,
			},
		},
	}

	out := FormatResponse(res)
	assert.Contains(t, out, "Status breakdown:")
	activeIdx := strings.Index(out, "• Active: 2")
	inactiveIdx := strings.Index(out, "• Inactive: 1")
	pendingIdx := strings.Index(out, "• Pending: 1")
	assert.Greater(t, activeIdx, -1)
	assert.Greater(t, inactiveIdx, activeIdx)
	assert.Greater(t, pendingIdx, inactiveIdx)
}

func TestFormatAmountTrimsTrailingZeros(t *testing.T) {
	assert.Equal(t, "2770", formatAmount(2770))
	assert.Equal(t, "19.5", formatAmount(19.5))
	assert.Equal(t, "0.25", formatAmount(0.25))
	assert.Equal(t, "0", formatAmount(0))
}

package assistant

import (
	"fmt"
	"sort"
	"strings"
)

// FormatResponse flattens a result envelope into the single string
// shown to the user. It never fails; anything it cannot interpret
// degrades to the bare message.
func FormatResponse(res Result) string {
	if !res.Success || res.Data == nil {
		return res.Message
	}

	var b strings.Builder
	b.WriteString(res.Message)

	if items, ok := res.Data["items"].([]DisplayItem); ok && len(items) > 0 {
		b.WriteString("\n\n")
		for i, item := range items {
			b.WriteString(fmt.Sprintf("%d. ", i+1))
			parts := make([]string, 0, len(item))
			for _, field := range item {
				if skipField(field.Value) {
					continue
				}
				parts = append(parts, fmt.Sprintf("%s: %v", titleKey(field.Key), field.Value))
			}
			b.WriteString(strings.Join(parts, " | "))
			b.WriteString("\n")
		}
		if limited, ok := res.Data["limited"].(bool); ok && limited {
			b.WriteString("\n(Showing limited results for better readability)")
		}
		return b.String()
	}

	if _, ok := res.Data["total_balance"]; ok {
		if cards, ok := res.Data["cards"].([]CardInfo); ok && len(cards) > 0 {
			b.WriteString("\n\nBreakdown by card:")
			for _, card := range cards {
				b.WriteString(fmt.Sprintf("\n• %s (%s): %s %s", card.Bank, card.Type, formatAmount(card.Balance), card.Currency))
			}
		}
		return b.String()
	}

	if breakdown, ok := res.Data["status_breakdown"].(map[string]int); ok && len(breakdown) > 0 {
		statuses := make([]string, 0, len(breakdown))
		for status := range breakdown {
			statuses = append(statuses, status)
		}
		sort.Strings(statuses)
		b.WriteString("\n\nStatus breakdown:")
		for _, status := range statuses {
			b.WriteString(fmt.Sprintf("\n• %s: %d", titleWord(status), breakdown[status]))
		}
		return b.String()
	}

	return b.String()
}

// skipField drops empty and placeholder values from display lines.
func skipField(v any) bool {
	if v == nil {
		return true
	}
	s := fmt.Sprint(v)
	return s == "" || strings.EqualFold(s, "unknown")
}

// titleKey turns a snake_case field key into a display label.
func titleKey(key string) string {
	words := strings.Split(key, "_")
	for i, word := range words {
		words[i] = titleWord(word)
	}
	return strings.Join(words, " ")
}

func titleWord(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}

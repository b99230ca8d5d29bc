package assistant

import (
	"fmt"
	"sort"
	"strings"

	"github.com/universererp/backend/internal/storage"
)

// Field is one labelled value of a display projection. Items keep
// their fields as an ordered slice so rendering is deterministic.
type Field struct {
	Key   string
	Value any
}

type DisplayItem []Field

// CardInfo is the per-card breakdown attached to balance results.
type CardInfo struct {
	Bank     string
	Type     string
	Balance  float64
	Currency string
}

func projectForDisplay(doc storage.Document, entity string) DisplayItem {
	switch entity {
	case "debit_cards":
		return DisplayItem{
			{"bank", stringOr(doc, "bankName", "Unknown")},
			{"type", stringOr(doc, "cardType", "Unknown")},
			{"balance", fmt.Sprintf("%s %s", formatAmount(doc.GetFloat("currentBalance")), stringOr(doc, "currency", "INR"))},
			{"status", stringOr(doc, "status", "Unknown")},
		}
	case "drivers":
		return DisplayItem{
			{"name", stringOr(doc, "name", "Unknown")},
			{"employee_id", stringOr(doc, "employeeId", "Unknown")},
			{"status", stringOr(doc, "status", "Unknown")},
			{"assigned_vehicle", stringOr(doc, "assignedVehicle", "None")},
			{"rating", valueOr(doc, "rating", "N/A")},
		}
	case "vehicles":
		return DisplayItem{
			{"make", stringOr(doc, "make", "Unknown")},
			{"model", stringOr(doc, "model", "Unknown")},
			{"year", valueOr(doc, "year", "Unknown")},
			{"license_plate", stringOr(doc, "licensePlate", "Unknown")},
			{"status", stringOr(doc, "status", "Unknown")},
		}
	case "team_members":
		return DisplayItem{
			{"name", stringOr(doc, "name", "Unknown")},
			{"role", stringOr(doc, "role", "Unknown")},
			{"status", stringOr(doc, "status", "Unknown")},
			{"location", stringOr(doc, "location", "Unknown")},
			{"rating", valueOr(doc, "rating", "N/A")},
		}
	case "inventory":
		return DisplayItem{
			{"name", stringOr(doc, "name", "Unknown")},
			{"category", stringOr(doc, "category", "Unknown")},
			{"quantity", valueOr(doc, "quantity", 0)},
			{"unit", stringOr(doc, "unit", "pcs")},
			{"status", stringOr(doc, "status", "Unknown")},
		}
	default:
		return genericProjection(doc)
	}
}

func genericProjection(doc storage.Document) DisplayItem {
	keyFields := []string{"name", "title", "description", "status", "type", "amount", "date"}

	var item DisplayItem
	for _, field := range keyFields {
		if v, ok := doc[field]; ok {
			item = append(item, Field{field, v})
		}
	}
	if len(item) > 0 {
		return item
	}

	// No preferred field present; fall back to the first few fields in
	// key order, skipping internal ones.
	keys := make([]string, 0, len(doc))
	for k := range doc {
		if strings.HasPrefix(k, "_") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i >= 4 {
			break
		}
		item = append(item, Field{k, doc[k]})
	}
	return item
}

func stringOr(doc storage.Document, key, fallback string) string {
	if v := doc.GetString(key); v != "" {
		return v
	}
	return fallback
}

func valueOr(doc storage.Document, key string, fallback any) any {
	if v, ok := doc[key]; ok && v != nil {
		return v
	}
	return fallback
}

// formatAmount renders monetary values without a fixed precision, so
// 2770 stays "2770" and 19.5 stays "19.5".
func formatAmount(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

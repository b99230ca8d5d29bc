package assistant

import "strings"

type Intent int

const (
	IntentDetails Intent = iota
	IntentCount
	IntentList
	IntentStatus
	IntentRecent
	IntentSearch
	IntentBalance
)

func (i Intent) String() string {
	switch i {
	case IntentCount:
		return "count"
	case IntentList:
		return "list"
	case IntentStatus:
		return "status"
	case IntentRecent:
		return "recent"
	case IntentSearch:
		return "search"
	case IntentBalance:
		return "balance"
	default:
		return "details"
	}
}

type intentPatterns struct {
	intent   Intent
	patterns []string
}

// IntentRouter classifies the operation a query asks for. The pattern
// list is checked in order and the first match wins, so a query like
// "how many active drivers" resolves to count, not status.
type IntentRouter struct {
	ordered []intentPatterns
}

func NewIntentRouter() *IntentRouter {
	return &IntentRouter{ordered: []intentPatterns{
		{IntentCount, []string{"how many", "count", "total number", "number of"}},
		{IntentList, []string{"show me", "list", "get all", "display"}},
		{IntentStatus, []string{"status", "active", "inactive", "pending"}},
		{IntentRecent, []string{"recent", "latest", "new", "last"}},
		{IntentSearch, []string{"find", "search", "look for", "get"}},
		{IntentBalance, []string{"balance", "amount", "money", "cost", "price"}},
	}}
}

func (r *IntentRouter) Classify(query string) Intent {
	lowered := strings.ToLower(query)
	for _, candidate := range r.ordered {
		for _, pattern := range candidate.patterns {
			if strings.Contains(lowered, pattern) {
				return candidate.intent
			}
		}
	}
	return IntentDetails
}

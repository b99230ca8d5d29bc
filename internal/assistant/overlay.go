package assistant

import (
	"fmt"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Fuzzy-match thresholds for knowledge-base lookups. Module names are
// matched with higher precision than features; a name match below 70
// still falls through to the feature and question lists.
const (
	moduleNameThreshold = 60
	moduleNameConfident = 70
	featureThreshold    = 50
	questionThreshold   = 60
)

func (a *Assistant) conversationalResponse(lowered string) (string, bool) {
	groups := []ResponseGroup{
		a.kb.Greetings,
		a.kb.PaymentHelp,
		a.kb.FinancialQueries,
		a.kb.Thanks,
		a.kb.Goodbye,
	}
	for _, group := range groups {
		for _, pattern := range group.Patterns {
			if containsWordPattern(lowered, pattern) {
				return a.pick(group.Responses), true
			}
		}
	}
	return "", false
}

// containsWordPattern matches on word boundaries so that short
// patterns like "hi" do not fire inside words like "vehicles".
func containsWordPattern(lowered, pattern string) bool {
	normalized := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return ' '
	}, lowered)
	return strings.Contains(" "+strings.Join(strings.Fields(normalized), " ")+" ", " "+pattern+" ")
}

func (a *Assistant) bestModuleMatch(lowered string) *ModuleInfo {
	var best *ModuleInfo
	bestScore := 0

	for i := range a.kb.Modules {
		module := &a.kb.Modules[i]
		score := fuzzy.PartialRatio(lowered, module.Name)
		if score > bestScore && score > moduleNameThreshold {
			bestScore = score
			best = module
		}
	}

	if bestScore >= moduleNameConfident {
		return best
	}

	for i := range a.kb.Modules {
		module := &a.kb.Modules[i]
		for _, feature := range module.Features {
			score := fuzzy.PartialRatio(lowered, feature)
			if score > bestScore && score > featureThreshold {
				bestScore = score
				best = module
			}
		}
		for _, question := range module.CommonQuestions {
			score := fuzzy.PartialRatio(lowered, question)
			if score > bestScore && score > questionThreshold {
				bestScore = score
				best = module
			}
		}
	}

	return best
}

func (a *Assistant) moduleResponse(module *ModuleInfo, lowered string) string {
	for key, response := range module.Responses {
		for _, word := range strings.Split(key, "_") {
			if strings.Contains(lowered, word) {
				return response
			}
		}
	}

	response := fmt.Sprintf("%s is %s.", titleKey(strings.ReplaceAll(module.Name, " ", "_")), module.Description)
	if len(module.Features) > 0 {
		shown := module.Features
		if len(shown) > 3 {
			shown = shown[:3]
		}
		response += fmt.Sprintf(" Key features include: %s", strings.Join(shown, ", "))
		if extra := len(module.Features) - 3; extra > 0 {
			response += fmt.Sprintf(", and %d more", extra)
		}
		response += "."
	}
	return response
}

func (a *Assistant) systemOverview() string {
	names := make([]string, 0, len(a.kb.Modules))
	for _, module := range a.kb.Modules {
		names = append(names, titleKey(strings.ReplaceAll(module.Name, " ", "_")))
	}

	shown := names
	if len(shown) > 5 {
		shown = shown[:5]
	}
	response := fmt.Sprintf("UniverserERP is %s It includes the following modules: %s",
		a.kb.SystemDescription, strings.Join(shown, ", "))
	if extra := len(names) - 5; extra > 0 {
		response += fmt.Sprintf(", and %d more specialized modules.", extra)
	}
	return response
}

func (a *Assistant) navigationHelp(lowered string) string {
	switch {
	case strings.Contains(lowered, "dashboard"):
		return a.kb.NavigationGuide["main_dashboard"]
	case strings.Contains(lowered, "sidebar") || strings.Contains(lowered, "menu"):
		return a.kb.NavigationGuide["sidebar_navigation"]
	case strings.Contains(lowered, "search"):
		return a.kb.NavigationGuide["search_functionality"]
	default:
		return "You can navigate through UniverserERP using the sidebar menu, main dashboard, or search functionality available in most modules."
	}
}

func (a *Assistant) workflowHelp(lowered string) string {
	for _, workflow := range a.kb.Workflows {
		for _, word := range strings.Split(workflow.Name, "_") {
			if strings.Contains(lowered, word) {
				return fmt.Sprintf("Here's the workflow for %s:\n\n%s",
					strings.ReplaceAll(workflow.Name, "_", " "), workflow.Steps)
			}
		}
	}
	return "I can help you with common workflows. Please specify which process you'd like guidance on, such as employee onboarding, payroll processing, or maintenance requests."
}

func (a *Assistant) troubleshootingHelp(lowered string) string {
	for _, entry := range a.kb.Troubleshooting {
		for _, word := range strings.Split(entry.Issue, "_") {
			if strings.Contains(lowered, word) {
				return fmt.Sprintf("For the issue '%s': %s",
					strings.ReplaceAll(entry.Issue, "_", " "), entry.Solution)
			}
		}
	}
	return "For troubleshooting assistance, please describe the specific problem you're experiencing, and I'll help you resolve it."
}

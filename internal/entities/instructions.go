package entities

import (
	"fmt"
	"strings"

	"github.com/GoldenRodger5/isaac-mineo-sub001/models"
)

// instructionRule turns a matched pattern into a prompt-assembly hint. Rules
// are checked in order and every hit contributes one line.
type instructionRule struct {
	Patterns []string
	Render   func(state models.EntityState) string
}

var instructionRules = []instructionRule{
	{
		Patterns: []string{"how", "why", "explain", "walk me through"},
		Render: func(models.EntityState) string {
			return "The user wants a detailed how/why explanation; include concrete technical specifics."
		},
	},
	{
		Patterns: []string{"contact", "email", "reach", "get in touch"},
		Render: func(models.EntityState) string {
			return "The user is asking how to get in touch; include contact details."
		},
	},
	{
		Patterns: []string{"compare", "difference", "versus", " vs "},
		Render: func(models.EntityState) string {
			return "The user is comparing things; contrast the options directly."
		},
	},
}

// Instructions produces the contextual-guidance lines fed into prompt
// assembly: a follow-up note when the question leans on the last mentioned
// entity, plus one line per matched instruction rule.
func Instructions(question string, prior models.EntityState, updated models.EntityState) []string {
	q := strings.ToLower(question)
	var out []string

	if IsFollowUp(question, prior) {
		out = append(out, fmt.Sprintf("This looks like a follow-up about %s; answer in that context.", updated.CurrentTopic))
	}
	for _, rule := range instructionRules {
		if matchesAny(q, rule.Patterns) {
			out = append(out, rule.Render(updated))
		}
	}
	return out
}

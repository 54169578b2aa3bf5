// Package entities tracks what a conversation is about. Detection is
// deliberately plain substring matching against a fixed dictionary, evaluated
// as a rule table in priority order, so each rule can be tested on its own.
package entities

import (
	"strings"

	"github.com/GoldenRodger5/isaac-mineo-sub001/models"
)

// knownProjects are the named projects the assistant can be asked about.
// Matching is case-insensitive substring containment.
var knownProjects = []string{
	"nutrivize",
	"echopod",
	"quizium",
	"signalflow",
	"portfolio",
}

// topicRule maps a topic id to the keywords that trigger it.
type topicRule struct {
	ID       string
	Keywords []string
}

// topicRules are evaluated in order; the first hit claims currentTopic when
// no project entity already did this turn.
var topicRules = []topicRule{
	{ID: "tech stack", Keywords: []string{"tech stack", "technologies", "technology", "stack", "framework"}},
	{ID: "experience", Keywords: []string{"experience", "background", "work history"}},
	{ID: "career", Keywords: []string{"career", "job", "hire", "hiring", "opportunity", "opportunities"}},
	{ID: "ai", Keywords: []string{"ai", "machine learning", "ml", "llm", "gpt"}},
	{ID: "contact", Keywords: []string{"contact", "email", "reach", "linkedin", "github"}},
	{ID: "projects", Keywords: []string{"project", "built", "build", "app", "application"}},
}

// followUpPatterns mark a question as an elliptical follow-up ("what's the
// tech stack?") whose subject is the last mentioned entity. Simple pattern
// matching, not parsing; false positives are an accepted cost.
var followUpPatterns = []string{
	"what's the tech",
	"what is the tech",
	"what tech",
	"tech stack",
	"what's the stack",
	"what is the stack",
	"built with",
	"what technologies",
	"how was it built",
	"how is it built",
}

// Extract merges the entities and topics found in question into prior state.
// Projects and Topics only ever grow; LastMention and CurrentTopic move.
// The second return value lists the ids recognized this turn, for the
// conversation flow log.
func Extract(question string, prior models.EntityState) (models.EntityState, []string) {
	q := strings.ToLower(question)
	state := clone(prior)
	state.CurrentTopic = ""

	var seen []string
	entityClaimed := false

	for _, name := range knownProjects {
		if !strings.Contains(q, name) {
			continue
		}
		state.Projects = appendUnique(state.Projects, name)
		state.LastMention = name
		state.CurrentTopic = name
		entityClaimed = true
		seen = append(seen, name)
	}

	for _, rule := range topicRules {
		if !matchesAny(q, rule.Keywords) {
			continue
		}
		state.Topics = appendUnique(state.Topics, rule.ID)
		seen = append(seen, rule.ID)
		if !entityClaimed && state.CurrentTopic == "" {
			state.CurrentTopic = rule.ID
		}
	}

	// Pronoun/ellipsis resolution: a tech-stack style follow-up that does not
	// name the last mentioned entity is about that entity.
	if state.LastMention != "" && !strings.Contains(q, state.LastMention) && matchesAny(q, followUpPatterns) {
		state.CurrentTopic = state.LastMention
	}

	if state.CurrentTopic == "" {
		state.CurrentTopic = prior.CurrentTopic
	}
	return state, seen
}

// IsFollowUp reports whether the question reads as an elliptical follow-up
// about the last mentioned entity.
func IsFollowUp(question string, prior models.EntityState) bool {
	q := strings.ToLower(question)
	return prior.LastMention != "" && !strings.Contains(q, prior.LastMention) && matchesAny(q, followUpPatterns)
}

func matchesAny(q string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(q, p) {
			return true
		}
	}
	return false
}

func appendUnique(list []string, v string) []string {
	for _, item := range list {
		if item == v {
			return list
		}
	}
	return append(list, v)
}

func clone(s models.EntityState) models.EntityState {
	out := s
	out.Projects = append([]string(nil), s.Projects...)
	out.Topics = append([]string(nil), s.Topics...)
	return out
}

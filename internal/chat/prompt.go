package chat

import (
	"fmt"
	"strings"

	"github.com/GoldenRodger5/isaac-mineo-sub001/models"
)

const systemPrompt = "You are Isaac Mineo's AI assistant. Provide concise, professional responses about Isaac's projects, skills, and background using the knowledge base. Keep answers brief but informative. Use a conversational tone that reflects Isaac's personality. For contact: isaacmineo@gmail.com"

// buildUserPrompt concatenates retrieved knowledge, the most recent turns,
// the entity-context block, and the contextual instructions into the single
// user message sent to the completion model.
func buildUserPrompt(relevantInfo string, sess *models.Session, state models.EntityState, instructions []string, question string, contextMessages int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "KNOWLEDGE BASE: %s\n\n", relevantInfo)

	recent := sess.Messages
	if len(recent) > contextMessages {
		recent = recent[len(recent)-contextMessages:]
	}
	if len(recent) > 0 {
		b.WriteString("CONTEXT:\nRecent conversation:\n")
		for _, msg := range recent {
			fmt.Fprintf(&b, "%s: %s\n", msg.Role, msg.Content)
		}
		b.WriteString("\n")
	}

	if state.CurrentTopic != "" || state.LastMention != "" || len(state.Projects) > 0 {
		b.WriteString("ENTITY CONTEXT:\n")
		if state.CurrentTopic != "" {
			fmt.Fprintf(&b, "Current topic: %s\n", state.CurrentTopic)
		}
		if state.LastMention != "" {
			fmt.Fprintf(&b, "Last mentioned: %s\n", state.LastMention)
		}
		if len(state.Projects) > 0 {
			fmt.Fprintf(&b, "Projects discussed so far: %s\n", strings.Join(state.Projects, ", "))
		}
		b.WriteString("\n")
	}

	if len(instructions) > 0 {
		b.WriteString("INSTRUCTIONS:\n")
		for _, line := range instructions {
			fmt.Fprintf(&b, "- %s\n", line)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "QUESTION: %s\n\n", question)
	b.WriteString("Provide a concise, professional response about Isaac. Be specific and helpful, but keep it brief and conversational. Use concrete details from the knowledge base when relevant.")

	return b.String()
}

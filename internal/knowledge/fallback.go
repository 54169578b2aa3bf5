package knowledge

import (
	"strings"
	"sync/atomic"
)

// fallbackRule maps question keywords to a canned, on-topic response. Rules
// are checked in order; the first hit wins.
type fallbackRule struct {
	Keywords []string
	Response string
}

var fallbackRules = []fallbackRule{
	{
		Keywords: []string{"tech", "stack", "technologies", "technology"},
		Response: "Isaac's main tech stack includes React, FastAPI, Python, MongoDB, and Redis. He specializes in AI integrations with OpenAI APIs and building scalable backend systems.",
	},
	{
		Keywords: []string{"nutrivize"},
		Response: "Nutrivize is Isaac's flagship project - an AI-powered nutrition tracker using computer vision for food recognition. It's built with React, FastAPI, and integrates OpenAI's GPT-4 Vision for intelligent meal tracking.",
	},
	{
		Keywords: []string{"echopod", "podcast"},
		Response: "EchoPod is Isaac's AI podcast generator: it automates the whole podcast creation workflow with NLP-driven content generation and high quality voice synthesis.",
	},
	{
		Keywords: []string{"quizium", "flashcard"},
		Response: "Quizium is Isaac's intelligent flashcard creator. It uses spaced repetition algorithms to optimize learning retention and track progress over time.",
	},
	{
		Keywords: []string{"signalflow", "trading"},
		Response: "SignalFlow is Isaac's trading analysis platform: real-time market data, multi-agent AI analysis, risk management, and performance tracking built on Python and FastAPI.",
	},
	{
		Keywords: []string{"experience", "background", "work"},
		Response: "Isaac is a Full-Stack Developer and AI Engineer specializing in intelligent, scalable web applications. He focuses on clean code, performance optimization, and building tools with real-world impact.",
	},
	{
		Keywords: []string{"career", "hire", "hiring", "job", "opportunity"},
		Response: "Isaac is interested in full-stack and AI engineering roles where he can build products end to end. He's always open to discussing opportunities - reach him at isaacmineo@gmail.com.",
	},
	{
		Keywords: []string{"ai", "machine learning", "ml", "gpt"},
		Response: "Isaac works extensively with AI: OpenAI and Claude APIs, GPT-4 Vision, embeddings and vector search, and prompt engineering across projects like Nutrivize and this portfolio's assistant.",
	},
	{
		Keywords: []string{"contact", "email", "reach", "linkedin", "github"},
		Response: "You can reach Isaac at isaacmineo@gmail.com, GitHub at github.com/GoldenRodger5, or LinkedIn at linkedin.com/in/isaacmineo. He's always open to discussing opportunities!",
	},
}

// genericIntros rotate for questions nothing else matches, so a totally
// unmatched input still gets a readable, on-topic sentence.
var genericIntros = []string{
	"Isaac is a Full-Stack Developer specializing in AI-powered applications. Ask me about his tech stack, projects like Nutrivize, experience, or career goals. Contact him at isaacmineo@gmail.com!",
	"I'm Isaac Mineo's portfolio assistant. I can tell you about his projects (Nutrivize, EchoPod, Quizium, SignalFlow), his tech stack, or how to get in touch.",
	"Isaac builds intelligent, scalable web applications with React, Python, FastAPI, and AI integrations. Ask about any of his projects or his experience!",
}

var genericCursor atomic.Uint64

// Fallback selects a canned response for the question. It never returns an
// empty string: unmatched questions rotate through generic introductions.
func Fallback(question string) string {
	q := strings.ToLower(question)
	for _, rule := range fallbackRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(q, kw) {
				return rule.Response
			}
		}
	}
	n := genericCursor.Add(1)
	return genericIntros[int(n-1)%len(genericIntros)]
}

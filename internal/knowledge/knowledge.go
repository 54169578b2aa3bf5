// Package knowledge holds the out-of-band knowledge base: the embedded
// chunks that seed keyword search, and the canned fallback responses used
// when live retrieval or generation is unavailable.
package knowledge

import (
	"fmt"

	"github.com/blevesearch/bleve"
)

// Chunk is one unit of knowledge about the site owner.
type Chunk struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// chunks mirror the content vectorized into the semantic index, so keyword
// search stays useful when the vector service is unreachable.
var chunks = []Chunk{
	{
		ID:    "nutrivize",
		Title: "Nutrivize",
		Text:  "Nutrivize is Isaac's flagship project: an AI-powered nutrition tracker using computer vision for food recognition. Built with a React PWA frontend, Python FastAPI backend, MongoDB, Redis caching, and OpenAI GPT-4 Vision for intelligent meal tracking and personalized dietary recommendations.",
	},
	{
		ID:    "echopod",
		Title: "EchoPod",
		Text:  "EchoPod is an AI podcast generation platform. Python backend with advanced NLP, automated content creation, high quality voice synthesis, and audio processing pipelines.",
	},
	{
		ID:    "quizium",
		Title: "Quizium",
		Text:  "Quizium is an intelligent flashcard creator built with React and Node.js. It uses spaced repetition scheduling algorithms to optimize learning retention, with progress tracking and performance analytics.",
	},
	{
		ID:    "signalflow",
		Title: "SignalFlow",
		Text:  "SignalFlow is a trading analysis platform: Python, FastAPI, MongoDB, real-time market data ingestion, multi-agent AI analysis, technical indicators, risk assessment, and analytics dashboards.",
	},
	{
		ID:    "tech-stack",
		Title: "Tech stack",
		Text:  "Isaac's main tech stack: React 18, JavaScript/TypeScript, Tailwind CSS, and Vite on the frontend; Python and FastAPI on the backend with some Node.js; MongoDB, Redis, and Firebase for data; OpenAI and Claude APIs, vector databases, and prompt engineering for AI features; Vercel and Render for deployment.",
	},
	{
		ID:    "experience",
		Title: "Experience",
		Text:  "Isaac is a Full-Stack Developer and AI Engineer specializing in intelligent, scalable web applications. Computer Science education with an AI/ML specialization. Focuses on clean code, performance optimization, and building tools with real-world impact.",
	},
	{
		ID:    "contact",
		Title: "Contact",
		Text:  "Contact Isaac by email at isaacmineo@gmail.com, on GitHub at github.com/GoldenRodger5, or on LinkedIn at linkedin.com/in/isaacmineo. He is always open to discussing opportunities.",
	},
	{
		ID:    "portfolio",
		Title: "Portfolio website",
		Text:  "The portfolio website itself is an AI-powered showcase: React, Vite, and Tailwind frontend with a Go backend, vector search over the knowledge base, conversational AI with session memory, and layered Redis caching.",
	},
}

// Base is the in-process knowledge base with a keyword index over the chunks.
type Base struct {
	index bleve.Index
}

// NewBase builds the in-memory keyword index. Index construction only fails
// on programming errors in the mapping, so failures surface at startup.
func NewBase() (*Base, error) {
	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("building knowledge index: %w", err)
	}
	for _, c := range chunks {
		if err := index.Index(c.ID, c); err != nil {
			return nil, fmt.Errorf("indexing chunk %s: %w", c.ID, err)
		}
	}
	return &Base{index: index}, nil
}

// KeywordSearch returns the texts of the top-k chunks matching the query.
func (b *Base) KeywordSearch(query string, k int) []string {
	if k <= 0 {
		k = 3
	}
	req := bleve.NewSearchRequest(bleve.NewMatchQuery(query))
	req.Size = k
	res, err := b.index.Search(req)
	if err != nil {
		return nil
	}
	var out []string
	for _, hit := range res.Hits {
		if c, ok := chunkByID(hit.ID); ok {
			out = append(out, c.Text)
		}
	}
	return out
}

func chunkByID(id string) (Chunk, bool) {
	for _, c := range chunks {
		if c.ID == id {
			return c, true
		}
	}
	return Chunk{}, false
}

package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/GoldenRodger5/isaac-mineo-sub001/internal/chat"
	"github.com/GoldenRodger5/isaac-mineo-sub001/models"
)

// ChatHandler serves the conversation endpoint.
type ChatHandler struct {
	Orch       *chat.Orchestrator
	RetryAfter int
}

func (h *ChatHandler) Register(g *echo.Group) {
	g.POST("/chatbot", h.chat)
}

func (h *ChatHandler) chat(c echo.Context) error {
	var req models.ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	// Reject before any state mutation, including the rate counter.
	if strings.TrimSpace(req.Question) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "question required")
	}

	resp, err := h.Orch.Respond(c.Request().Context(), req.Question, req.SessionID, c.RealIP())
	if err != nil {
		if errors.Is(err, chat.ErrRateLimited) {
			return c.JSON(http.StatusTooManyRequests, models.RateLimitedResponse{
				Error:      "Rate limit exceeded. Please try again later.",
				RetryAfter: h.RetryAfter,
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

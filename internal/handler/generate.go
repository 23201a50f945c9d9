package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// TextGenerator produces a single-shot completion for a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GenerateHandler proxies prompts to the AI provider.
type GenerateHandler struct {
	ai     TextGenerator
	logger *slog.Logger
}

// NewGenerateHandler creates a new GenerateHandler.
// Pass a nil generator when the provider credential is not configured;
// requests then fail at call time with the generic AI error.
func NewGenerateHandler(ai TextGenerator, logger *slog.Logger) *GenerateHandler {
	return &GenerateHandler{
		ai:     ai,
		logger: logger,
	}
}

// generateRequest decodes prompt as any so a non-string value can be
// rejected rather than coerced.
type generateRequest struct {
	Prompt any `json:"prompt"`
}

const promptRequiredMsg = "Prompt is required and must be a string"

// Generate handles POST /generate.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": promptRequiredMsg})
		return
	}

	prompt, ok := req.Prompt.(string)
	if !ok || prompt == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": promptRequiredMsg})
		return
	}

	if h.ai == nil {
		h.logger.Error("generate called without a configured AI provider")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "AI request failed",
			"details": "AI provider is not configured",
		})
		return
	}

	result, err := h.ai.GenerateText(r.Context(), prompt)
	if err != nil {
		h.logger.Error("ai request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "AI request failed",
			"details": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"result": result})
}

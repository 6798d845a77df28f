package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/auratrack-backend/internal/modules/analytics/riskprompt"
	"github.com/yungbote/auratrack-backend/internal/platform/logger"
	"github.com/yungbote/auratrack-backend/internal/requestdata"
	"github.com/yungbote/auratrack-backend/internal/services"
)

type RiskPromptHandler struct {
	log     *logger.Logger
	service services.RiskPromptService
}

func NewRiskPromptHandler(log *logger.Logger, service services.RiskPromptService) *RiskPromptHandler {
	return &RiskPromptHandler{log: log.With("handler", "RiskPromptHandler"), service: service}
}

type riskPromptRequest struct {
	SimulatedSample *riskprompt.Sample `json:"simulated_sample,omitempty"`
}

// Build returns the risk-analysis prompt artifact. An optional simulated
// sample in the body replaces the stored last-24h records with 24 synthetic
// hourly entries.
func (h *RiskPromptHandler) Build(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())

	var req riskPromptRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "bad_request_body", err)
			return
		}
	}

	prompt, meta, err := h.service.BuildRiskPrompt(c.Request.Context(), userID, req.SimulatedSample)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "prompt_failed", err)
		return
	}
	RespondOK(c, gin.H{"prompt": prompt, "summary_meta": meta})
}

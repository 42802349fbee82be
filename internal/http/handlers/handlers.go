package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/meridianpress/leadscout/backend/internal/catalog"
	"github.com/meridianpress/leadscout/backend/internal/workspace"
)

type Handler struct {
	Workspace *workspace.Workspace
	Catalog   *catalog.Store
	Validator *validator.Validate
	Logger    zerolog.Logger
	Timeout   time.Duration
}

// opContext bounds a model call with the configured timeout; a hung upstream
// must not pin a loading flag forever.
func (h *Handler) opContext(c *gin.Context) (context.Context, context.CancelFunc) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}

func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Workspace snapshot
// @Tags workspace
// @Produce json
// @Success 200 {object} workspace.Snapshot
// @Router /api/state [get]
func (h *Handler) State(c *gin.Context) {
	c.JSON(http.StatusOK, h.Workspace.Snapshot())
}

func (h *Handler) BooksList(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.Catalog.Books()})
}

func (h *Handler) CustomersList(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.Catalog.Customers()})
}

// @Summary Run lead analysis
// @Description Sends all candidate customers and the catalog to the model and replaces the prioritized lead list
// @Tags leads
// @Produce json
// @Success 200 {object} workspace.Snapshot
// @Failure 409 {object} map[string]any
// @Router /api/analyze [post]
func (h *Handler) Analyze(c *gin.Context) {
	ctx, cancel := h.opContext(c)
	defer cancel()

	if err := h.Workspace.TriggerAnalysis(ctx); err != nil {
		if errors.Is(err, workspace.ErrAnalysisInProgress) {
			writeError(c, http.StatusConflict, "ANALYSIS_IN_PROGRESS", "An analysis is already running", nil)
			return
		}
		h.Logger.Error().Err(err).Msg("failed to trigger analysis")
		writeError(c, http.StatusInternalServerError, "ANALYSIS_ERROR", "Analysis failed to start", err.Error())
		return
	}
	c.JSON(http.StatusOK, h.Workspace.Snapshot())
}

func (h *Handler) SelectLead(c *gin.Context) {
	h.Workspace.SelectLead(c.Param("id"))
	c.JSON(http.StatusOK, h.Workspace.Snapshot())
}

// @Summary Move a lead to the active list
// @Tags leads
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} workspace.Snapshot
// @Failure 404 {object} map[string]any
// @Router /api/leads/{id}/move [post]
func (h *Handler) MoveLead(c *gin.Context) {
	if err := h.Workspace.MoveLead(c.Param("id")); err != nil {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Lead not found", nil)
		return
	}
	c.JSON(http.StatusOK, h.Workspace.Snapshot())
}

// @Summary Generate an outreach narrative for a lead
// @Tags leads
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} workspace.Snapshot
// @Failure 404 {object} map[string]any
// @Router /api/leads/{id}/narrative [post]
func (h *Handler) GenerateNarrative(c *gin.Context) {
	ctx, cancel := h.opContext(c)
	defer cancel()

	if err := h.Workspace.GenerateNarrative(ctx, c.Param("id")); err != nil {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Lead not found", nil)
		return
	}
	c.JSON(http.StatusOK, h.Workspace.Snapshot())
}

// @Summary Open the assistant chat
// @Description Primes a fresh model session with the current leads and catalog
// @Tags chat
// @Produce json
// @Success 200 {object} workspace.Snapshot
// @Router /api/chat/open [post]
func (h *Handler) OpenChat(c *gin.Context) {
	ctx, cancel := h.opContext(c)
	defer cancel()

	if err := h.Workspace.OpenChat(ctx); err != nil {
		writeError(c, http.StatusBadGateway, "SESSION_ERROR", "Failed to start chat session", err.Error())
		return
	}
	c.JSON(http.StatusOK, h.Workspace.Snapshot())
}

func (h *Handler) CloseChat(c *gin.Context) {
	h.Workspace.CloseChat()
	c.JSON(http.StatusOK, h.Workspace.Snapshot())
}

type ChatMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// @Summary Send a chat message
// @Tags chat
// @Accept json
// @Produce json
// @Param message body ChatMessageRequest true "User message"
// @Success 200 {object} workspace.Snapshot
// @Failure 400 {object} map[string]any
// @Router /api/chat/messages [post]
func (h *Handler) SendChatMessage(c *gin.Context) {
	var req ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	ctx, cancel := h.opContext(c)
	defer cancel()

	h.Workspace.SendMessage(ctx, req.Content)
	c.JSON(http.StatusOK, h.Workspace.Snapshot())
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

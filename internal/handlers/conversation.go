package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"messaging-service/internal/models"
	"messaging-service/internal/service"
	"messaging-service/internal/telemetry"
)

// conversationService is the slice of the orchestrator the handlers use.
type conversationService interface {
	CreateConversation(ctx context.Context, actorID string, in service.CreateConversationInput) (service.CreateConversationResult, error)
	ListConversations(ctx context.Context, actorID string) ([]models.ConversationView, error)
	GetConversationByID(ctx context.Context, actorID, conversationID string) (models.ConversationView, error)
	UpdateConversation(ctx context.Context, actorID, conversationID, name string) (models.Conversation, error)
	DeleteConversation(ctx context.Context, actorID, conversationID string) error
	AddMember(ctx context.Context, actorID, conversationID, userID string) (models.Membership, error)
	ListMembers(ctx context.Context, actorID, conversationID string) ([]models.Membership, error)
	UpdateMemberRole(ctx context.Context, actorID, conversationID, targetID, newRole string) (models.Membership, error)
	RemoveMember(ctx context.Context, actorID, conversationID, targetID string) error
}

// ConversationHandler manages the conversation endpoints.
type ConversationHandler struct {
	service conversationService
	audit   *telemetry.AuditEmitter
}

// NewConversationHandler constructs a ConversationHandler.
func NewConversationHandler(svc conversationService, audit *telemetry.AuditEmitter) *ConversationHandler {
	return &ConversationHandler{service: svc, audit: audit}
}

// CreateConversation handles POST /conversations.
func (h *ConversationHandler) CreateConversation(c *gin.Context) {
	var req struct {
		Type         string  `json:"type" binding:"required"`
		Name         *string `json:"name"`
		TargetUserID string  `json:"target_user_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.emitAudit(c, "ERROR", "invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID := c.GetString("profileID")
	result, err := h.service.CreateConversation(c.Request.Context(), actorID, service.CreateConversationInput{
		Type:         req.Type,
		Name:         req.Name,
		TargetUserID: req.TargetUserID,
	})
	if err != nil {
		h.emitAudit(c, "ERROR", "conversation creation failed")
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
		h.emitAudit(c, "INFO", "Conversation created")
	}
	c.JSON(status, result.Conversation)
}

// ListConversations handles GET /conversations.
func (h *ConversationHandler) ListConversations(c *gin.Context) {
	actorID := c.GetString("profileID")
	views, err := h.service.ListConversations(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": views})
}

// GetConversation handles GET /conversations/:id.
func (h *ConversationHandler) GetConversation(c *gin.Context) {
	conversationID := c.Param("id")
	if conversationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing conversation id"})
		return
	}

	actorID := c.GetString("profileID")
	view, err := h.service.GetConversationByID(c.Request.Context(), actorID, conversationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateConversation handles PATCH /conversations/:id.
func (h *ConversationHandler) UpdateConversation(c *gin.Context) {
	conversationID := c.Param("id")
	if conversationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing conversation id"})
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.emitAudit(c, "ERROR", "invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID := c.GetString("profileID")
	conv, err := h.service.UpdateConversation(c.Request.Context(), actorID, conversationID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	h.emitAudit(c, "INFO", "Conversation updated")
	c.JSON(http.StatusOK, conv)
}

// DeleteConversation handles DELETE /conversations/:id.
func (h *ConversationHandler) DeleteConversation(c *gin.Context) {
	conversationID := c.Param("id")
	if conversationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing conversation id"})
		return
	}

	actorID := c.GetString("profileID")
	if err := h.service.DeleteConversation(c.Request.Context(), actorID, conversationID); err != nil {
		respondError(c, err)
		return
	}

	h.emitAudit(c, "INFO", "Conversation deleted")
	c.Status(http.StatusNoContent)
}

func (h *ConversationHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), profileIDFromContext(c))
}

// respondError maps typed service errors to HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch service.KindOf(err) {
	case service.KindUnauthenticated:
		status = http.StatusUnauthorized
	case service.KindInvalidInput:
		status = http.StatusBadRequest
	case service.KindForbidden:
		status = http.StatusForbidden
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindConflict:
		status = http.StatusConflict
	case service.KindInfrastructure:
		status = http.StatusBadGateway
	}

	msg := "internal error"
	var se *service.Error
	if errors.As(err, &se) {
		msg = se.Msg
	}
	c.JSON(status, gin.H{"error": msg})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AddMember handles POST /conversations/:id/members.
func (h *ConversationHandler) AddMember(c *gin.Context) {
	conversationID := c.Param("id")
	if conversationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing conversation id"})
		return
	}

	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.emitAudit(c, "ERROR", "invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID := c.GetString("profileID")
	membership, err := h.service.AddMember(c.Request.Context(), actorID, conversationID, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.emitAudit(c, "INFO", "Member added")
	c.JSON(http.StatusCreated, membership)
}

// ListMembers handles GET /conversations/:id/members.
func (h *ConversationHandler) ListMembers(c *gin.Context) {
	conversationID := c.Param("id")
	if conversationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing conversation id"})
		return
	}

	actorID := c.GetString("profileID")
	members, err := h.service.ListMembers(c.Request.Context(), actorID, conversationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

// UpdateMemberRole handles PATCH /conversations/:id/members/:user_id.
func (h *ConversationHandler) UpdateMemberRole(c *gin.Context) {
	conversationID := c.Param("id")
	targetID := c.Param("user_id")
	if conversationID == "" || targetID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing identifier"})
		return
	}

	var req struct {
		Role string `json:"role" binding:"required,oneof=owner member"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.emitAudit(c, "ERROR", "invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID := c.GetString("profileID")
	membership, err := h.service.UpdateMemberRole(c.Request.Context(), actorID, conversationID, targetID, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	h.emitAudit(c, "INFO", "Member role updated")
	c.JSON(http.StatusOK, membership)
}

// RemoveMember handles DELETE /conversations/:id/members/:user_id.
func (h *ConversationHandler) RemoveMember(c *gin.Context) {
	conversationID := c.Param("id")
	targetID := c.Param("user_id")
	if conversationID == "" || targetID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing identifier"})
		return
	}

	actorID := c.GetString("profileID")
	if err := h.service.RemoveMember(c.Request.Context(), actorID, conversationID, targetID); err != nil {
		respondError(c, err)
		return
	}

	h.emitAudit(c, "INFO", "Member removed")
	c.Status(http.StatusNoContent)
}

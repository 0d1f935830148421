package handler

import (
	"log/slog"
	"net/http"

	"parley/internal/domain/models"
	"parley/internal/httputil"
	"parley/internal/service"
)

// ConversationHandler handles conversation HTTP requests.
// Handlers only marshal requests and responses; all behavior lives in the
// service layer.
type ConversationHandler struct {
	conversations *service.ConversationService
	logger        *slog.Logger
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(conversations *service.ConversationService, logger *slog.Logger) *ConversationHandler {
	return &ConversationHandler{
		conversations: conversations,
		logger:        logger,
	}
}

// HealthCheck reports liveness
// GET /health
func (h *ConversationHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateConversation creates a conversation together with its opening block
// POST /api/conversations
func (h *ConversationHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	var req service.CreateConversationRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	conversation, err := h.conversations.Create(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, conversation)
}

// GetConversation retrieves a conversation, optionally hydrated and projected
// GET /api/conversations/{id}?fields=blocks.responses.payload,...
func (h *ConversationHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := PathParam(w, r, "id", "Conversation ID")
	if !ok {
		return
	}

	conversation, err := h.conversations.Get(r.Context(), conversationID, r.URL.Query().Get("fields"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, conversation)
}

// ListConversations retrieves every conversation with its blocks
// GET /api/conversations?fields=...
func (h *ConversationHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	conversations, err := h.conversations.List(r.Context(), r.URL.Query().Get("fields"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, conversations)
}

// UpdateConversation replaces a conversation document
// PUT /api/conversations/{id}
func (h *ConversationHandler) UpdateConversation(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := PathParam(w, r, "id", "Conversation ID")
	if !ok {
		return
	}

	var conversation models.Conversation
	if err := httputil.ParseJSON(w, r, &conversation); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.conversations.Update(r.Context(), conversationID, &conversation)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, updated)
}

// DeleteConversation deletes a conversation document; children are untouched
// DELETE /api/conversations/{id}
func (h *ConversationHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := PathParam(w, r, "id", "Conversation ID")
	if !ok {
		return
	}

	if err := h.conversations.Delete(r.Context(), conversationID); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"message": "Conversation deleted"})
}

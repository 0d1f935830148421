package handler

import (
	"log/slog"
	"net/http"

	"parley/internal/domain/models"
	"parley/internal/httputil"
	"parley/internal/service"
)

// ResponseHandler handles response HTTP requests
type ResponseHandler struct {
	responses *service.ResponseService
	logger    *slog.Logger
}

// NewResponseHandler creates a new response handler
func NewResponseHandler(responses *service.ResponseService, logger *slog.Logger) *ResponseHandler {
	return &ResponseHandler{
		responses: responses,
		logger:    logger,
	}
}

// CreateResponse creates a response and appends it to the parent block
// POST /api/conversations/{id}/blocks/{blockId}/responses
func (h *ResponseHandler) CreateResponse(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := PathParam(w, r, "id", "Conversation ID")
	if !ok {
		return
	}
	blockID, ok := PathParam(w, r, "blockId", "Block ID")
	if !ok {
		return
	}

	var req service.CreateResponseRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.responses.Create(r.Context(), conversationID, blockID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, response)
}

// GetResponse retrieves a single response
// GET /api/conversations/{id}/blocks/{blockId}/responses/{responseId}?fields=...
func (h *ResponseHandler) GetResponse(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := PathParam(w, r, "id", "Conversation ID")
	if !ok {
		return
	}
	blockID, ok := PathParam(w, r, "blockId", "Block ID")
	if !ok {
		return
	}
	responseID, ok := PathParam(w, r, "responseId", "Response ID")
	if !ok {
		return
	}

	response, err := h.responses.Get(r.Context(), conversationID, blockID, responseID, r.URL.Query().Get("fields"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, response)
}

// UpdateResponse replaces a response document
// PUT /api/conversations/{id}/blocks/{blockId}/responses/{responseId}
func (h *ResponseHandler) UpdateResponse(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := PathParam(w, r, "id", "Conversation ID")
	if !ok {
		return
	}
	blockID, ok := PathParam(w, r, "blockId", "Block ID")
	if !ok {
		return
	}
	responseID, ok := PathParam(w, r, "responseId", "Response ID")
	if !ok {
		return
	}

	var response models.Response
	if err := httputil.ParseJSON(w, r, &response); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.responses.Update(r.Context(), conversationID, blockID, responseID, &response)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, updated)
}

// DeleteResponse deletes a response document; the parent's responseIds is untouched
// DELETE /api/conversations/{id}/blocks/{blockId}/responses/{responseId}
func (h *ResponseHandler) DeleteResponse(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := PathParam(w, r, "id", "Conversation ID")
	if !ok {
		return
	}
	blockID, ok := PathParam(w, r, "blockId", "Block ID")
	if !ok {
		return
	}
	responseID, ok := PathParam(w, r, "responseId", "Response ID")
	if !ok {
		return
	}

	if err := h.responses.Delete(r.Context(), conversationID, blockID, responseID); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"message": "Response deleted"})
}

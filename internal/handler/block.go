package handler

import (
	"log/slog"
	"net/http"

	"parley/internal/domain/models"
	"parley/internal/httputil"
	"parley/internal/service"
)

// BlockHandler handles block HTTP requests
type BlockHandler struct {
	blocks *service.BlockService
	logger *slog.Logger
}

// NewBlockHandler creates a new block handler
func NewBlockHandler(blocks *service.BlockService, logger *slog.Logger) *BlockHandler {
	return &BlockHandler{
		blocks: blocks,
		logger: logger,
	}
}

// CreateBlock creates a block and appends it to the parent conversation
// POST /api/conversations/{id}/blocks
func (h *BlockHandler) CreateBlock(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := PathParam(w, r, "id", "Conversation ID")
	if !ok {
		return
	}

	var req service.CreateBlockRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// A block created without an explicit author belongs to the caller
	if req.CreatedBy == nil {
		if claims := httputil.GetClaims(r); claims != nil {
			req.CreatedBy = &models.User{ID: claims.UserID(), Email: claims.Email}
		}
	}

	block, err := h.blocks.Create(r.Context(), conversationID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, block)
}

// GetBlock retrieves a block with its responses resolved
// GET /api/conversations/{id}/blocks/{blockId}?fields=...
func (h *BlockHandler) GetBlock(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := PathParam(w, r, "id", "Conversation ID")
	if !ok {
		return
	}
	blockID, ok := PathParam(w, r, "blockId", "Block ID")
	if !ok {
		return
	}

	block, err := h.blocks.Get(r.Context(), conversationID, blockID, r.URL.Query().Get("fields"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, block)
}

// UpdateBlock replaces a block document
// PUT /api/conversations/{id}/blocks/{blockId}
func (h *BlockHandler) UpdateBlock(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := PathParam(w, r, "id", "Conversation ID")
	if !ok {
		return
	}
	blockID, ok := PathParam(w, r, "blockId", "Block ID")
	if !ok {
		return
	}

	var block models.Block
	if err := httputil.ParseJSON(w, r, &block); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.blocks.Update(r.Context(), conversationID, blockID, &block)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, updated)
}

// DeleteBlock deletes a block document; the parent's blockIds is untouched
// DELETE /api/conversations/{id}/blocks/{blockId}
func (h *BlockHandler) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := PathParam(w, r, "id", "Conversation ID")
	if !ok {
		return
	}
	blockID, ok := PathParam(w, r, "blockId", "Block ID")
	if !ok {
		return
	}

	if err := h.blocks.Delete(r.Context(), conversationID, blockID); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"message": "Block deleted"})
}

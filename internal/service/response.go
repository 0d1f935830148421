package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"parley/internal/domain"
	"parley/internal/domain/models"
	"parley/internal/domain/repositories"
	"parley/internal/hydrate"
	"parley/internal/projection"
)

// CreateResponseRequest carries a new response's content.
type CreateResponseRequest struct {
	Source       string `json:"source"`
	ResponseType string `json:"responseType"`
	Payload      any    `json:"payload"`
	RequestedAt  *int64 `json:"requestedAt"`
	RespondedAt  *int64 `json:"respondedAt"`
}

// ResponseService orchestrates response CRUD within a block.
type ResponseService struct {
	store    repositories.DocumentStore
	keys     *repositories.KeyScheme
	hydrator *hydrate.Hydrator
	logger   *slog.Logger
}

// NewResponseService creates a new response service
func NewResponseService(store repositories.DocumentStore, keys *repositories.KeyScheme, hydrator *hydrate.Hydrator, logger *slog.Logger) *ResponseService {
	return &ResponseService{
		store:    store,
		keys:     keys,
		hydrator: hydrator,
		logger:   logger,
	}
}

// Create persists a new response, then appends its id to the parent block's
// responseIds. The parent is re-read through the fetch cache, so a block
// cached within the TTL window is appended to as-is; together with the
// non-atomic two-step write this is the documented consistency gap.
func (s *ResponseService) Create(ctx context.Context, conversationID, blockID string, req *CreateResponseRequest) (*models.Response, error) {
	if err := s.validateCreate(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrValidation)
	}

	now := time.Now().Unix()
	response := &models.Response{
		ID:           uuid.NewString(),
		Source:       req.Source,
		ResponseType: req.ResponseType,
		Payload:      req.Payload,
		RequestedAt:  req.RequestedAt,
		RespondedAt:  req.RespondedAt,
	}
	if response.RespondedAt == nil {
		response.RespondedAt = &now
	}

	if err := s.store.Put(ctx, s.keys.Response(conversationID, blockID, response.ID), response); err != nil {
		return nil, err
	}

	block, err := s.hydrator.FetchBlock(ctx, conversationID, blockID, "")
	if err != nil {
		return nil, err
	}
	block.ResponseIDs = append(append([]string(nil), block.ResponseIDs...), response.ID)
	if err := s.store.Put(ctx, s.keys.Block(conversationID, blockID), block); err != nil {
		return nil, err
	}

	s.logger.Info("response created",
		"conversation_id", conversationID,
		"block_id", blockID,
		"response_id", response.ID,
	)
	return response, nil
}

// Get reads a single response and projects it.
func (s *ResponseService) Get(ctx context.Context, conversationID, blockID, responseID, fields string) (map[string]any, error) {
	var response models.Response
	if err := s.store.Get(ctx, s.keys.Response(conversationID, blockID, responseID), &response); err != nil {
		return nil, err
	}

	return projection.Response(&response, projection.ParseFields(fields)), nil
}

// Update replaces the stored response document wholesale.
func (s *ResponseService) Update(ctx context.Context, conversationID, blockID, responseID string, response *models.Response) (*models.Response, error) {
	if err := s.validateDocument(response); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrValidation)
	}

	response.ID = responseID
	if err := s.store.Put(ctx, s.keys.Response(conversationID, blockID, responseID), response); err != nil {
		return nil, err
	}

	return response, nil
}

// Delete removes the response document. The parent block's responseIds is
// left untouched.
func (s *ResponseService) Delete(ctx context.Context, conversationID, blockID, responseID string) error {
	return s.store.Delete(ctx, s.keys.Response(conversationID, blockID, responseID))
}

func (s *ResponseService) validateCreate(req *CreateResponseRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Source, validation.Required),
		validation.Field(&req.ResponseType, validation.Required),
	)
}

func (s *ResponseService) validateDocument(response *models.Response) error {
	return validation.ValidateStruct(response,
		validation.Field(&response.Source, validation.Required),
		validation.Field(&response.ResponseType, validation.Required),
	)
}

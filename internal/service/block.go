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

// CreateBlockRequest carries a new block's input plus caller overrides.
type CreateBlockRequest struct {
	InputText   string       `json:"inputText"`
	CreatedBy   *models.User `json:"createdBy"`
	ResponseIDs []string     `json:"responseIds"`
}

// BlockService orchestrates block CRUD within a conversation.
type BlockService struct {
	store    repositories.DocumentStore
	keys     *repositories.KeyScheme
	hydrator *hydrate.Hydrator
	logger   *slog.Logger
}

// NewBlockService creates a new block service
func NewBlockService(store repositories.DocumentStore, keys *repositories.KeyScheme, hydrator *hydrate.Hydrator, logger *slog.Logger) *BlockService {
	return &BlockService{
		store:    store,
		keys:     keys,
		hydrator: hydrator,
		logger:   logger,
	}
}

// Create persists a new block, then appends its id to the parent
// conversation's blockIds. The two writes are not atomic: a failed parent
// rewrite leaves an orphaned block document with no compensation.
func (s *BlockService) Create(ctx context.Context, conversationID string, req *CreateBlockRequest) (*models.Block, error) {
	if err := s.validateCreate(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrValidation)
	}

	block := &models.Block{
		ID:          uuid.NewString(),
		InputText:   req.InputText,
		ResponseIDs: []string{},
		CreatedBy:   *req.CreatedBy,
		CreatedAt:   time.Now().Unix(),
	}
	if req.ResponseIDs != nil {
		block.ResponseIDs = req.ResponseIDs
	}

	if err := s.store.Put(ctx, s.keys.Block(conversationID, block.ID), block); err != nil {
		return nil, err
	}

	var conversation models.Conversation
	if err := s.store.Get(ctx, s.keys.Conversation(conversationID), &conversation); err != nil {
		return nil, err
	}
	if conversation.BlockIDs == nil {
		conversation.BlockIDs = []string{}
	}
	conversation.BlockIDs = append(conversation.BlockIDs, block.ID)
	if err := s.store.Put(ctx, s.keys.Conversation(conversationID), &conversation); err != nil {
		return nil, err
	}

	s.logger.Info("block created", "conversation_id", conversationID, "block_id", block.ID)
	return block, nil
}

// Get reads a single block and projects it. Unlike the batched block fetch,
// the single-block read resolves responses unconditionally; this asymmetry is
// deliberate call-site behavior.
func (s *BlockService) Get(ctx context.Context, conversationID, blockID, fields string) (map[string]any, error) {
	var block models.Block
	if err := s.store.Get(ctx, s.keys.Block(conversationID, blockID), &block); err != nil {
		return nil, err
	}

	responses, err := s.hydrator.FetchResponses(ctx, conversationID, blockID, block.ResponseIDs)
	if err != nil {
		return nil, err
	}
	block.Responses = responses

	return projection.Block(&block, projection.ParseFields(fields)), nil
}

// Update replaces the stored block document wholesale.
func (s *BlockService) Update(ctx context.Context, conversationID, blockID string, block *models.Block) (*models.Block, error) {
	if err := s.validateDocument(block); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrValidation)
	}

	block.ID = blockID
	if err := s.store.Put(ctx, s.keys.Block(conversationID, blockID), block); err != nil {
		return nil, err
	}

	return block, nil
}

// Delete removes the block document. The parent conversation's blockIds is
// left untouched; a dangling reference surfaces as not-found on later reads.
func (s *BlockService) Delete(ctx context.Context, conversationID, blockID string) error {
	return s.store.Delete(ctx, s.keys.Block(conversationID, blockID))
}

func (s *BlockService) validateCreate(req *CreateBlockRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.InputText, validation.Required),
		validation.Field(&req.CreatedBy, validation.NotNil),
	)
}

func (s *BlockService) validateDocument(block *models.Block) error {
	return validation.ValidateStruct(block,
		validation.Field(&block.InputText, validation.Required),
		validation.Field(&block.CreatedBy, validation.By(requireUser)),
	)
}

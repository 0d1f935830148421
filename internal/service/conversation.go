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

// CreateConversationRequest carries the opening query plus caller overrides
// for the generated conversation document.
type CreateConversationRequest struct {
	Query       string       `json:"query"`
	CreatedBy   *models.User `json:"createdBy"`
	Status      *string      `json:"status"`
	SummaryText *string      `json:"summaryText"`
	SummaryType *string      `json:"summaryType"`
	BlockIDs    []string     `json:"blockIds"`
}

// ConversationService orchestrates conversation CRUD: reads hydrate then
// project, writes go straight to the document store.
type ConversationService struct {
	store    repositories.DocumentStore
	keys     *repositories.KeyScheme
	hydrator *hydrate.Hydrator
	logger   *slog.Logger
}

// NewConversationService creates a new conversation service
func NewConversationService(store repositories.DocumentStore, keys *repositories.KeyScheme, hydrator *hydrate.Hydrator, logger *slog.Logger) *ConversationService {
	return &ConversationService{
		store:    store,
		keys:     keys,
		hydrator: hydrator,
		logger:   logger,
	}
}

// Create generates a conversation with an initial block whose inputText is
// the opening query, merges caller overrides, and persists both documents.
// Returns the unprojected conversation.
func (s *ConversationService) Create(ctx context.Context, req *CreateConversationRequest) (*models.Conversation, error) {
	if err := s.validateCreate(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrValidation)
	}

	now := time.Now().Unix()
	summaryText := req.Query
	summaryType := models.SummaryTypeUnknown

	conversation := &models.Conversation{
		ID:          uuid.NewString(),
		CreatedBy:   *req.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
		Status:      models.StatusOpen,
		SummaryText: &summaryText,
		SummaryType: &summaryType,
		BlockIDs:    []string{},
	}

	// Caller overrides
	if req.Status != nil {
		conversation.Status = *req.Status
	}
	if req.SummaryText != nil {
		conversation.SummaryText = req.SummaryText
	}
	if req.SummaryType != nil {
		conversation.SummaryType = req.SummaryType
	}
	if req.BlockIDs != nil {
		conversation.BlockIDs = req.BlockIDs
	}

	block := &models.Block{
		ID:          uuid.NewString(),
		InputText:   req.Query,
		ResponseIDs: []string{},
		CreatedBy:   conversation.CreatedBy,
		CreatedAt:   now,
	}
	conversation.BlockIDs = append(conversation.BlockIDs, block.ID)

	if err := s.store.Put(ctx, s.keys.Conversation(conversation.ID), conversation); err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, s.keys.Block(conversation.ID, block.ID), block); err != nil {
		return nil, err
	}

	s.logger.Info("conversation created", "conversation_id", conversation.ID, "block_id", block.ID)
	return conversation, nil
}

// Get reads a conversation, hydrates its blocks when the field selection
// addresses them, and projects the result.
func (s *ConversationService) Get(ctx context.Context, conversationID, fields string) (map[string]any, error) {
	var conversation models.Conversation
	if err := s.store.Get(ctx, s.keys.Conversation(conversationID), &conversation); err != nil {
		return nil, err
	}

	paths := projection.ParseFields(fields)
	if projection.Wants(paths, "blocks") {
		blocks, err := s.hydrator.FetchBlocks(ctx, conversationID, conversation.BlockIDs, fields)
		if err != nil {
			return nil, err
		}
		conversation.Blocks = blocks
	}

	return projection.Conversation(&conversation, paths), nil
}

// List enumerates all conversation root documents, hydrates each with all of
// its blocks (never responses), and projects each with the caller's fields.
func (s *ConversationService) List(ctx context.Context, fields string) ([]map[string]any, error) {
	storedKeys, err := s.store.List(ctx, s.keys.ConversationsPrefix())
	if err != nil {
		return nil, err
	}

	paths := projection.ParseFields(fields)
	conversations := make([]map[string]any, 0, len(storedKeys))
	for _, key := range storedKeys {
		// Skip nested block and response documents
		if !s.keys.IsConversationRoot(key) {
			continue
		}

		var conversation models.Conversation
		if err := s.store.Get(ctx, key, &conversation); err != nil {
			return nil, err
		}

		blocks, err := s.hydrator.FetchBlocks(ctx, conversation.ID, conversation.BlockIDs, "")
		if err != nil {
			return nil, err
		}
		conversation.Blocks = blocks

		conversations = append(conversations, projection.Conversation(&conversation, paths))
	}

	return conversations, nil
}

// Update replaces the stored conversation document wholesale. There are no
// partial or merge semantics.
func (s *ConversationService) Update(ctx context.Context, conversationID string, conversation *models.Conversation) (*models.Conversation, error) {
	if err := s.validateDocument(conversation); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrValidation)
	}

	conversation.ID = conversationID
	if err := s.store.Put(ctx, s.keys.Conversation(conversationID), conversation); err != nil {
		return nil, err
	}

	return conversation, nil
}

// Delete removes the conversation document. Child blocks and responses are
// left in place; deletes never cascade.
func (s *ConversationService) Delete(ctx context.Context, conversationID string) error {
	return s.store.Delete(ctx, s.keys.Conversation(conversationID))
}

func (s *ConversationService) validateCreate(req *CreateConversationRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Query, validation.Required),
		validation.Field(&req.CreatedBy, validation.NotNil),
	)
}

func (s *ConversationService) validateDocument(conversation *models.Conversation) error {
	return validation.ValidateStruct(conversation,
		validation.Field(&conversation.Status, validation.Required),
		validation.Field(&conversation.CreatedBy, validation.By(requireUser)),
	)
}

// requireUser rejects an embedded user without an id.
func requireUser(value interface{}) error {
	user, ok := value.(models.User)
	if !ok || user.ID == "" {
		return fmt.Errorf("user id is required")
	}
	return nil
}

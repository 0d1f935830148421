package hydrate

import (
	"context"
	"log/slog"
	"strings"

	"parley/internal/domain/models"
	"parley/internal/domain/repositories"
	"parley/internal/projection"
)

// Hydrator resolves referenced child ids into nested document content.
// All fetches go through the FetchCache; a missing child document aborts the
// whole resolution rather than producing a partial tree.
type Hydrator struct {
	store  repositories.DocumentStore
	keys   *repositories.KeyScheme
	cache  *FetchCache
	logger *slog.Logger
}

// NewHydrator creates a hydrator backed by store, deriving keys from keys and
// memoizing through cache.
func NewHydrator(store repositories.DocumentStore, keys *repositories.KeyScheme, cache *FetchCache, logger *slog.Logger) *Hydrator {
	return &Hydrator{
		store:  store,
		keys:   keys,
		cache:  cache,
		logger: logger,
	}
}

// FetchBlocks fetches the blocks named by blockIDs in that exact order,
// delegating each to FetchBlock so the field selection propagates to nested
// response resolution.
func (h *Hydrator) FetchBlocks(ctx context.Context, conversationID string, blockIDs []string, fields string) ([]models.Block, error) {
	key := cacheKey("fetchBlocks", conversationID, strings.Join(blockIDs, ","), fields)

	v, err := h.cache.Memoize(key, func() (any, error) {
		blocks := make([]models.Block, 0, len(blockIDs))
		for _, blockID := range blockIDs {
			block, err := h.FetchBlock(ctx, conversationID, blockID, fields)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, *block)
		}
		return blocks, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]models.Block), nil
}

// FetchBlock fetches a single block. Its responses are resolved only when the
// field selection addresses blocks.responses; the single-block read path
// resolves responses itself, unconditionally.
func (h *Hydrator) FetchBlock(ctx context.Context, conversationID, blockID, fields string) (*models.Block, error) {
	key := cacheKey("fetchBlock", conversationID, blockID, fields)

	v, err := h.cache.Memoize(key, func() (any, error) {
		var block models.Block
		if err := h.store.Get(ctx, h.keys.Block(conversationID, blockID), &block); err != nil {
			return nil, err
		}

		if projection.Wants(projection.ParseFields(fields), "blocks.responses") {
			responses, err := h.FetchResponses(ctx, conversationID, blockID, block.ResponseIDs)
			if err != nil {
				return nil, err
			}
			block.Responses = responses
		}

		return &block, nil
	})
	if err != nil {
		return nil, err
	}

	// Hand out a copy so callers appending responses cannot mutate the
	// cached document.
	block := *v.(*models.Block)
	return &block, nil
}

// FetchResponses fetches the responses named by responseIDs in that exact
// order. An empty id list yields an empty, non-nil slice.
func (h *Hydrator) FetchResponses(ctx context.Context, conversationID, blockID string, responseIDs []string) ([]models.Response, error) {
	key := cacheKey("fetchResponses", conversationID, blockID, strings.Join(responseIDs, ","))

	v, err := h.cache.Memoize(key, func() (any, error) {
		responses := make([]models.Response, 0, len(responseIDs))
		for _, responseID := range responseIDs {
			var response models.Response
			if err := h.store.Get(ctx, h.keys.Response(conversationID, blockID, responseID), &response); err != nil {
				return nil, err
			}
			responses = append(responses, response)
		}
		return responses, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]models.Response), nil
}

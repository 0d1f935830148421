package hydrate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"parley/internal/domain"
	"parley/internal/domain/models"
	"parley/internal/domain/repositories"
	"parley/internal/repository/memory"
)

// countingStore counts gateway reads so tests can assert cache behavior.
type countingStore struct {
	repositories.DocumentStore
	gets int
}

func (s *countingStore) Get(ctx context.Context, key string, dest any) error {
	s.gets++
	return s.DocumentStore.Get(ctx, key, dest)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seedTree stores one conversation with two blocks; b1 carries two responses.
func seedTree(t *testing.T, store repositories.DocumentStore, keys *repositories.KeyScheme) {
	t.Helper()
	ctx := context.Background()
	user := models.User{ID: "u1", Email: "u1@example.com"}

	docs := map[string]any{
		keys.Conversation("c1"): &models.Conversation{
			ID: "c1", CreatedBy: user, CreatedAt: 1, UpdatedAt: 1,
			Status: "OPEN", BlockIDs: []string{"b1", "b2"},
		},
		keys.Block("c1", "b1"): &models.Block{
			ID: "b1", InputText: "one", ResponseIDs: []string{"r1", "r2"}, CreatedBy: user, CreatedAt: 1,
		},
		keys.Block("c1", "b2"): &models.Block{
			ID: "b2", InputText: "two", ResponseIDs: []string{}, CreatedBy: user, CreatedAt: 2,
		},
		keys.Response("c1", "b1", "r1"): &models.Response{ID: "r1", Source: "agent", ResponseType: "text"},
		keys.Response("c1", "b1", "r2"): &models.Response{ID: "r2", Source: "agent", ResponseType: "text"},
	}
	for key, doc := range docs {
		if err := store.Put(ctx, key, doc); err != nil {
			t.Fatalf("seed %s: %v", key, err)
		}
	}
}

func newTestHydrator(t *testing.T, ttl time.Duration) (*Hydrator, *countingStore, *repositories.KeyScheme) {
	t.Helper()
	keys := repositories.NewKeyScheme("data", "conversations", "blocks", "responses")
	store := &countingStore{DocumentStore: memory.NewDocumentStore()}
	seedTree(t, store.DocumentStore, keys)
	store.gets = 0
	return NewHydrator(store, keys, NewFetchCache(128, ttl), testLogger()), store, keys
}

func TestFetchBlocksPreservesOrder(t *testing.T) {
	h, _, _ := newTestHydrator(t, time.Minute)

	blocks, err := h.FetchBlocks(context.Background(), "c1", []string{"b2", "b1"}, "")
	if err != nil {
		t.Fatalf("FetchBlocks: %v", err)
	}
	if len(blocks) != 2 || blocks[0].ID != "b2" || blocks[1].ID != "b1" {
		t.Errorf("block order = %v, want [b2 b1]", []string{blocks[0].ID, blocks[1].ID})
	}
}

func TestFetchBlocksCached(t *testing.T) {
	h, store, _ := newTestHydrator(t, time.Minute)
	ctx := context.Background()

	if _, err := h.FetchBlocks(ctx, "c1", []string{"b1", "b2"}, ""); err != nil {
		t.Fatal(err)
	}
	first := store.gets
	if first != 2 {
		t.Fatalf("first fetch issued %d reads, want 2", first)
	}

	if _, err := h.FetchBlocks(ctx, "c1", []string{"b1", "b2"}, ""); err != nil {
		t.Fatal(err)
	}
	if store.gets != first {
		t.Errorf("second fetch within TTL issued %d extra reads, want 0", store.gets-first)
	}
}

func TestFetchBlocksRefetchesAfterExpiry(t *testing.T) {
	h, store, _ := newTestHydrator(t, 50*time.Millisecond)
	ctx := context.Background()

	if _, err := h.FetchBlocks(ctx, "c1", []string{"b1"}, ""); err != nil {
		t.Fatal(err)
	}
	first := store.gets

	time.Sleep(80 * time.Millisecond)

	if _, err := h.FetchBlocks(ctx, "c1", []string{"b1"}, ""); err != nil {
		t.Fatal(err)
	}
	if store.gets == first {
		t.Error("fetch after TTL expiry issued no storage reads")
	}
}

func TestFetchBlockResolvesResponsesOnlyWhenRequested(t *testing.T) {
	h, store, _ := newTestHydrator(t, time.Minute)
	ctx := context.Background()

	block, err := h.FetchBlock(ctx, "c1", "b1", "")
	if err != nil {
		t.Fatal(err)
	}
	if block.Responses != nil {
		t.Error("responses resolved without being requested")
	}
	if store.gets != 1 {
		t.Errorf("plain block fetch issued %d reads, want 1", store.gets)
	}

	block, err = h.FetchBlock(ctx, "c1", "b1", "blocks.responses")
	if err != nil {
		t.Fatal(err)
	}
	if len(block.Responses) != 2 {
		t.Errorf("got %d responses, want 2", len(block.Responses))
	}
	// one block read plus one read per response
	if store.gets != 1+3 {
		t.Errorf("requested-response fetch issued %d total reads, want 4", store.gets)
	}
}

func TestFetchBlockDeepPathResolvesResponses(t *testing.T) {
	h, _, _ := newTestHydrator(t, time.Minute)

	block, err := h.FetchBlock(context.Background(), "c1", "b1", "blocks.responses.payload")
	if err != nil {
		t.Fatal(err)
	}
	if len(block.Responses) != 2 {
		t.Errorf("deep path did not resolve responses, got %d", len(block.Responses))
	}
}

func TestFetchResponsesEmptyIDs(t *testing.T) {
	h, _, _ := newTestHydrator(t, time.Minute)

	responses, err := h.FetchResponses(context.Background(), "c1", "b2", []string{})
	if err != nil {
		t.Fatal(err)
	}
	if responses == nil || len(responses) != 0 {
		t.Errorf("empty id list resolved to %v, want empty sequence", responses)
	}
}

func TestFetchBlocksMissingChildAborts(t *testing.T) {
	h, _, _ := newTestHydrator(t, time.Minute)

	_, err := h.FetchBlocks(context.Background(), "c1", []string{"b1", "missing"}, "")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing child error = %v, want ErrNotFound", err)
	}
}

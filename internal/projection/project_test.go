package projection

import (
	"reflect"
	"sort"
	"testing"

	"parley/internal/domain/models"
)

func strPtr(s string) *string { return &s }
func intPtr(n int64) *int64   { return &n }

func testConversation() *models.Conversation {
	return &models.Conversation{
		ID:          "c1",
		CreatedBy:   models.User{ID: "u1", Email: "u1@example.com"},
		CreatedAt:   1700000000,
		UpdatedAt:   1700000100,
		Status:      "OPEN",
		SummaryText: strPtr("hello"),
		SummaryType: strPtr("UNKNOWN"),
		BlockIDs:    []string{"b1", "b2"},
		Blocks: []models.Block{
			{
				ID:          "b1",
				InputText:   "first question",
				ResponseIDs: []string{"r1"},
				CreatedBy:   models.User{ID: "u1", Email: "u1@example.com"},
				CreatedAt:   1700000000,
				Responses: []models.Response{
					{
						ID:           "r1",
						Source:       "agent",
						ResponseType: "text",
						Payload:      map[string]any{"text": "an answer"},
						RequestedAt:  intPtr(1700000010),
						RespondedAt:  intPtr(1700000020),
					},
				},
			},
			{
				ID:          "b2",
				InputText:   "second question",
				ResponseIDs: []string{},
				CreatedBy:   models.User{ID: "u1", Email: "u1@example.com"},
				CreatedAt:   1700000050,
				Responses:   []models.Response{},
			},
		},
	}
}

func fieldNames(m map[string]any) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func TestConversationDefaultInclusion(t *testing.T) {
	got := Conversation(testConversation(), nil)

	want := []string{"blockIds", "createdAt", "createdBy", "id", "status", "summaryText", "summaryType", "updatedAt"}
	if names := fieldNames(got); !reflect.DeepEqual(names, want) {
		t.Errorf("default projection fields = %v, want %v", names, want)
	}

	// Hydrated blocks must not leak into an unrequested projection
	if _, ok := got["blocks"]; ok {
		t.Error("blocks included without being requested")
	}
}

func TestConversationSparseOutput(t *testing.T) {
	conv := testConversation()
	conv.SummaryText = nil
	conv.SummaryType = nil

	got := Conversation(conv, nil)

	if _, ok := got["summaryText"]; ok {
		t.Error("nil summaryText produced a key")
	}
	if _, ok := got["summaryType"]; ok {
		t.Error("nil summaryType produced a key")
	}
}

func TestConversationIdempotent(t *testing.T) {
	conv := testConversation()
	paths := ParseFields("blocks.responses.payload")

	first := Conversation(conv, paths)
	second := Conversation(conv, paths)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("projection not idempotent:\nfirst  %v\nsecond %v", first, second)
	}
}

func TestConversationBlockOrderPreserved(t *testing.T) {
	conv := testConversation()
	got := Conversation(conv, ParseFields("blocks"))

	blocks, ok := got["blocks"].([]map[string]any)
	if !ok {
		t.Fatalf("blocks missing or wrong type: %T", got["blocks"])
	}
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0]["id"] != "b1" || blocks[1]["id"] != "b2" {
		t.Errorf("block order = [%v %v], want [b1 b2]", blocks[0]["id"], blocks[1]["id"])
	}
}

func TestConversationRedundantExplicitRequest(t *testing.T) {
	// inputText is already a block default, so requesting it must not change
	// the block shape.
	conv := testConversation()

	defaultRead := Conversation(conv, ParseFields("blocks"))
	explicitRead := Conversation(conv, ParseFields("blocks,blocks.inputText"))

	if !reflect.DeepEqual(defaultRead, explicitRead) {
		t.Errorf("explicit request for a default field changed the projection:\ndefault  %v\nexplicit %v", defaultRead, explicitRead)
	}

	blocks := explicitRead["blocks"].([]map[string]any)
	want := []string{"createdAt", "createdBy", "id", "inputText", "responseIds"}
	if names := fieldNames(blocks[0]); !reflect.DeepEqual(names, want) {
		t.Errorf("block fields = %v, want %v", names, want)
	}
}

func TestConversationDeepResponseProjection(t *testing.T) {
	conv := testConversation()
	got := Conversation(conv, ParseFields("blocks.responses.payload"))

	blocks, ok := got["blocks"].([]map[string]any)
	if !ok {
		t.Fatal("blocks missing from deep projection")
	}

	responses, ok := blocks[0]["responses"].([]map[string]any)
	if !ok {
		t.Fatal("responses missing from deep projection")
	}
	if len(responses) != 1 {
		t.Fatalf("got %d responses, want 1", len(responses))
	}

	// Response defaults plus the explicitly requested payload
	want := []string{"id", "payload", "requestedAt", "responseType", "source"}
	if names := fieldNames(responses[0]); !reflect.DeepEqual(names, want) {
		t.Errorf("response fields = %v, want %v", names, want)
	}

	// The second block's empty response set stays an empty sequence
	if responses, ok := blocks[1]["responses"].([]map[string]any); !ok || len(responses) != 0 {
		t.Errorf("empty response set = %v, want empty sequence", blocks[1]["responses"])
	}
}

func TestResponseDefaults(t *testing.T) {
	response := &models.Response{
		ID:           "r1",
		Source:       "agent",
		ResponseType: "text",
		Payload:      map[string]any{"text": "an answer"},
		RequestedAt:  intPtr(1700000010),
		RespondedAt:  intPtr(1700000020),
	}

	got := Response(response, nil)

	// payload and respondedAt are not defaults
	want := []string{"id", "requestedAt", "responseType", "source"}
	if names := fieldNames(got); !reflect.DeepEqual(names, want) {
		t.Errorf("response default fields = %v, want %v", names, want)
	}

	withPayload := Response(response, ParseFields("payload,respondedAt"))
	if withPayload["payload"] == nil {
		t.Error("requested payload missing")
	}
	if withPayload["respondedAt"] != int64(1700000020) {
		t.Errorf("respondedAt = %v, want 1700000020", withPayload["respondedAt"])
	}
}

func TestBlockResponsesAbsentWhenNotHydrated(t *testing.T) {
	block := &models.Block{
		ID:          "b1",
		InputText:   "question",
		ResponseIDs: []string{"r1"},
		CreatedBy:   models.User{ID: "u1"},
		CreatedAt:   1700000000,
	}

	got := Block(block, ParseFields("responses"))
	if _, ok := got["responses"]; ok {
		t.Error("responses key present for an unhydrated block")
	}
}

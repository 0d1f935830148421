package repositories

import (
	"fmt"
	"strings"
)

// KeyScheme derives storage keys from an entity's ancestor chain. Directory
// names are configurable so multiple deployments can share a bucket.
type KeyScheme struct {
	baseFolder       string
	conversationsDir string
	blocksDir        string
	responsesDir     string
}

// NewKeyScheme creates a key scheme rooted at baseFolder.
func NewKeyScheme(baseFolder, conversationsDir, blocksDir, responsesDir string) *KeyScheme {
	return &KeyScheme{
		baseFolder:       baseFolder,
		conversationsDir: conversationsDir,
		blocksDir:        blocksDir,
		responsesDir:     responsesDir,
	}
}

// Conversation returns the key of a conversation root document.
func (k *KeyScheme) Conversation(conversationID string) string {
	return fmt.Sprintf("%s/%s/%s.json", k.baseFolder, k.conversationsDir, conversationID)
}

// Block returns the key of a block document nested under its conversation.
func (k *KeyScheme) Block(conversationID, blockID string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s.json", k.baseFolder, k.conversationsDir, conversationID, k.blocksDir, blockID)
}

// Response returns the key of a response document nested under its block.
func (k *KeyScheme) Response(conversationID, blockID, responseID string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s/%s/%s.json",
		k.baseFolder, k.conversationsDir, conversationID, k.blocksDir, blockID, k.responsesDir, responseID)
}

// ConversationsPrefix returns the listing prefix covering all conversation
// documents, including their nested blocks and responses.
func (k *KeyScheme) ConversationsPrefix() string {
	return fmt.Sprintf("%s/%s/", k.baseFolder, k.conversationsDir)
}

// IsConversationRoot reports whether key addresses a conversation root
// document rather than a nested block or response document.
func (k *KeyScheme) IsConversationRoot(key string) bool {
	rest, ok := strings.CutPrefix(key, k.ConversationsPrefix())
	if !ok || !strings.HasSuffix(rest, ".json") {
		return false
	}
	return !strings.Contains(rest, "/")
}

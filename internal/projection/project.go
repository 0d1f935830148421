// Package projection prunes hydrated document trees down to a requested
// field selection. Each entity type carries a default field set that is
// always included; dotted paths scope deeper requests to nested collections.
// Output is sparse: fields absent from the source document produce no key.
package projection

import "parley/internal/domain/models"

// Conversation prunes a (possibly hydrated) conversation to its default
// fields plus the requested paths. Hydrated blocks appear only when the
// selection addresses them, each recursively pruned with the paths scoped
// under "blocks".
func Conversation(c *models.Conversation, paths []string) map[string]any {
	include := includeSet(defaults.Conversation, paths)
	suffixes := suffixesByField(paths)

	out := make(map[string]any, len(include))
	for field := range include {
		switch field {
		case "id":
			out["id"] = c.ID
		case "createdBy":
			out["createdBy"] = c.CreatedBy
		case "createdAt":
			out["createdAt"] = c.CreatedAt
		case "updatedAt":
			out["updatedAt"] = c.UpdatedAt
		case "status":
			out["status"] = c.Status
		case "summaryText":
			if c.SummaryText != nil {
				out["summaryText"] = *c.SummaryText
			}
		case "summaryType":
			if c.SummaryType != nil {
				out["summaryType"] = *c.SummaryType
			}
		case "blockIds":
			if c.BlockIDs != nil {
				out["blockIds"] = c.BlockIDs
			}
		case "blocks":
			if c.Blocks == nil {
				continue
			}
			blocks := make([]map[string]any, 0, len(c.Blocks))
			for i := range c.Blocks {
				blocks = append(blocks, Block(&c.Blocks[i], suffixes["blocks"]))
			}
			out["blocks"] = blocks
		}
	}

	return out
}

// Block prunes a (possibly hydrated) block. paths are already scoped to the
// block, e.g. "responses.payload" rather than "blocks.responses.payload".
func Block(b *models.Block, paths []string) map[string]any {
	include := includeSet(defaults.Block, paths)
	suffixes := suffixesByField(paths)

	out := make(map[string]any, len(include))
	for field := range include {
		switch field {
		case "id":
			out["id"] = b.ID
		case "inputText":
			out["inputText"] = b.InputText
		case "responseIds":
			if b.ResponseIDs != nil {
				out["responseIds"] = b.ResponseIDs
			}
		case "createdBy":
			out["createdBy"] = b.CreatedBy
		case "createdAt":
			out["createdAt"] = b.CreatedAt
		case "responses":
			if b.Responses == nil {
				continue
			}
			responses := make([]map[string]any, 0, len(b.Responses))
			for i := range b.Responses {
				responses = append(responses, Response(&b.Responses[i], suffixes["responses"]))
			}
			out["responses"] = responses
		}
	}

	return out
}

// Response prunes a response. Payload and respondedAt are not default fields;
// they appear only when explicitly requested.
func Response(r *models.Response, paths []string) map[string]any {
	include := includeSet(defaults.Response, paths)

	out := make(map[string]any, len(include))
	for field := range include {
		switch field {
		case "id":
			out["id"] = r.ID
		case "source":
			out["source"] = r.Source
		case "responseType":
			out["responseType"] = r.ResponseType
		case "payload":
			if r.Payload != nil {
				out["payload"] = r.Payload
			}
		case "requestedAt":
			if r.RequestedAt != nil {
				out["requestedAt"] = *r.RequestedAt
			}
		case "respondedAt":
			if r.RespondedAt != nil {
				out["respondedAt"] = *r.RespondedAt
			}
		}
	}

	return out
}

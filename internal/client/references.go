package client

import (
	"encoding/json"

	"beacon/internal/conversation"
)

// ReferencedDocs decodes the referenced_documents array leniently: only
// entries whose docs_url and title are both JSON strings are kept;
// malformed entries are silently dropped.
type ReferencedDocs []conversation.ReferencedDoc

func (d *ReferencedDocs) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// A missing or non-array field yields no references.
		*d = nil
		return nil
	}

	docs := make([]conversation.ReferencedDoc, 0, len(raw))
	for _, entry := range raw {
		var fields map[string]interface{}
		if err := json.Unmarshal(entry, &fields); err != nil {
			continue
		}
		docsURL, ok := fields["docs_url"].(string)
		if !ok {
			continue
		}
		title, ok := fields["title"].(string)
		if !ok {
			continue
		}
		docs = append(docs, conversation.ReferencedDoc{DocsURL: docsURL, Title: title})
	}

	if len(docs) == 0 {
		*d = nil
		return nil
	}
	*d = docs
	return nil
}

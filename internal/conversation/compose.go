package conversation

import (
	"fmt"
	"strings"

	"beacon/internal/attachment"
)

// ComposeQuery renders the outgoing query text from the user prompt plus
// the attachment set, in store iteration order. Only YAML and YAML Status
// attachments are rendered; other types are reserved for future use.
// Composition is pure and does not mutate the attachments.
func ComposeQuery(prompt string, attachments []attachment.Attachment) string {
	var b strings.Builder
	b.WriteString(prompt)

	for _, a := range attachments {
		if a.Type == attachment.TypeYAML {
			fmt.Fprintf(&b, "\n\nFor reference, here is the full resource YAML for %s '%s':\n```yaml\n%s\n```",
				a.Kind, a.Name, a.Value)
		}

		if a.Type == attachment.TypeYAMLStatus {
			fmt.Fprintf(&b, "\n\nFor reference, here is the resource's 'status' section YAML for %s '%s':\n```yaml\n%s\n```",
				a.Kind, a.Name, a.Value)
		}
	}

	return b.String()
}

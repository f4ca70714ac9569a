package attachment

import (
	"fmt"
)

// Type identifies what kind of context snapshot an attachment carries.
type Type string

const (
	TypeEvents     Type = "Events"
	TypeLog        Type = "Log"
	TypeYAML       Type = "YAML"
	TypeYAMLStatus Type = "YAML Status"
	TypeYAMLUpload Type = "YAMLUpload"
)

// Attachment is a captured, possibly-edited text snapshot of a resource's
// manifest or status, offered as extra context to a query.
type Attachment struct {
	Type          Type
	Kind          string
	Name          string
	Namespace     string
	Value         string
	OriginalValue string
}

// Changed reports whether the attachment text was edited after capture.
func (a Attachment) Changed() bool {
	return a.OriginalValue != "" && a.OriginalValue != a.Value
}

// ID is the attachment identity key. Namespace is intentionally excluded:
// two attachments with the same type, kind, and name across namespaces
// collide and act as a single toggle.
func ID(t Type, kind, name string) string {
	return fmt.Sprintf("%s_%s_%s", t, kind, name)
}

// WireAttachment is the attachment shape sent to the remote service.
type WireAttachment struct {
	AttachmentType string `json:"attachment_type"`
	Content        string `json:"content"`
	ContentType    string `json:"content_type"`
}

// Export maps an attachment to its wire form.
func (a Attachment) Export() WireAttachment {
	attachmentType := "api object"
	if a.Type == TypeEvents {
		attachmentType = "event"
	}
	if a.Type == TypeLog {
		attachmentType = "log"
	}

	contentType := "application/yaml"
	if a.Type == TypeLog {
		contentType = "text/plain"
	}

	return WireAttachment{
		AttachmentType: attachmentType,
		Content:        a.Value,
		ContentType:    contentType,
	}
}

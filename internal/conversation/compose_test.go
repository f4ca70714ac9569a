package conversation

import (
	"strings"
	"testing"

	"beacon/internal/attachment"
)

func TestComposeQuery_NoAttachments(t *testing.T) {
	if got := ComposeQuery("What is a Pod?", nil); got != "What is a Pod?" {
		t.Errorf("ComposeQuery() = %q, want the bare prompt", got)
	}
}

func TestComposeQuery_YAMLBlock(t *testing.T) {
	attachments := []attachment.Attachment{
		{Type: attachment.TypeYAML, Kind: "Pod", Name: "nginx", Value: "kind: Pod"},
	}

	got := ComposeQuery("Why is this failing?", attachments)

	want := "Why is this failing?\n\nFor reference, here is the full resource YAML for Pod 'nginx':\n```yaml\nkind: Pod\n```"
	if got != want {
		t.Errorf("ComposeQuery() = %q, want %q", got, want)
	}
}

func TestComposeQuery_StatusBlock(t *testing.T) {
	attachments := []attachment.Attachment{
		{Type: attachment.TypeYAMLStatus, Kind: "Deployment", Name: "web", Value: "status:\n  replicas: 3"},
	}

	got := ComposeQuery("prompt", attachments)

	if !strings.Contains(got, "here is the resource's 'status' section YAML for Deployment 'web':") {
		t.Errorf("ComposeQuery() missing status block header: %q", got)
	}
	if !strings.Contains(got, "```yaml\nstatus:\n  replicas: 3\n```") {
		t.Errorf("ComposeQuery() missing fenced status content: %q", got)
	}
}

func TestComposeQuery_OrderPreserving(t *testing.T) {
	attachments := []attachment.Attachment{
		{Type: attachment.TypeYAML, Kind: "Pod", Name: "first", Value: "a"},
		{Type: attachment.TypeYAMLStatus, Kind: "Pod", Name: "second", Value: "b"},
	}

	got := ComposeQuery("q", attachments)
	firstIdx := strings.Index(got, "'first'")
	secondIdx := strings.Index(got, "'second'")
	if firstIdx < 0 || secondIdx < 0 || firstIdx > secondIdx {
		t.Errorf("ComposeQuery() did not preserve attachment order: %q", got)
	}
}

func TestComposeQuery_InertTypesNotRendered(t *testing.T) {
	attachments := []attachment.Attachment{
		{Type: attachment.TypeEvents, Kind: "Pod", Name: "nginx", Value: "event text"},
		{Type: attachment.TypeLog, Kind: "Pod", Name: "nginx", Value: "log text"},
		{Type: attachment.TypeYAMLUpload, Kind: "Pod", Name: "nginx", Value: "uploaded"},
	}

	if got := ComposeQuery("q", attachments); got != "q" {
		t.Errorf("ComposeQuery() = %q, inert types must not be rendered", got)
	}
}

func TestComposeQuery_Pure(t *testing.T) {
	attachments := []attachment.Attachment{
		{Type: attachment.TypeYAML, Kind: "Pod", Name: "nginx", Value: "kind: Pod"},
	}

	first := ComposeQuery("q", attachments)
	second := ComposeQuery("q", attachments)
	if first != second {
		t.Error("ComposeQuery() is not deterministic")
	}
	if attachments[0].Value != "kind: Pod" {
		t.Error("ComposeQuery() mutated the attachment set")
	}
}

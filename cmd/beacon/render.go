package main

import (
	"fmt"
	"strings"

	"beacon/internal/attachment"
	"beacon/internal/conversation"

	"charm.land/lipgloss/v2"
)

type styles struct {
	user      lipgloss.Style
	ai        lipgloss.Style
	errText   lipgloss.Style
	notice    lipgloss.Style
	reference lipgloss.Style
	meta      lipgloss.Style
}

func newStyles() *styles {
	purple := lipgloss.Color("99")
	blue := lipgloss.Color("12")
	red := lipgloss.Color("1")
	gray := lipgloss.Color("245")
	cyan := lipgloss.Color("39")

	return &styles{
		user:      lipgloss.NewStyle().Foreground(blue).Bold(true),
		ai:        lipgloss.NewStyle().Foreground(purple).Bold(true),
		errText:   lipgloss.NewStyle().Foreground(red),
		notice:    lipgloss.NewStyle().Foreground(gray),
		reference: lipgloss.NewStyle().Foreground(cyan).Underline(true),
		meta:      lipgloss.NewStyle().Foreground(gray).Italic(true),
	}
}

func (r *REPL) renderTurn(index int, turn conversation.Turn) string {
	var b strings.Builder

	label := r.styles.user.Render(fmt.Sprintf("[%d] you", index))
	if turn.Who == conversation.WhoAI {
		label = r.styles.ai.Render(fmt.Sprintf("[%d] assistant", index))
	}
	b.WriteString(label)
	b.WriteString("\n")

	if turn.Error != "" {
		b.WriteString(r.styles.errText.Render(turn.Error))
	} else {
		b.WriteString(turn.Text)
	}

	if turn.IsTruncated {
		b.WriteString("\n")
		b.WriteString(r.styles.meta.Render("(history was truncated to fit the model context)"))
	}

	for _, a := range turn.Attachments {
		b.WriteString("\n")
		b.WriteString(r.styles.meta.Render(fmt.Sprintf("attached: %s %s %s", a.Type, a.Kind, a.Name)))
	}

	for _, ref := range turn.References {
		b.WriteString("\n")
		b.WriteString(r.styles.reference.Render(ref.Title))
		b.WriteString(r.styles.meta.Render(" " + ref.DocsURL))
	}

	if fb := turn.Feedback; fb != nil {
		b.WriteString("\n")
		b.WriteString(r.styles.meta.Render(renderFeedback(*fb)))
	}

	return b.String()
}

func renderFeedback(fb conversation.Feedback) string {
	switch {
	case fb.Error != "":
		return fmt.Sprintf("feedback failed: %s", fb.Error)
	case fb.Submitted:
		return "feedback submitted"
	case fb.Sentiment == conversation.SentimentThumbsUp:
		return "feedback: thumbs up (unsent)"
	case fb.Sentiment == conversation.SentimentThumbsDown:
		return "feedback: thumbs down (unsent)"
	default:
		return "feedback open"
	}
}

func (r *REPL) renderHistory() string {
	history := r.panel.Session().History()
	if len(history) == 0 {
		return r.styles.notice.Render("No conversation yet.")
	}

	lines := make([]string, 0, len(history))
	for i, turn := range history {
		lines = append(lines, r.renderTurn(i, turn))
	}
	return strings.Join(lines, "\n\n")
}

func (r *REPL) renderAttachments() string {
	attachments := r.panel.Session().Attachments()
	if len(attachments) == 0 {
		return r.styles.notice.Render("No attachments pending.")
	}

	lines := make([]string, 0, len(attachments))
	for _, a := range attachments {
		line := fmt.Sprintf("%s  (%s %s)", attachment.ID(a.Type, a.Kind, a.Name), a.Type, qualifiedName(a.Namespace, a.Name))
		if a.Changed() {
			line += "  [edited]"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// renderTranscript produces the plain-text form written by /save.
func (r *REPL) renderTranscript() string {
	var b strings.Builder

	session := r.panel.Session()
	fmt.Fprintf(&b, "conversation %s\n\n", session.ConversationID())

	for i, turn := range session.History() {
		who := "you"
		if turn.Who == conversation.WhoAI {
			who = "assistant"
		}
		fmt.Fprintf(&b, "[%d] %s\n", i, who)

		if turn.Error != "" {
			fmt.Fprintf(&b, "error: %s\n", turn.Error)
		} else {
			fmt.Fprintf(&b, "%s\n", turn.Text)
		}

		for _, ref := range turn.References {
			fmt.Fprintf(&b, "see: %s (%s)\n", ref.Title, ref.DocsURL)
		}
		b.WriteString("\n")
	}

	return b.String()
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"beacon/internal/attachment"
	"beacon/internal/conversation"
	"beacon/internal/panel"

	"github.com/google/shlex"
	"github.com/natefinch/atomic"
)

type REPL struct {
	ctx    context.Context
	panel  *panel.Panel
	reader *bufio.Reader
	out    io.Writer
	styles *styles
}

func NewREPL(ctx context.Context, p *panel.Panel) *REPL {
	return &REPL{
		ctx:    ctx,
		panel:  p,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		styles: newStyles(),
	}
}

func (r *REPL) Start() error {
	fmt.Fprintln(r.out, r.styles.notice.Render("Beacon interactive session. Type '/help' for commands, '/exit' to quit."))

	if status := r.panel.AuthStatus(r.ctx); status.PromptDisabled() {
		fmt.Fprintln(r.out, r.styles.errText.Render(fmt.Sprintf("Prompting is disabled: %s", status)))
	}

	for {
		select {
		case <-r.ctx.Done():
			return nil
		default:
			if err := r.readLine(); err != nil {
				if err == io.EOF {
					return nil
				}
				fmt.Fprintln(r.out, r.styles.errText.Render(err.Error()))
			}
		}
	}
}

func (r *REPL) readLine() error {
	fmt.Fprint(r.out, "> ")
	text, err := r.reader.ReadString('\n')
	if err != nil {
		return err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if strings.HasPrefix(text, "/") {
		return r.runCommand(text)
	}

	return r.ask(text)
}

func (r *REPL) ask(prompt string) error {
	if !r.panel.PromptEnabled(r.ctx) {
		return fmt.Errorf("prompting is disabled: %s", r.panel.AuthStatus(r.ctx))
	}

	if err := r.panel.Ask(r.ctx, prompt); err != nil {
		return err
	}

	history := r.panel.Session().History()
	if len(history) == 0 {
		return nil
	}

	fmt.Fprintln(r.out, r.renderTurn(len(history)-1, history[len(history)-1]))
	return nil
}

func (r *REPL) runCommand(input string) error {
	parts, parseErr := shlex.Split(input)
	if parseErr != nil {
		parts = strings.Fields(input)
	}
	if len(parts) == 0 {
		return nil
	}
	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "/exit":
		return io.EOF
	case "/help":
		fmt.Fprintln(r.out, r.helpText())
		return nil
	case "/context":
		return r.handleContext(args)
	case "/attach":
		return r.handleAttach(args)
	case "/detach":
		return r.handleDetach(args)
	case "/attachments":
		fmt.Fprintln(r.out, r.renderAttachments())
		return nil
	case "/history":
		fmt.Fprintln(r.out, r.renderHistory())
		return nil
	case "/feedback":
		return r.handleFeedback(args)
	case "/new":
		r.panel.NewConversation()
		fmt.Fprintln(r.out, r.styles.notice.Render("Started a new conversation."))
		return nil
	case "/save":
		return r.handleSave(args)
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func (r *REPL) handleContext(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: /context <console-path>")
	}

	location, err := url.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid console path: %w", err)
	}

	r.panel.Navigate(location.Path, location.Query())

	desc := r.panel.Session().Context()
	if desc == nil {
		fmt.Fprintln(r.out, r.styles.notice.Render("No resource context at this location."))
		return nil
	}

	fmt.Fprintln(r.out, r.styles.notice.Render(fmt.Sprintf("Context: %s %s", desc.Kind, qualifiedName(desc.Namespace, desc.Name))))
	return nil
}

func (r *REPL) handleAttach(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: /attach yaml|status")
	}

	var t attachment.Type
	switch args[0] {
	case "yaml":
		t = attachment.TypeYAML
	case "status":
		t = attachment.TypeYAMLStatus
	default:
		return fmt.Errorf("unknown attachment kind %q, want yaml or status", args[0])
	}

	added, err := r.panel.ToggleAttachment(r.ctx, t)
	if err != nil {
		return err
	}

	if added {
		fmt.Fprintln(r.out, r.styles.notice.Render("Attached."))
	} else {
		fmt.Fprintln(r.out, r.styles.notice.Render("Detached."))
	}
	return nil
}

func (r *REPL) handleDetach(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: /detach <attachment-id>")
	}

	session := r.panel.Session()
	if !session.HasAttachment(args[0]) {
		return fmt.Errorf("no attachment %q", args[0])
	}

	session.RemoveAttachment(args[0])
	fmt.Fprintln(r.out, r.styles.notice.Render("Detached."))
	return nil
}

func (r *REPL) handleFeedback(args []string) error {
	usage := fmt.Errorf("usage: /feedback <turn> up|down|text <words>|send|close")
	if len(args) < 2 {
		return usage
	}

	index, err := strconv.Atoi(args[0])
	if err != nil {
		return usage
	}

	session := r.panel.Session()

	switch args[1] {
	case "up":
		return session.FeedbackSetSentiment(index, conversation.SentimentThumbsUp)
	case "down":
		return session.FeedbackSetSentiment(index, conversation.SentimentThumbsDown)
	case "text":
		if len(args) < 3 {
			return usage
		}
		return session.FeedbackSetText(index, strings.Join(args[2:], " "))
	case "send":
		if _, err := session.FeedbackState(index); err != nil {
			return err
		}
		r.panel.SubmitFeedbackAsync(r.ctx, index)
		fmt.Fprintln(r.out, r.styles.notice.Render("Sending feedback, check /history for the result."))
		return nil
	case "close":
		return session.FeedbackClose(index)
	default:
		return usage
	}
}

func (r *REPL) handleSave(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: /save <file>")
	}

	transcript := r.renderTranscript()
	if err := atomic.WriteFile(args[0], strings.NewReader(transcript)); err != nil {
		return fmt.Errorf("failed to save transcript: %w", err)
	}

	fmt.Fprintln(r.out, r.styles.notice.Render(fmt.Sprintf("Saved transcript to %s.", args[0])))
	return nil
}

func (r *REPL) helpText() string {
	return strings.Join([]string{
		"/context <console-path>  resolve the resource context from a console location",
		"/attach yaml|status      toggle a YAML attachment for the current context",
		"/detach <attachment-id>  remove an attachment",
		"/attachments             list pending attachments",
		"/history                 show the conversation so far",
		"/feedback <turn> up|down|text <words>|send|close",
		"/new                     start a new conversation",
		"/save <file>             write the transcript to a file",
		"/exit                    quit",
	}, "\n")
}

func qualifiedName(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "/" + name
}

// Package panel ties the conversational-context engine together: the
// location resolver, the attachment store, the session state machine, and
// the remote client, exposed as the event-level operations an embedding
// surface drives.
package panel

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"beacon/internal/attachment"
	"beacon/internal/auth"
	"beacon/internal/client"
	"beacon/internal/concurrency"
	"beacon/internal/conversation"
	beaconErrors "beacon/internal/errors"
	"beacon/internal/location"
	"beacon/internal/logger"
	"beacon/internal/resource"
)

// Fixed fallback messages, used only when a failure carries neither a
// server detail nor a message of its own.
const (
	QueryFailedFallback    = "Query POST failed"
	FeedbackFailedFallback = "Feedback POST failed"
)

type Panel struct {
	session    *conversation.Session
	client     *client.Client
	authStatus auth.StatusProvider
	resources  resource.Getter
}

func New(c *client.Client, authStatus auth.StatusProvider, resources resource.Getter) *Panel {
	return &Panel{
		session:    conversation.NewSession(),
		client:     c,
		authStatus: authStatus,
		resources:  resources,
	}
}

// Session exposes the underlying conversation state for rendering.
func (p *Panel) Session() *conversation.Session {
	return p.session
}

// AuthStatus returns the collaborator-supplied authorization status.
func (p *Panel) AuthStatus(ctx context.Context) auth.Status {
	if p.authStatus == nil {
		return auth.Unknown
	}
	return p.authStatus.Status(ctx)
}

// PromptEnabled reports whether the prompt surface is usable.
func (p *Panel) PromptEnabled(ctx context.Context) bool {
	return !p.AuthStatus(ctx).PromptDisabled()
}

// Navigate recomputes the candidate resource context from the navigation
// path and query parameters, replacing it wholesale.
func (p *Panel) Navigate(path string, query url.Values) {
	if desc, ok := location.Resolve(path, query); ok {
		p.session.SetContext(&desc)
		return
	}
	p.session.SetContext(nil)
}

// CurrentContext fetches the live resource for the resolved descriptor.
func (p *Panel) CurrentContext(ctx context.Context) (*unstructured.Unstructured, error) {
	desc := p.session.Context()
	if desc == nil {
		return nil, fmt.Errorf("no resource in view: %w", beaconErrors.ErrNotFound)
	}
	if p.resources == nil {
		return nil, fmt.Errorf("no resource watch available: %w", beaconErrors.ErrNotFound)
	}
	return p.resources.Get(ctx, *desc)
}

// ToggleAttachment applies the attach gesture for the resource currently
// in view.
func (p *Panel) ToggleAttachment(ctx context.Context, t attachment.Type) (bool, error) {
	res, err := p.CurrentContext(ctx)
	if err != nil {
		return false, err
	}
	return p.session.ToggleAttachment(t, res)
}

// Ask drives one full conversation turn: validate and submit, issue the
// query request, and settle the session. Validation and busy errors are
// returned to the caller; transport and remote failures are converted to
// an error-bearing ai turn and never propagate.
func (p *Panel) Ask(ctx context.Context, prompt string) error {
	sub, err := p.session.Submit(prompt)
	if err != nil {
		return err
	}

	ctx = logger.WithConversationID(ctx, sub.ConversationID)

	resp, err := p.client.Query(ctx, client.QueryRequest{
		ConversationID: sub.ConversationID,
		Query:          sub.Query,
	})
	if err != nil {
		message := client.ErrorMessage(err, QueryFailedFallback)
		slog.Warn("Query failed",
			"conversation", logger.GetConversationID(ctx),
			"category", beaconErrors.Category(err),
			"error", message)
		p.session.ResolveFailure(sub.Token, message)
		return nil
	}

	p.session.ResolveSuccess(sub.Token, resp.ConversationID, resp.Response, resp.Truncated, resp.ReferencedDocuments)
	return nil
}

// SubmitFeedback sends the rating for one assistant turn and lands the
// outcome in that turn's feedback state. Transport and remote failures
// are recorded inline and never propagate.
func (p *Panel) SubmitFeedback(ctx context.Context, index int) error {
	payload, err := p.session.FeedbackSubmission(index)
	if err != nil {
		return err
	}

	req := client.FeedbackRequest{
		ConversationID: payload.ConversationID,
		LLMResponse:    payload.LLMResponse,
		UserFeedback:   payload.Text,
		UserQuestion:   payload.UserQuestion,
	}
	if payload.Sentiment != 0 {
		sentiment := payload.Sentiment
		req.Sentiment = &sentiment
	}

	ctx = logger.WithConversationID(ctx, payload.ConversationID)

	if err := p.client.SendFeedback(ctx, req); err != nil {
		message := client.ErrorMessage(err, FeedbackFailedFallback)
		slog.Warn("Feedback failed",
			"conversation", logger.GetConversationID(ctx),
			"turn", index, "error", message)
		return p.session.FeedbackResolve(index, message)
	}
	return p.session.FeedbackResolve(index, "")
}

// SubmitFeedbackAsync fires the feedback submission without blocking the
// caller. Feedback turns are independent of the session's waiting state
// and of each other, so submissions may overlap freely.
func (p *Panel) SubmitFeedbackAsync(ctx context.Context, index int) {
	concurrency.SafeGo(func() {
		if err := p.SubmitFeedback(ctx, index); err != nil {
			slog.Warn("Feedback submission rejected", "turn", index, "error", err)
		}
	}, nil)
}

// NewConversation resets the session: conversation id, history,
// attachments, and context clear together.
func (p *Panel) NewConversation() {
	p.session.Reset()
}

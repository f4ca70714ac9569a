package conversation

import (
	"slices"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"beacon/internal/attachment"
	beaconErrors "beacon/internal/errors"
	"beacon/internal/location"
)

// Who identifies the author of a chat turn.
type Who string

const (
	WhoUser Who = "user"
	WhoAI   Who = "ai"
)

// ReferencedDoc is a documentation link cited by an assistant response.
type ReferencedDoc struct {
	DocsURL string `json:"docs_url"`
	Title   string `json:"title"`
}

// Turn is one message in the chat log. A user turn carries the attachment
// snapshot active at submit time; an ai turn carries the response fields
// and its own feedback state. Turns are append-only and addressed by
// position.
type Turn struct {
	Who         Who
	Text        string
	Error       string
	IsTruncated bool
	References  []ReferencedDoc
	Attachments []attachment.Attachment
	Feedback    *Feedback
}

// Submission is the outgoing side of one conversation turn. The token is
// compared at resolution time so a stale response from an abandoned
// submit can never land.
type Submission struct {
	Token          string
	ConversationID string
	Query          string
}

// Session is the conversational state machine: the ordered turn log, the
// active conversation identifier, the attachment store, and the resource
// context, transitioning idle -> waiting on submit and back on
// resolution. The attachment store and turn log are owned exclusively by
// the session; all mutation flows through its methods.
type Session struct {
	mu             sync.Mutex
	conversationID string
	history        []Turn
	attachments    *attachment.Store
	context        *location.ResourceDescriptor
	pending        string
	waiting        bool
	token          string
}

func NewSession() *Session {
	return &Session{
		attachments: attachment.NewStore(),
	}
}

// ConversationID returns the server-assigned conversation id, empty until
// the first successful response.
func (s *Session) ConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationID
}

// Waiting reports whether a submission is outstanding.
func (s *Session) Waiting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiting
}

// History returns a deep snapshot of the turn log. Feedback state and the
// reference and attachment slices are cloned, so callers can render a
// snapshot while background feedback submissions mutate the live log.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := make([]Turn, len(s.history))
	for i, turn := range s.history {
		turn.References = slices.Clone(turn.References)
		turn.Attachments = slices.Clone(turn.Attachments)
		if turn.Feedback != nil {
			feedback := *turn.Feedback
			turn.Feedback = &feedback
		}
		history[i] = turn
	}
	return history
}

// Turns returns the number of turns in the log.
func (s *Session) Turns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// SetPending records the prompt text being edited.
func (s *Session) SetPending(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = text
}

// Pending returns the prompt text being edited.
func (s *Session) Pending() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// SetContext replaces the candidate resource context wholesale.
func (s *Session) SetContext(desc *location.ResourceDescriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.context = desc
}

// Context returns the candidate resource context, nil when absent.
func (s *Session) Context() *location.ResourceDescriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.context
}

// ToggleAttachment applies the attach gesture against the session's
// store.
func (s *Session) ToggleAttachment(t attachment.Type, resource *unstructured.Unstructured) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attachments.Toggle(t, resource)
}

// HasAttachment reports membership by identity key.
func (s *Session) HasAttachment(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attachments.Has(id)
}

// RemoveAttachment deletes an attachment by identity key.
func (s *Session) RemoveAttachment(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attachments.Remove(id)
}

// Attachments returns the attachment set in insertion order.
func (s *Session) Attachments() []attachment.Attachment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attachments.List()
}

// Submit validates the prompt, appends the user turn carrying the current
// attachment snapshot, enters waiting, and clears the pending prompt and
// attachment store for the next turn. The returned Submission carries the
// query composed from the pre-clear snapshot. An empty prompt or an
// outstanding submission rejects without any state change.
func (s *Session) Submit(prompt string) (Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(prompt) == "" {
		return Submission{}, beaconErrors.InvalidInput("empty prompt")
	}
	if s.waiting {
		return Submission{}, beaconErrors.Wrap(beaconErrors.ErrBusy, "submission already in flight")
	}

	snapshot := s.attachments.List()
	s.history = append(s.history, Turn{
		Who:         WhoUser,
		Text:        prompt,
		Attachments: snapshot,
	})

	s.pending = ""
	s.attachments.Clear()
	s.waiting = true
	s.token = ulid.Make().String()

	return Submission{
		Token:          s.token,
		ConversationID: s.conversationID,
		Query:          ComposeQuery(prompt, snapshot),
	}, nil
}

// ResolveSuccess lands a successful response for the given submission.
// The remote service is the sole authority on the conversation id. A
// stale token is ignored and the method reports false.
func (s *Session) ResolveSuccess(token, conversationID, text string, truncated bool, references []ReferencedDoc) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.waiting || token != s.token {
		return false
	}

	s.conversationID = conversationID
	s.history = append(s.history, Turn{
		Who:         WhoAI,
		Text:        text,
		IsTruncated: truncated,
		References:  references,
	})
	s.waiting = false
	s.token = ""
	return true
}

// ResolveFailure lands a failed response as an error-bearing ai turn. A
// stale token is ignored and the method reports false.
func (s *Session) ResolveFailure(token, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.waiting || token != s.token {
		return false
	}

	s.history = append(s.history, Turn{
		Who:   WhoAI,
		Error: message,
	})
	s.waiting = false
	s.token = ""
	return true
}

// Reset clears the conversation id, history, attachments, and context
// together under a single lock acquisition; no intermediate state is
// observable.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversationID = ""
	s.history = nil
	s.attachments.Clear()
	s.context = nil
	s.pending = ""
	s.waiting = false
	s.token = ""
}

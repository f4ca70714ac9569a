package auth

import "context"

// Status is the opaque authorization state supplied by the external auth
// collaborator. The prompt surface is disabled entirely for
// NotAuthenticated and NotAuthorized.
type Status int

const (
	Unknown Status = iota
	Authenticated
	NotAuthenticated
	NotAuthorized
)

func (s Status) String() string {
	switch s {
	case Authenticated:
		return "Authenticated"
	case NotAuthenticated:
		return "NotAuthenticated"
	case NotAuthorized:
		return "NotAuthorized"
	default:
		return "Unknown"
	}
}

// PromptDisabled reports whether the prompt surface must be disabled for
// this status.
func (s Status) PromptDisabled() bool {
	return s == NotAuthenticated || s == NotAuthorized
}

// StatusProvider yields the current authorization status.
type StatusProvider interface {
	Status(ctx context.Context) Status
}

// TokenSource supplies the authorization header value for remote calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource carries a fixed bearer token from configuration. Its
// status derives from token presence.
type StaticTokenSource struct {
	token string
}

func NewStaticTokenSource(token string) *StaticTokenSource {
	return &StaticTokenSource{token: token}
}

func (s *StaticTokenSource) Token(ctx context.Context) (string, error) {
	return s.token, nil
}

func (s *StaticTokenSource) Status(ctx context.Context) Status {
	if s.token == "" {
		return NotAuthenticated
	}
	return Authenticated
}

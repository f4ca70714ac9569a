package conversation

import (
	"fmt"

	beaconErrors "beacon/internal/errors"
)

// Sentiment values for a turn's rating. Zero means no rating.
const (
	SentimentThumbsDown = -1
	SentimentThumbsUp   = 1
)

// Feedback is the per-turn rating state machine. Each assistant turn owns
// its own instance; opening one never closes another.
type Feedback struct {
	IsOpen    bool
	Sentiment int
	Text      string
	Submitted bool
	Error     string
}

// FeedbackSubmission is everything needed for one feedback request:
// the turn's response text paired with the immediately preceding user
// question.
type FeedbackSubmission struct {
	ConversationID string
	LLMResponse    string
	Sentiment      int
	Text           string
	UserQuestion   string
}

// feedbackTurn returns the assistant turn at index, creating its feedback
// state lazily. Caller holds the lock.
func (s *Session) feedbackTurn(index int) (*Turn, error) {
	if index < 0 || index >= len(s.history) {
		return nil, fmt.Errorf("no turn at index %d: %w", index, beaconErrors.ErrNotFound)
	}
	turn := &s.history[index]
	if turn.Who != WhoAI || turn.Error != "" {
		return nil, fmt.Errorf("turn %d does not accept feedback: %w", index, beaconErrors.ErrInvalidInput)
	}
	if turn.Feedback == nil {
		turn.Feedback = &Feedback{}
	}
	return turn, nil
}

// FeedbackOpen shows the rating state for a turn.
func (s *Session) FeedbackOpen(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn, err := s.feedbackTurn(index)
	if err != nil {
		return err
	}
	turn.Feedback.IsOpen = true
	return nil
}

// FeedbackClose hides the rating state without clearing the chosen
// sentiment or text.
func (s *Session) FeedbackClose(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn, err := s.feedbackTurn(index)
	if err != nil {
		return err
	}
	turn.Feedback.IsOpen = false
	return nil
}

// FeedbackSetSentiment applies the rating toggle: setting the active
// value clears it, setting a different value replaces it, and any
// sentiment change implies opening.
func (s *Session) FeedbackSetSentiment(index, sentiment int) error {
	if sentiment != SentimentThumbsUp && sentiment != SentimentThumbsDown {
		return beaconErrors.InvalidInput(fmt.Sprintf("sentiment %d is not a thumbs rating", sentiment))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	turn, err := s.feedbackTurn(index)
	if err != nil {
		return err
	}
	if turn.Feedback.Sentiment == sentiment {
		turn.Feedback.Sentiment = 0
	} else {
		turn.Feedback.Sentiment = sentiment
	}
	turn.Feedback.IsOpen = true
	return nil
}

// FeedbackSetText records the free-form comment.
func (s *Session) FeedbackSetText(index int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn, err := s.feedbackTurn(index)
	if err != nil {
		return err
	}
	turn.Feedback.Text = text
	return nil
}

// FeedbackState returns a copy of the turn's feedback state.
func (s *Session) FeedbackState(index int) (Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn, err := s.feedbackTurn(index)
	if err != nil {
		return Feedback{}, err
	}
	return *turn.Feedback, nil
}

// FeedbackSubmission assembles the feedback payload for a turn: this
// turn's response text and the text of the immediately preceding user
// turn.
func (s *Session) FeedbackSubmission(index int) (FeedbackSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn, err := s.feedbackTurn(index)
	if err != nil {
		return FeedbackSubmission{}, err
	}

	userQuestion := ""
	if index > 0 && s.history[index-1].Who == WhoUser {
		userQuestion = s.history[index-1].Text
	}

	return FeedbackSubmission{
		ConversationID: s.conversationID,
		LLMResponse:    turn.Text,
		Sentiment:      turn.Feedback.Sentiment,
		Text:           turn.Feedback.Text,
		UserQuestion:   userQuestion,
	}, nil
}

// FeedbackResolve lands the result of a feedback request. Success closes
// the rating state and marks it submitted; failure records the error
// message and leaves it open.
func (s *Session) FeedbackResolve(index int, errorMessage string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn, err := s.feedbackTurn(index)
	if err != nil {
		return err
	}

	if errorMessage == "" {
		turn.Feedback.IsOpen = false
		turn.Feedback.Submitted = true
		turn.Feedback.Error = ""
	} else {
		turn.Feedback.Submitted = false
		turn.Feedback.Error = errorMessage
	}
	return nil
}

package domain

// ResponseState is the derived state of a guest/invitation response.
type ResponseState string

const (
	StatePending   ResponseState = "pending"
	StateAttending ResponseState = "attending"
	StateDeclined  ResponseState = "declined"
)

// ResponseAction is a caller-requested transition on an invitation.
type ResponseAction string

const (
	ActionAttend  ResponseAction = "attend"
	ActionDecline ResponseAction = "decline"
)

// ParseResponseAction validates a raw action string.
func ParseResponseAction(s string) (ResponseAction, bool) {
	switch ResponseAction(s) {
	case ActionAttend:
		return ActionAttend, true
	case ActionDecline:
		return ActionDecline, true
	}
	return "", false
}

// ResponseStatus holds the answered/attending pair mirrored between a Guest
// (event side) and an Invitation (user side). The zero value is pending.
//
// The response is a one-shot commitment: once Answered is true neither flag
// may change again through Attend/Decline.
type ResponseStatus struct {
	Answered  bool `json:"answered"`
	Attending bool `json:"attending"`
}

// State derives the response state from the two flags.
func (s ResponseStatus) State() ResponseState {
	switch {
	case !s.Answered:
		return StatePending
	case s.Attending:
		return StateAttending
	default:
		return StateDeclined
	}
}

// Attend transitions pending -> attending. Returns ErrAlreadyAnswered and
// leaves the status unchanged if the invitation was already answered.
func (s *ResponseStatus) Attend() error {
	if s.Answered {
		return ErrAlreadyAnswered
	}
	s.Answered = true
	s.Attending = true
	return nil
}

// Decline transitions pending -> declined. Returns ErrAlreadyAnswered and
// leaves the status unchanged if the invitation was already answered.
func (s *ResponseStatus) Decline() error {
	if s.Answered {
		return ErrAlreadyAnswered
	}
	s.Answered = true
	s.Attending = false
	return nil
}

// Apply performs the transition named by action.
func (s *ResponseStatus) Apply(action ResponseAction) error {
	if action == ActionAttend {
		return s.Attend()
	}
	return s.Decline()
}

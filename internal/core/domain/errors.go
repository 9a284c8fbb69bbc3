package domain

import "errors"

var (
	ErrValidation         = errors.New("invalid request")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionClosed      = errors.New("session is closed")
	ErrAlreadyVoted       = errors.New("participant has already voted")
	ErrInvalidOption      = errors.New("invalid option for this session")
	ErrDuplicateSessionID = errors.New("session id already in use")
	ErrUnauthorized       = errors.New("connection does not own this session")

	ErrPollNotFound  = errors.New("poll not found")
	ErrInvalidPollID = errors.New("invalid poll id")
	ErrInternal      = errors.New("internal server error")
)

// UserMessage turns an engine error into the text sent back to a client.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAlreadyVoted):
		return "Already voted in this poll."
	case errors.Is(err, ErrSessionClosed):
		return "This poll is closed."
	case errors.Is(err, ErrSessionNotFound):
		return "Poll not found."
	case errors.Is(err, ErrInvalidOption):
		return "Invalid option."
	case errors.Is(err, ErrDuplicateSessionID):
		return "A poll with this id already exists."
	case errors.Is(err, ErrUnauthorized):
		return "Only the presenter can end this poll."
	case errors.Is(err, ErrValidation):
		return err.Error()
	default:
		return "Something went wrong."
	}
}

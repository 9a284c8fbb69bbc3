package domain

type CommandName string

const (
	CommandCreateSession   CommandName = "create-session"
	CommandJoinWaitingRoom CommandName = "join-waiting-room"
	CommandJoinSession     CommandName = "join-session"
	CommandSubmitVote      CommandName = "submit-vote"
	CommandEndSession      CommandName = "end-session"
	CommandGetResults      CommandName = "get-results"
)

type EventName string

const (
	EventSessionCreated    EventName = "session-created"
	EventSessionStarted    EventName = "session-started"
	EventSessionJoined     EventName = "session-joined"
	EventSessionUpdate     EventName = "session-update"
	EventSessionEnded      EventName = "session-ended"
	EventSessionResults    EventName = "session-results"
	EventWaitingRoomJoined EventName = "waiting-room-joined"
	EventError             EventName = "error"
)

// Event is an outbound message. Payload is marshalled as JSON by the
// transport.
type Event struct {
	Name    EventName
	Payload any
}

type SessionCreatedPayload struct {
	SessionID SessionID `json:"sessionId"`
}

type SessionPayload struct {
	Session Snapshot `json:"session"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type EmptyPayload struct{}

package content

import "github.com/openmanifold/manifold/pkg/files"

// Conversation roles. Roles pass through to the assembled content verbatim;
// no translation happens at this layer.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one conversation turn as supplied by the chat surface.
type Message struct {
	Role    string
	Content string
}

// Record is the richer message-store row matched positionally to a Message.
// It carries the attachment entries the plain message body does not.
type Record struct {
	ID      string
	Role    string
	Content string
	Files   []files.Attachment
}

// Event is a best-effort progress notification. Nothing in assembly ever
// reads a result back from the sink.
type Event struct {
	Description string
	Done        bool
}

// ProgressSink receives assembly progress events. Implementations may block
// or fail freely; the assembler never waits on them.
type ProgressSink func(Event)

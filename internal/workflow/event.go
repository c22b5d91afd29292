package workflow

// Event is the interface for all workflow events.
// UI handles events via type switch.
type Event interface {
	isEvent()
}

// RoutedEvent is emitted once the router has picked a specialist.
type RoutedEvent struct {
	Agent string
}

func (RoutedEvent) isEvent() {}

// TextEvent is emitted when an agent produces its final text.
type TextEvent struct {
	Agent string
	Text  string
}

func (TextEvent) isEvent() {}

// ThinkingEvent is emitted when the LLM is processing.
type ThinkingEvent struct {
	Agent string
}

func (ThinkingEvent) isEvent() {}

// DoneEvent is emitted when a request has been fully handled.
type DoneEvent struct{}

func (DoneEvent) isEvent() {}

// ToolStartEvent is emitted when a tool call is about to be processed.
type ToolStartEvent struct {
	Agent          string
	ToolName       string
	RequestDisplay string // e.g., write_file(path="a.txt")
}

func (ToolStartEvent) isEvent() {}

// ToolOutcome summarises how a tool call ended.
type ToolOutcome string

const (
	OutcomeOK      ToolOutcome = "ok"
	OutcomeError   ToolOutcome = "error"
	OutcomeDenied  ToolOutcome = "denied"
	OutcomeSkipped ToolOutcome = "skipped"
)

// ToolEndEvent is emitted when a tool call has produced its result.
type ToolEndEvent struct {
	Agent    string
	ToolName string
	Outcome  ToolOutcome
	Preview  string // truncated result
}

func (ToolEndEvent) isEvent() {}

// StatusEvent carries an ephemeral status line.
type StatusEvent struct {
	Message string
}

func (StatusEvent) isEvent() {}

// Emit sends ev unless events is nil.
func Emit(events chan<- Event, ev Event) {
	if events != nil {
		events <- ev
	}
}

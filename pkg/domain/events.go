package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventKey      EventType = "key"
	EventChange   EventType = "change"
	EventEvaluate EventType = "evaluate"
	EventError    EventType = "error"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// KeyEvent is emitted for every key handed to the machine, accepted or not.
type KeyEvent struct {
	EventBase
	Key   Key   `json:"key"`
	Phase Phase `json:"phase"`
}

// ChangeEvent is emitted when a key changed at least one field.
type ChangeEvent struct {
	EventBase
	Diff  *StateDiff `json:"diff"`
	State State      `json:"state"`
}

// EvalEvent is emitted after every call into the evaluator.
type EvalEvent struct {
	EventBase
	Left     string   `json:"left"`
	Right    string   `json:"right"`
	Operator Operator `json:"operator"`
	Result   string   `json:"result,omitempty"`
	Failure  string   `json:"failure,omitempty"`
}

// ErrorEvent is emitted when the machine latches an error message.
type ErrorEvent struct {
	EventBase
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

// LifecycleHooks defines callbacks for observing a calculator.
// They replace a reactive binding: a presentation layer can re-render on OnChange.
type LifecycleHooks struct {
	OnKey      func(*KeyEvent)
	OnChange   func(*ChangeEvent)
	OnEvaluate func(*EvalEvent)
	OnError    func(*ErrorEvent)
}

// CombineHooks fans every event out to each of the given hooks in order.
func CombineHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnKey: func(e *KeyEvent) {
			for _, h := range hooks {
				if h.OnKey != nil {
					h.OnKey(e)
				}
			}
		},
		OnChange: func(e *ChangeEvent) {
			for _, h := range hooks {
				if h.OnChange != nil {
					h.OnChange(e)
				}
			}
		},
		OnEvaluate: func(e *EvalEvent) {
			for _, h := range hooks {
				if h.OnEvaluate != nil {
					h.OnEvaluate(e)
				}
			}
		},
		OnError: func(e *ErrorEvent) {
			for _, h := range hooks {
				if h.OnError != nil {
					h.OnError(e)
				}
			}
		},
	}
}

package safety

// Kind classifies the outcome of a gated tool call.
type Kind int

const (
	KindOK Kind = iota
	KindError
	KindDenied
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindError:
		return "error"
	case KindDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// Result is the textual outcome of a tool call, fed back to the model.
type Result struct {
	Kind    Kind
	Content string
}

// Denied reports whether the call was refused.
func (r Result) Denied() bool { return r.Kind == KindDenied }

// OK reports whether the tool ran and succeeded.
func (r Result) OK() bool { return r.Kind == KindOK }

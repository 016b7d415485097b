package pipeline

// Outcome classifies the result of a pipeline step.
type Outcome int

const (
	// OutcomeNext means resolution continues.
	OutcomeNext Outcome = iota
	// OutcomeDone means the state is fully resolved.
	OutcomeDone
	// OutcomeRedirect means the navigation should go elsewhere.
	OutcomeRedirect
	// OutcomeError means the step failed.
	OutcomeError
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeNext:
		return "next"
	case OutcomeDone:
		return "done"
	case OutcomeRedirect:
		return "redirect"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Classify assigns exactly one outcome using the priority
// error > redirect > done > next. Once err is non-nil no state field is
// consulted.
func Classify(err error, s State) Outcome {
	switch {
	case err != nil:
		return OutcomeError
	case s.Redirect != "":
		return OutcomeRedirect
	case s.Done:
		return OutcomeDone
	default:
		return OutcomeNext
	}
}

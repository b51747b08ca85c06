package screening

// Decision is the pass/fail outcome derived from a screening result.
type Decision string

const (
	DecisionAllow Decision = "allow"
	DecisionBlock Decision = "block"
)

func (d Decision) String() string {
	return string(d)
}

// Decide maps a result to Block when its risk is high or critical, Allow otherwise.
// Levels outside the known set allow. Pure: no I/O, no side effects.
func Decide(result Result) Decision {
	if result.Risk.Blocking() {
		return DecisionBlock
	}
	return DecisionAllow
}

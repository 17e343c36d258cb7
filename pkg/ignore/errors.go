package ignore

import "fmt"

// PatternError reports a rule line that could not be compiled. The
// pattern language has almost no illegal syntax, so this is mostly
// reserved for encoding problems and degenerate rules.
type PatternError struct {
	Text   string
	Reason string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid ignore pattern %q: %s", e.Text, e.Reason)
}

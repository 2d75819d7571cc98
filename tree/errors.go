package tree

import "fmt"

// InvalidLineError is returned when a line cannot be added to or removed
// from an action tree.
type InvalidLineError struct {
	Line   []Action
	Reason string
}

func (e InvalidLineError) Error() string {
	return fmt.Sprintf("invalid line %s: %s", LineString(e.Line), e.Reason)
}

func (e InvalidLineError) Is(target error) bool {
	_, ok := target.(InvalidLineError)
	return ok
}

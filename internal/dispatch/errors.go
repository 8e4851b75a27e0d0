package dispatch

import "errors"

var (
	// ErrBadPayload indicates the control payload was not a valid JSON
	// command object.
	ErrBadPayload = errors.New("dispatch: malformed command payload")

	// ErrUnknownAction indicates a well-formed command carried an action
	// this node does not implement.
	ErrUnknownAction = errors.New("dispatch: unknown action")
)

package ports

import "fmt"

// CollaboratorError is a non-2xx response from a platform collaborator,
// preserving the server-provided message so callers can decide whether it
// is safe to show to the customer.
type CollaboratorError struct {
	Status  int
	Code    string
	Message string
}

func (e *CollaboratorError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("collaborator returned status %d", e.Status)
}

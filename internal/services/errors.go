package services

import "fmt"

const (
	KindExpense    = "expense"
	KindPreference = "user preference"
)

// NotFoundError reports a lookup for an entity that does not exist. The
// boundary layer surfaces its message as the not-found response body.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id %s", e.Kind, e.ID)
}

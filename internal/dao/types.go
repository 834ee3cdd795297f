package dao

// Error is a sentinel error for the data layer.
type Error string

const (
	// ErrInvalidArg flags a malformed argument.
	ErrInvalidArg = Error("invalid argument")
	// ErrNotFound flags a missing record.
	ErrNotFound = Error("user not found")
	// ErrInvalidUser flags a user that failed validation.
	ErrInvalidUser = Error("invalid user")
)

func (e Error) Error() string {
	return string(e)
}

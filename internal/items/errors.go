package items

import "errors"

// Sentinel categories the HTTP and socket layers translate into status codes.
var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
)

// User-facing messages, in the language of the app.
const (
	MsgListNotFound = "Liste introuvable."
	MsgItemNotFound = "Article introuvable."
	MsgInvalidName  = "Nom invalide."
	MsgNameRequired = "Le nom de l'article est requis."
)

// Error pairs a sentinel category with the message shown to users.
type Error struct {
	kind    error
	message string
}

func (e *Error) Error() string { return e.message }

func (e *Error) Unwrap() error { return e.kind }

// Message extracts the user-facing text from an error, falling back to the
// raw error string.
func Message(err error) string {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.message
	}
	return err.Error()
}

func invalid(message string) error {
	return &Error{kind: ErrValidation, message: message}
}

func notFound(message string) error {
	return &Error{kind: ErrNotFound, message: message}
}

package domain

import "errors"

type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindStore
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindStore:
		return "store"
	default:
		return "unknown"
	}
}

// Error is the single failure shape returned by the command layer. Message is
// always safe to show to the caller.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrConflict) works
// regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrStore      = &Error{Kind: KindStore}
	ErrUnknown    = &Error{Kind: KindUnknown}
)

const (
	MsgTitleRequired      = "Poll title is required"
	MsgMinOptions         = "Poll must have at least 2 options"
	MsgOptionBlank        = "Poll options cannot be empty"
	MsgPollIDRequired     = "Poll ID is required"
	MsgOptionIDRequired   = "Option ID is required"
	MsgUserIDRequired     = "User ID is required"
	MsgAlreadyVoted       = "You have already voted on this poll"
	MsgPollNotFound       = "Poll not found"
	MsgInvalidOption      = "Invalid option for this poll"
	MsgUnknown            = "Unknown error occurred"
	MsgCreatePollFailed   = "Failed to create poll"
	MsgUpdatePollFailed   = "Failed to update poll"
	MsgDeletePollFailed   = "Failed to delete poll"
	MsgResultsFailed      = "Failed to get poll results"
	MsgVoteFailed         = "Failed to record vote"
	MsgVoteStatusFailed   = "Failed to check voting status"
	MsgUserVotesFailed    = "Failed to get user votes"
	MsgFetchPollsFailed   = "Failed to fetch polls"
	MsgInvalidIdentifier  = "Invalid identifier"
	MsgCreateOptionFailed = "Failed to create poll options"
)

func NewValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func NewConflictError(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func NewNotFoundError(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func NewStoreError(msg string, err error) *Error {
	return &Error{Kind: KindStore, Message: msg, Err: err}
}

func UnknownError() *Error {
	return &Error{Kind: KindUnknown, Message: MsgUnknown}
}

// AsError converts any error into an *Error. Errors that already carry a kind
// pass through untouched; anything else becomes a store error keeping the
// original message, or fallback when that message is empty.
func AsError(err error, fallback string) *Error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	msg := err.Error()
	if msg == "" {
		msg = fallback
	}
	return NewStoreError(msg, err)
}

// FromPanic normalizes a recovered value. Only error values keep their message.
func FromPanic(v any) *Error {
	if err, ok := v.(error); ok {
		return AsError(err, MsgUnknown)
	}
	return UnknownError()
}

func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

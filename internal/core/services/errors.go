package services

import (
	"github.com/google/uuid"

	"github.com/vncsmyrnk/pollboard/internal/core/domain"
)

// guard turns a panic inside a service call into a regular error. It must be
// deferred directly by a function with a named error result.
func guard(errp *error) {
	if r := recover(); r != nil {
		*errp = domain.FromPanic(r)
	}
}

func fail(err error, fallback string) error {
	if err == nil {
		return nil
	}
	return domain.AsError(err, fallback)
}

func requireID(raw string, requiredMsg string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, domain.NewValidationError(requiredMsg)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(domain.MsgInvalidIdentifier)
	}
	return id, nil
}

func optionalID(raw string) (uuid.NullUUID, error) {
	if raw == "" {
		return uuid.NullUUID{}, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.NullUUID{}, domain.NewValidationError(domain.MsgInvalidIdentifier)
	}
	return uuid.NullUUID{UUID: id, Valid: true}, nil
}

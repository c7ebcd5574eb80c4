package ports

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/pollboard/internal/core/domain"
)

// PollStore persists polls and their options. Implementations report a
// missing poll as a domain NotFound error.
type PollStore interface {
	// Create inserts the poll and its options, removing the poll again if the
	// options cannot be stored.
	Create(ctx context.Context, input domain.CreatePollInput, ownerID uuid.NullUUID) (*domain.Poll, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	ListActive(ctx context.Context, page, limit int) (*domain.Page[domain.Poll], error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) (*domain.Page[domain.Poll], error)
	Update(ctx context.Context, id uuid.UUID, input domain.UpdatePollInput, ownerID uuid.NullUUID) (*domain.Poll, error)
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.NullUUID) error
	GetResults(ctx context.Context, id uuid.UUID) (*domain.PollResults, error)
}

// PageCache drops cached renderings of a view. Invalidating an unknown path is
// a no-op.
type PageCache interface {
	Invalidate(ctx context.Context, path string)
}

// Navigator sends the client to another view. Nothing should be written to
// the response after Navigate is called.
type Navigator interface {
	Navigate(ctx context.Context, path string)
}

type ListPollsInput struct {
	Page  int `schema:"page"`
	Limit int `schema:"limit"`
}

type PollService interface {
	CreatePoll(ctx context.Context, input domain.CreatePollInput, userID string) (*domain.Poll, error)
	CreatePollFromForm(ctx context.Context, form url.Values, nav Navigator) (*domain.Poll, error)
	GetPoll(ctx context.Context, id string) (*domain.Poll, error)
	ListActivePolls(ctx context.Context, input ListPollsInput) (*domain.Page[domain.Poll], error)
	ListUserPolls(ctx context.Context, userID string, input ListPollsInput) (*domain.Page[domain.Poll], error)
	UpdatePoll(ctx context.Context, id string, input domain.UpdatePollInput) (*domain.Poll, error)
	DeletePoll(ctx context.Context, id string) error
	GetResults(ctx context.Context, id string) (*domain.PollResults, error)
}

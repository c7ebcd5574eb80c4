package ports

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/pollboard/internal/core/domain"
)

type VoteStore interface {
	Create(ctx context.Context, vote domain.NewVote) (*domain.Vote, error)
	GetByPoll(ctx context.Context, pollID uuid.UUID) ([]domain.Vote, error)
	GetByPollAndUser(ctx context.Context, pollID, userID uuid.UUID) ([]domain.Vote, error)
	GetByUser(ctx context.Context, userID uuid.UUID, page, limit int) (*domain.Page[domain.Vote], error)
	HasUserVoted(ctx context.Context, pollID, userID uuid.UUID) (bool, error)
	CountUserVotes(ctx context.Context, pollID, userID uuid.UUID) (int, error)
}

type VoteService interface {
	Vote(ctx context.Context, input domain.CreateVoteInput) (*domain.Vote, error)
	VoteFromForm(ctx context.Context, form url.Values) (*domain.Vote, error)
	GetUserVotes(ctx context.Context, pollID, userID string) ([]domain.Vote, error)
	HasUserVoted(ctx context.Context, pollID, userID string) (bool, error)
	ListUserVotes(ctx context.Context, userID string, input ListPollsInput) (*domain.Page[domain.Vote], error)
}

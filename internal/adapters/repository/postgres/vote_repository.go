package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vncsmyrnk/pollboard/internal/core/domain"
	"github.com/vncsmyrnk/pollboard/internal/core/ports"
)

const voteColumns = `id, poll_id, option_id, user_id, voter_ip, created_at`

type voteRepository struct {
	db *sqlx.DB
}

func NewVoteRepository(db *sqlx.DB) ports.VoteStore {
	return &voteRepository{
		db: db,
	}
}

// Create only inserts when the option belongs to the poll. The exclusive flag
// feeds the partial unique index that allows one vote per user on
// single-vote polls.
func (r *voteRepository) Create(ctx context.Context, vote domain.NewVote) (*domain.Vote, error) {
	query := `
		INSERT INTO votes (poll_id, option_id, user_id, voter_ip, exclusive)
		SELECT o.poll_id, o.id, $3::uuid, $4::text, NOT p.allow_multiple_votes
		FROM poll_options o
		JOIN polls p ON p.id = o.poll_id
		WHERE o.id = $2 AND o.poll_id = $1
		RETURNING ` + voteColumns

	var saved domain.Vote
	err := r.db.QueryRowxContext(ctx, query, vote.PollID, vote.OptionID, vote.UserID, vote.VoterIP).StructScan(&saved)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewValidationError(domain.MsgInvalidOption)
		}
		if isUniqueViolation(err) {
			return nil, domain.NewConflictError(domain.MsgAlreadyVoted)
		}
		return nil, fmt.Errorf("failed to save vote: %w", err)
	}
	return &saved, nil
}

func (r *voteRepository) GetByPoll(ctx context.Context, pollID uuid.UUID) ([]domain.Vote, error) {
	query := `SELECT ` + voteColumns + ` FROM votes WHERE poll_id = $1 ORDER BY created_at DESC`
	votes := []domain.Vote{}
	if err := r.db.SelectContext(ctx, &votes, query, pollID); err != nil {
		return nil, fmt.Errorf("failed to fetch votes: %w", err)
	}
	return votes, nil
}

func (r *voteRepository) GetByPollAndUser(ctx context.Context, pollID, userID uuid.UUID) ([]domain.Vote, error) {
	query := `SELECT ` + voteColumns + ` FROM votes WHERE poll_id = $1 AND user_id = $2 ORDER BY created_at DESC`
	votes := []domain.Vote{}
	if err := r.db.SelectContext(ctx, &votes, query, pollID, userID); err != nil {
		return nil, fmt.Errorf("failed to fetch user votes: %w", err)
	}
	return votes, nil
}

func (r *voteRepository) GetByUser(ctx context.Context, userID uuid.UUID, page, limit int) (*domain.Page[domain.Vote], error) {
	page, limit, offset := domain.Paging(page, limit)

	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM votes WHERE user_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("failed to count user votes: %w", err)
	}

	query := `
		SELECT ` + voteColumns + `
		FROM votes
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	var votes []domain.Vote
	if err := r.db.SelectContext(ctx, &votes, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to fetch user votes: %w", err)
	}

	result := domain.NewPage(votes, count, page, limit)
	return &result, nil
}

func (r *voteRepository) HasUserVoted(ctx context.Context, pollID, userID uuid.UUID) (bool, error) {
	query := `SELECT 1 FROM votes WHERE poll_id = $1 AND user_id = $2 LIMIT 1`
	var exists int
	err := r.db.QueryRowContext(ctx, query, pollID, userID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check existing vote: %w", err)
	}
	return true, nil
}

func (r *voteRepository) CountUserVotes(ctx context.Context, pollID, userID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM votes WHERE poll_id = $1 AND user_id = $2`
	if err := r.db.GetContext(ctx, &count, query, pollID, userID); err != nil {
		return 0, fmt.Errorf("failed to count user votes: %w", err)
	}
	return count, nil
}

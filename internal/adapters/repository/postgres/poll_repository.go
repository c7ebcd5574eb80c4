package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vncsmyrnk/pollboard/internal/core/domain"
	"github.com/vncsmyrnk/pollboard/internal/core/ports"
)

const pollColumns = `id, title, description, created_by, created_at, updated_at,
	expires_at, is_active, allow_multiple_votes, is_anonymous, max_votes_per_user`

const activePollFilter = `is_active AND (expires_at IS NULL OR expires_at > NOW())`

var optionColumns = []interface{}{"id", "poll_id", "option_text", "option_order", "created_at"}

type pollRepository struct {
	db *sqlx.DB
}

func NewPollRepository(db *sqlx.DB) ports.PollStore {
	return &pollRepository{
		db: db,
	}
}

// Create stores the poll first and its options in a single statement after.
// If the options fail the poll row is deleted again.
func (r *pollRepository) Create(ctx context.Context, input domain.CreatePollInput, ownerID uuid.NullUUID) (*domain.Poll, error) {
	maxVotes := input.MaxVotesPerUser
	if maxVotes < 1 {
		maxVotes = domain.DefaultMaxVotesPerUser
	}

	queryPoll := `
		INSERT INTO polls (title, description, created_by, expires_at, allow_multiple_votes, is_anonymous, max_votes_per_user)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + pollColumns

	var poll domain.Poll
	err := r.db.QueryRowxContext(ctx, queryPoll,
		input.Title, nullIfBlank(input.Description), ownerID, nullIfBlank(input.ExpiresAt),
		input.AllowMultipleVotes, input.IsAnonymous, maxVotes,
	).StructScan(&poll)
	if err != nil {
		return nil, fmt.Errorf("failed to insert poll: %w", err)
	}

	rows := make([]interface{}, 0, len(input.Options))
	for i, text := range input.Options {
		rows = append(rows, goqu.Record{
			"poll_id":      poll.ID.String(),
			"option_text":  text,
			"option_order": i,
		})
	}

	queryOptions, args, err := dialect.Insert("poll_options").
		Prepared(true).
		Rows(rows...).
		Returning(optionColumns...).
		ToSQL()
	if err != nil {
		r.removePoll(ctx, poll.ID)
		return nil, fmt.Errorf("failed to build option statement: %w", err)
	}

	var options []domain.PollOption
	if err := r.db.SelectContext(ctx, &options, queryOptions, args...); err != nil {
		r.removePoll(ctx, poll.ID)
		return nil, fmt.Errorf("%s: %w", domain.MsgCreateOptionFailed, err)
	}

	results := domain.TallyResults(poll, options, nil)
	return &results.Poll, nil
}

// nullIfBlank stores a missing or blank optional text as NULL.
func nullIfBlank(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	return v
}

// removePoll is the compensating delete for a half created poll.
func (r *pollRepository) removePoll(ctx context.Context, id uuid.UUID) {
	_, _ = r.db.ExecContext(context.WithoutCancel(ctx), `DELETE FROM polls WHERE id = $1`, id)
}

func (r *pollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	results, err := r.GetResults(ctx, id)
	if err != nil {
		return nil, err
	}
	return &results.Poll, nil
}

func (r *pollRepository) GetResults(ctx context.Context, id uuid.UUID) (*domain.PollResults, error) {
	var poll domain.Poll
	query := `SELECT ` + pollColumns + ` FROM polls WHERE id = $1`
	if err := r.db.GetContext(ctx, &poll, query, id); err != nil {
		return nil, notFoundOr(err, "failed to get poll")
	}

	options, err := r.fetchOptions(ctx, poll.ID)
	if err != nil {
		return nil, err
	}

	var votes []domain.Vote
	queryVotes := `SELECT ` + voteColumns + ` FROM votes WHERE poll_id = $1`
	if err := r.db.SelectContext(ctx, &votes, queryVotes, poll.ID); err != nil {
		return nil, fmt.Errorf("failed to get poll votes: %w", err)
	}

	results := domain.TallyResults(poll, options, votes)
	return &results, nil
}

func (r *pollRepository) ListActive(ctx context.Context, page, limit int) (*domain.Page[domain.Poll], error) {
	return r.list(ctx, activePollFilter, nil, page, limit)
}

func (r *pollRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) (*domain.Page[domain.Poll], error) {
	return r.list(ctx, `created_by = $1`, []interface{}{userID}, page, limit)
}

func (r *pollRepository) list(ctx context.Context, where string, args []interface{}, page, limit int) (*domain.Page[domain.Poll], error) {
	page, limit, offset := domain.Paging(page, limit)

	var count int
	queryCount := `SELECT COUNT(*) FROM polls WHERE ` + where
	if err := r.db.GetContext(ctx, &count, queryCount, args...); err != nil {
		return nil, fmt.Errorf("failed to count polls: %w", err)
	}

	n := len(args)
	query := fmt.Sprintf(`
		SELECT %s,
			(SELECT COUNT(*) FROM votes v WHERE v.poll_id = polls.id) AS total_votes
		FROM polls
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, pollColumns, where, n+1, n+2)

	var polls []domain.Poll
	if err := r.db.SelectContext(ctx, &polls, query, append(args, limit, offset)...); err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}

	for i := range polls {
		options, err := r.fetchOptions(ctx, polls[i].ID)
		if err != nil {
			return nil, err
		}
		polls[i].Options = options
	}

	result := domain.NewPage(polls, count, page, limit)
	return &result, nil
}

// Update writes only the fields present in input. updated_at is always
// bumped, so an empty update still confirms the poll exists.
func (r *pollRepository) Update(ctx context.Context, id uuid.UUID, input domain.UpdatePollInput, ownerID uuid.NullUUID) (*domain.Poll, error) {
	record := goqu.Record{"updated_at": goqu.L("NOW()")}
	if input.Title.Present() {
		record["title"] = input.Title.Nullable()
	}
	if input.Description.Present() {
		record["description"] = input.Description.Nullable()
	}
	if input.ExpiresAt.Present() {
		record["expires_at"] = input.ExpiresAt.Nullable()
	}
	if input.IsActive.Present() {
		record["is_active"] = input.IsActive.Nullable()
	}
	if input.AllowMultipleVotes.Present() {
		record["allow_multiple_votes"] = input.AllowMultipleVotes.Nullable()
	}
	if input.IsAnonymous.Present() {
		record["is_anonymous"] = input.IsAnonymous.Nullable()
	}
	if input.MaxVotesPerUser.Present() {
		record["max_votes_per_user"] = input.MaxVotesPerUser.Nullable()
	}

	conditions := []exp.Expression{goqu.C("id").Eq(id.String())}
	if ownerID.Valid {
		conditions = append(conditions, goqu.C("created_by").Eq(ownerID.UUID.String()))
	}

	query, args, err := dialect.Update("polls").
		Prepared(true).
		Set(record).
		Where(conditions...).
		Returning(goqu.L(pollColumns)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build poll update: %w", err)
	}

	var poll domain.Poll
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&poll); err != nil {
		return nil, notFoundOr(err, "failed to update poll")
	}

	options, err := r.fetchOptions(ctx, poll.ID)
	if err != nil {
		return nil, err
	}
	poll.Options = options

	return &poll, nil
}

// Delete removes the poll; options and votes go with it through the foreign
// keys.
func (r *pollRepository) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.NullUUID) error {
	query := `DELETE FROM polls WHERE id = $1`
	args := []interface{}{id}
	if ownerID.Valid {
		query += ` AND created_by = $2`
		args = append(args, ownerID.UUID)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	if affected == 0 {
		return domain.NewNotFoundError(domain.MsgPollNotFound)
	}
	return nil
}

func (r *pollRepository) fetchOptions(ctx context.Context, pollID uuid.UUID) ([]domain.PollOption, error) {
	queryOptions := `
		SELECT id, poll_id, option_text, option_order, created_at
		FROM poll_options
		WHERE poll_id = $1
		ORDER BY option_order
	`
	var options []domain.PollOption
	if err := r.db.SelectContext(ctx, &options, queryOptions, pollID); err != nil {
		return nil, fmt.Errorf("failed to get poll options: %w", err)
	}
	return options, nil
}

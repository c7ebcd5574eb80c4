package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultMaxVotesPerUser = 1
	DefaultPageSize        = 10
	MaxPageSize            = 100
	MinPollOptions         = 2
)

type Poll struct {
	ID                 uuid.UUID     `json:"id" db:"id"`
	Title              string        `json:"title" db:"title"`
	Description        *string       `json:"description,omitempty" db:"description"`
	CreatedBy          uuid.NullUUID `json:"created_by" db:"created_by"`
	CreatedAt          time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at" db:"updated_at"`
	ExpiresAt          *time.Time    `json:"expires_at,omitempty" db:"expires_at"`
	IsActive           bool          `json:"is_active" db:"is_active"`
	AllowMultipleVotes bool          `json:"allow_multiple_votes" db:"allow_multiple_votes"`
	IsAnonymous        bool          `json:"is_anonymous" db:"is_anonymous"`
	MaxVotesPerUser    int           `json:"max_votes_per_user" db:"max_votes_per_user"`
	Options            []PollOption  `json:"options,omitempty" db:"-"`
	TotalVotes         int64         `json:"total_votes" db:"total_votes"`
}

type PollOption struct {
	ID             uuid.UUID `json:"id" db:"id"`
	PollID         uuid.UUID `json:"poll_id" db:"poll_id"`
	OptionText     string    `json:"option_text" db:"option_text"`
	OptionOrder    int       `json:"option_order" db:"option_order"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	VoteCount      int64     `json:"vote_count" db:"-"`
	VotePercentage float64   `json:"vote_percentage" db:"-"`
}

// CreatePollInput is never persisted as is. A nil Description or ExpiresAt
// means the value was not supplied.
type CreatePollInput struct {
	Title              string   `json:"title"`
	Description        *string  `json:"description,omitempty"`
	ExpiresAt          *string  `json:"expires_at,omitempty"`
	AllowMultipleVotes bool     `json:"allow_multiple_votes"`
	IsAnonymous        bool     `json:"is_anonymous"`
	MaxVotesPerUser    int      `json:"max_votes_per_user"`
	Options            []string `json:"options"`
}

// UpdatePollInput only touches fields that are not Unset. Description is the
// one field where Clear is meaningful.
type UpdatePollInput struct {
	Title              Patch[string]
	Description        Patch[string]
	ExpiresAt          Patch[string]
	IsActive           Patch[bool]
	AllowMultipleVotes Patch[bool]
	IsAnonymous        Patch[bool]
	MaxVotesPerUser    Patch[int]
}

// Fields returns the names of the fields present in the update, in column
// order.
func (in UpdatePollInput) Fields() []string {
	var fields []string
	add := func(name string, present bool) {
		if present {
			fields = append(fields, name)
		}
	}
	add("title", in.Title.Present())
	add("description", in.Description.Present())
	add("expires_at", in.ExpiresAt.Present())
	add("is_active", in.IsActive.Present())
	add("allow_multiple_votes", in.AllowMultipleVotes.Present())
	add("is_anonymous", in.IsAnonymous.Present())
	add("max_votes_per_user", in.MaxVotesPerUser.Present())
	return fields
}

type PollResults struct {
	Poll       Poll         `json:"poll"`
	Options    []PollOption `json:"options"`
	TotalVotes int64        `json:"total_votes"`
}

type Page[T any] struct {
	Data       []T `json:"data"`
	Count      int `json:"count"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

// NewPage fills in the paging metadata for one page of a result set of count
// rows.
func NewPage[T any](data []T, count, page, limit int) Page[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	if limit > 0 {
		totalPages = (count + limit - 1) / limit
	}
	return Page[T]{
		Data:       data,
		Count:      count,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

// Paging clamps page and limit to sane values and returns the row offset.
func Paging(page, limit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit, (page - 1) * limit
}

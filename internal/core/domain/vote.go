package domain

import (
	"time"

	"github.com/google/uuid"
)

type Vote struct {
	ID        uuid.UUID     `json:"id" db:"id"`
	PollID    uuid.UUID     `json:"poll_id" db:"poll_id"`
	OptionID  uuid.UUID     `json:"option_id" db:"option_id"`
	UserID    uuid.NullUUID `json:"user_id" db:"user_id"`
	VoterIP   *string       `json:"voter_ip,omitempty" db:"voter_ip"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
}

// CreateVoteInput holds raw identifiers as submitted; the command layer
// validates and parses them.
type CreateVoteInput struct {
	PollID   string `json:"poll_id" schema:"poll_id"`
	OptionID string `json:"option_id" schema:"option_id"`
	UserID   string `json:"user_id,omitempty" schema:"user_id"`
	VoterIP  string `json:"voter_ip,omitempty" schema:"voter_ip"`
}

// NewVote is a validated vote ready for the store.
type NewVote struct {
	PollID   uuid.UUID
	OptionID uuid.UUID
	UserID   uuid.NullUUID
	VoterIP  *string
}

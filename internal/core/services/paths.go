package services

import "github.com/google/uuid"

// PollsPath is the poll listing view.
const PollsPath = "/polls"

// PollPath is the detail view of a single poll.
func PollPath(id uuid.UUID) string {
	return PollsPath + "/" + id.String()
}

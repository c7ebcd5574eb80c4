package services

import (
	"context"
	"net/url"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vncsmyrnk/pollboard/internal/core/domain"
	"github.com/vncsmyrnk/pollboard/internal/core/forms"
	"github.com/vncsmyrnk/pollboard/internal/core/ports"
)

type voteService struct {
	pollStore ports.PollStore
	voteStore ports.VoteStore
	cache     ports.PageCache
	log       logrus.FieldLogger
}

func NewVoteService(pollStore ports.PollStore, voteStore ports.VoteStore, cache ports.PageCache, log logrus.FieldLogger) ports.VoteService {
	return &voteService{
		pollStore: pollStore,
		voteStore: voteStore,
		cache:     cache,
		log:       log,
	}
}

// Vote records a vote. Anonymous votes skip the duplicate check entirely; the
// check for signed-in users is only a fast path, the store enforces
// uniqueness on its own.
func (s *voteService) Vote(ctx context.Context, input domain.CreateVoteInput) (vote *domain.Vote, err error) {
	defer guard(&err)

	if input.PollID == "" {
		return nil, domain.NewValidationError(domain.MsgPollIDRequired)
	}
	if input.OptionID == "" {
		return nil, domain.NewValidationError(domain.MsgOptionIDRequired)
	}

	pollID, err := requireID(input.PollID, domain.MsgPollIDRequired)
	if err != nil {
		return nil, err
	}
	optionID, err := requireID(input.OptionID, domain.MsgOptionIDRequired)
	if err != nil {
		return nil, err
	}
	userID, err := optionalID(input.UserID)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		if err := s.ensureCanVote(ctx, pollID, userID.UUID); err != nil {
			return nil, err
		}
	}

	newVote := domain.NewVote{
		PollID:   pollID,
		OptionID: optionID,
		UserID:   userID,
	}
	if input.VoterIP != "" {
		ip := input.VoterIP
		newVote.VoterIP = &ip
	}

	vote, err = s.voteStore.Create(ctx, newVote)
	if err != nil {
		s.log.WithError(err).WithField("poll_id", pollID).Warn("failed to record vote")
		return nil, fail(err, domain.MsgVoteFailed)
	}

	s.cache.Invalidate(ctx, PollPath(pollID))
	s.cache.Invalidate(ctx, PollsPath)
	s.log.WithFields(logrus.Fields{"poll_id": pollID, "option_id": optionID}).Debug("vote recorded")

	return vote, nil
}

// ensureCanVote rejects a user who already voted, unless the poll allows
// multiple votes and the user is still below its per-user limit.
func (s *voteService) ensureCanVote(ctx context.Context, pollID, userID uuid.UUID) error {
	voted, err := s.voteStore.HasUserVoted(ctx, pollID, userID)
	if err != nil {
		return fail(err, domain.MsgVoteStatusFailed)
	}
	if !voted {
		return nil
	}

	poll, err := s.pollStore.GetByID(ctx, pollID)
	if err != nil {
		return fail(err, domain.MsgPollNotFound)
	}
	if !poll.AllowMultipleVotes {
		return domain.NewConflictError(domain.MsgAlreadyVoted)
	}

	limit := poll.MaxVotesPerUser
	if limit < 1 {
		limit = domain.DefaultMaxVotesPerUser
	}
	count, err := s.voteStore.CountUserVotes(ctx, pollID, userID)
	if err != nil {
		return fail(err, domain.MsgVoteStatusFailed)
	}
	if count >= limit {
		return domain.NewConflictError(domain.MsgAlreadyVoted)
	}
	return nil
}

func (s *voteService) VoteFromForm(ctx context.Context, form url.Values) (vote *domain.Vote, err error) {
	defer guard(&err)

	input, err := forms.NormalizeVote(form)
	if err != nil {
		return nil, err
	}
	return s.Vote(ctx, input)
}

// GetUserVotes returns the votes a user cast on one poll.
func (s *voteService) GetUserVotes(ctx context.Context, pollID, userID string) (votes []domain.Vote, err error) {
	defer guard(&err)

	pid, uid, err := requirePollAndUser(pollID, userID)
	if err != nil {
		return nil, err
	}

	votes, err = s.voteStore.GetByPollAndUser(ctx, pid, uid)
	if err != nil {
		return nil, fail(err, domain.MsgUserVotesFailed)
	}
	return votes, nil
}

func (s *voteService) HasUserVoted(ctx context.Context, pollID, userID string) (voted bool, err error) {
	defer guard(&err)

	pid, uid, err := requirePollAndUser(pollID, userID)
	if err != nil {
		return false, err
	}

	voted, err = s.voteStore.HasUserVoted(ctx, pid, uid)
	if err != nil {
		return false, fail(err, domain.MsgVoteStatusFailed)
	}
	return voted, nil
}

func (s *voteService) ListUserVotes(ctx context.Context, userID string, input ports.ListPollsInput) (page *domain.Page[domain.Vote], err error) {
	defer guard(&err)

	uid, err := requireID(userID, domain.MsgUserIDRequired)
	if err != nil {
		return nil, err
	}

	p, limit, _ := domain.Paging(input.Page, input.Limit)
	page, err = s.voteStore.GetByUser(ctx, uid, p, limit)
	if err != nil {
		return nil, fail(err, domain.MsgUserVotesFailed)
	}
	return page, nil
}

func requirePollAndUser(pollID, userID string) (uuid.UUID, uuid.UUID, error) {
	if pollID == "" {
		return uuid.Nil, uuid.Nil, domain.NewValidationError(domain.MsgPollIDRequired)
	}
	if userID == "" {
		return uuid.Nil, uuid.Nil, domain.NewValidationError(domain.MsgUserIDRequired)
	}
	pid, err := requireID(pollID, domain.MsgPollIDRequired)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	uid, err := requireID(userID, domain.MsgUserIDRequired)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return pid, uid, nil
}

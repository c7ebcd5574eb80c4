package services

import (
	"context"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vncsmyrnk/pollboard/internal/core/domain"
	"github.com/vncsmyrnk/pollboard/internal/core/forms"
	"github.com/vncsmyrnk/pollboard/internal/core/ports"
)

type pollService struct {
	store ports.PollStore
	cache ports.PageCache
	log   logrus.FieldLogger
}

func NewPollService(store ports.PollStore, cache ports.PageCache, log logrus.FieldLogger) ports.PollService {
	return &pollService{
		store: store,
		cache: cache,
		log:   log,
	}
}

// CreatePoll validates input again even though form submissions are already
// normalized, since API callers build the input themselves.
func (s *pollService) CreatePoll(ctx context.Context, input domain.CreatePollInput, userID string) (poll *domain.Poll, err error) {
	defer guard(&err)

	if strings.TrimSpace(input.Title) == "" {
		return nil, domain.NewValidationError(domain.MsgTitleRequired)
	}
	if len(input.Options) < domain.MinPollOptions {
		return nil, domain.NewValidationError(domain.MsgMinOptions)
	}
	for _, option := range input.Options {
		if strings.TrimSpace(option) == "" {
			return nil, domain.NewValidationError(domain.MsgOptionBlank)
		}
	}

	ownerID, err := optionalID(userID)
	if err != nil {
		return nil, err
	}

	poll, err = s.store.Create(ctx, input, ownerID)
	if err != nil {
		s.log.WithError(err).Warn("failed to create poll")
		return nil, fail(err, domain.MsgCreatePollFailed)
	}

	s.cache.Invalidate(ctx, PollsPath)
	s.log.WithField("poll_id", poll.ID).Info("poll created")

	return poll, nil
}

func (s *pollService) CreatePollFromForm(ctx context.Context, form url.Values, nav ports.Navigator) (poll *domain.Poll, err error) {
	defer guard(&err)

	input, err := forms.NormalizeCreate(form)
	if err != nil {
		return nil, err
	}

	poll, err = s.CreatePoll(ctx, input, strings.TrimSpace(form.Get(forms.FieldUserID)))
	if err != nil {
		return nil, err
	}

	if nav != nil {
		nav.Navigate(ctx, PollPath(poll.ID))
	}
	return poll, nil
}

func (s *pollService) GetPoll(ctx context.Context, id string) (poll *domain.Poll, err error) {
	defer guard(&err)

	pollID, err := requireID(id, domain.MsgPollIDRequired)
	if err != nil {
		return nil, err
	}

	poll, err = s.store.GetByID(ctx, pollID)
	if err != nil {
		return nil, fail(err, domain.MsgPollNotFound)
	}
	return poll, nil
}

func (s *pollService) ListActivePolls(ctx context.Context, input ports.ListPollsInput) (page *domain.Page[domain.Poll], err error) {
	defer guard(&err)

	p, limit, _ := domain.Paging(input.Page, input.Limit)
	page, err = s.store.ListActive(ctx, p, limit)
	if err != nil {
		return nil, fail(err, domain.MsgFetchPollsFailed)
	}
	return page, nil
}

func (s *pollService) ListUserPolls(ctx context.Context, userID string, input ports.ListPollsInput) (page *domain.Page[domain.Poll], err error) {
	defer guard(&err)

	uid, err := requireID(userID, domain.MsgUserIDRequired)
	if err != nil {
		return nil, err
	}

	p, limit, _ := domain.Paging(input.Page, input.Limit)
	page, err = s.store.ListByUser(ctx, uid, p, limit)
	if err != nil {
		return nil, fail(err, domain.MsgFetchPollsFailed)
	}
	return page, nil
}

// UpdatePoll hands the partial update to the store as is. When the request
// carries an actor only polls created by that actor are touched.
func (s *pollService) UpdatePoll(ctx context.Context, id string, input domain.UpdatePollInput) (poll *domain.Poll, err error) {
	defer guard(&err)

	pollID, err := requireID(id, domain.MsgPollIDRequired)
	if err != nil {
		return nil, err
	}

	poll, err = s.store.Update(ctx, pollID, input, domain.ActorFrom(ctx))
	if err != nil {
		s.log.WithError(err).WithField("poll_id", pollID).Warn("failed to update poll")
		return nil, fail(err, domain.MsgUpdatePollFailed)
	}

	s.cache.Invalidate(ctx, PollPath(pollID))
	s.cache.Invalidate(ctx, PollsPath)
	s.log.WithFields(logrus.Fields{"poll_id": pollID, "fields": input.Fields()}).Info("poll updated")

	return poll, nil
}

func (s *pollService) DeletePoll(ctx context.Context, id string) (err error) {
	defer guard(&err)

	pollID, err := requireID(id, domain.MsgPollIDRequired)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, pollID, domain.ActorFrom(ctx)); err != nil {
		s.log.WithError(err).WithField("poll_id", pollID).Warn("failed to delete poll")
		return fail(err, domain.MsgDeletePollFailed)
	}

	s.cache.Invalidate(ctx, PollsPath)
	s.cache.Invalidate(ctx, PollPath(pollID))
	s.log.WithField("poll_id", pollID).Info("poll deleted")

	return nil
}

func (s *pollService) GetResults(ctx context.Context, id string) (results *domain.PollResults, err error) {
	defer guard(&err)

	pollID, err := requireID(id, domain.MsgPollIDRequired)
	if err != nil {
		return nil, err
	}

	results, err = s.store.GetResults(ctx, pollID)
	if err != nil {
		return nil, fail(err, domain.MsgResultsFailed)
	}
	return results, nil
}

package http

import (
	"context"
	"net/url"

	"github.com/stretchr/testify/mock"

	"github.com/vncsmyrnk/pollboard/internal/core/domain"
	"github.com/vncsmyrnk/pollboard/internal/core/ports"
)

type mockPollService struct {
	mock.Mock
}

func (m *mockPollService) CreatePoll(ctx context.Context, input domain.CreatePollInput, userID string) (*domain.Poll, error) {
	args := m.Called(ctx, input, userID)
	poll, _ := args.Get(0).(*domain.Poll)
	return poll, args.Error(1)
}

func (m *mockPollService) CreatePollFromForm(ctx context.Context, form url.Values, nav ports.Navigator) (*domain.Poll, error) {
	args := m.Called(ctx, form, nav)
	poll, _ := args.Get(0).(*domain.Poll)
	return poll, args.Error(1)
}

func (m *mockPollService) GetPoll(ctx context.Context, id string) (*domain.Poll, error) {
	args := m.Called(ctx, id)
	poll, _ := args.Get(0).(*domain.Poll)
	return poll, args.Error(1)
}

func (m *mockPollService) ListActivePolls(ctx context.Context, input ports.ListPollsInput) (*domain.Page[domain.Poll], error) {
	args := m.Called(ctx, input)
	page, _ := args.Get(0).(*domain.Page[domain.Poll])
	return page, args.Error(1)
}

func (m *mockPollService) ListUserPolls(ctx context.Context, userID string, input ports.ListPollsInput) (*domain.Page[domain.Poll], error) {
	args := m.Called(ctx, userID, input)
	page, _ := args.Get(0).(*domain.Page[domain.Poll])
	return page, args.Error(1)
}

func (m *mockPollService) UpdatePoll(ctx context.Context, id string, input domain.UpdatePollInput) (*domain.Poll, error) {
	args := m.Called(ctx, id, input)
	poll, _ := args.Get(0).(*domain.Poll)
	return poll, args.Error(1)
}

func (m *mockPollService) DeletePoll(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPollService) GetResults(ctx context.Context, id string) (*domain.PollResults, error) {
	args := m.Called(ctx, id)
	results, _ := args.Get(0).(*domain.PollResults)
	return results, args.Error(1)
}

type mockVoteService struct {
	mock.Mock
}

func (m *mockVoteService) Vote(ctx context.Context, input domain.CreateVoteInput) (*domain.Vote, error) {
	args := m.Called(ctx, input)
	vote, _ := args.Get(0).(*domain.Vote)
	return vote, args.Error(1)
}

func (m *mockVoteService) VoteFromForm(ctx context.Context, form url.Values) (*domain.Vote, error) {
	args := m.Called(ctx, form)
	vote, _ := args.Get(0).(*domain.Vote)
	return vote, args.Error(1)
}

func (m *mockVoteService) GetUserVotes(ctx context.Context, pollID, userID string) ([]domain.Vote, error) {
	args := m.Called(ctx, pollID, userID)
	votes, _ := args.Get(0).([]domain.Vote)
	return votes, args.Error(1)
}

func (m *mockVoteService) HasUserVoted(ctx context.Context, pollID, userID string) (bool, error) {
	args := m.Called(ctx, pollID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockVoteService) ListUserVotes(ctx context.Context, userID string, input ports.ListPollsInput) (*domain.Page[domain.Vote], error) {
	args := m.Called(ctx, userID, input)
	page, _ := args.Get(0).(*domain.Page[domain.Vote])
	return page, args.Error(1)
}

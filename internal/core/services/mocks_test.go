package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/vncsmyrnk/pollboard/internal/core/domain"
)

type mockPollStore struct {
	mock.Mock
}

func (m *mockPollStore) Create(ctx context.Context, input domain.CreatePollInput, ownerID uuid.NullUUID) (*domain.Poll, error) {
	args := m.Called(ctx, input, ownerID)
	poll, _ := args.Get(0).(*domain.Poll)
	return poll, args.Error(1)
}

func (m *mockPollStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	args := m.Called(ctx, id)
	poll, _ := args.Get(0).(*domain.Poll)
	return poll, args.Error(1)
}

func (m *mockPollStore) ListActive(ctx context.Context, page, limit int) (*domain.Page[domain.Poll], error) {
	args := m.Called(ctx, page, limit)
	p, _ := args.Get(0).(*domain.Page[domain.Poll])
	return p, args.Error(1)
}

func (m *mockPollStore) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) (*domain.Page[domain.Poll], error) {
	args := m.Called(ctx, userID, page, limit)
	p, _ := args.Get(0).(*domain.Page[domain.Poll])
	return p, args.Error(1)
}

func (m *mockPollStore) Update(ctx context.Context, id uuid.UUID, input domain.UpdatePollInput, ownerID uuid.NullUUID) (*domain.Poll, error) {
	args := m.Called(ctx, id, input, ownerID)
	poll, _ := args.Get(0).(*domain.Poll)
	return poll, args.Error(1)
}

func (m *mockPollStore) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.NullUUID) error {
	return m.Called(ctx, id, ownerID).Error(0)
}

func (m *mockPollStore) GetResults(ctx context.Context, id uuid.UUID) (*domain.PollResults, error) {
	args := m.Called(ctx, id)
	results, _ := args.Get(0).(*domain.PollResults)
	return results, args.Error(1)
}

type mockVoteStore struct {
	mock.Mock
}

func (m *mockVoteStore) Create(ctx context.Context, vote domain.NewVote) (*domain.Vote, error) {
	args := m.Called(ctx, vote)
	v, _ := args.Get(0).(*domain.Vote)
	return v, args.Error(1)
}

func (m *mockVoteStore) GetByPoll(ctx context.Context, pollID uuid.UUID) ([]domain.Vote, error) {
	args := m.Called(ctx, pollID)
	votes, _ := args.Get(0).([]domain.Vote)
	return votes, args.Error(1)
}

func (m *mockVoteStore) GetByPollAndUser(ctx context.Context, pollID, userID uuid.UUID) ([]domain.Vote, error) {
	args := m.Called(ctx, pollID, userID)
	votes, _ := args.Get(0).([]domain.Vote)
	return votes, args.Error(1)
}

func (m *mockVoteStore) GetByUser(ctx context.Context, userID uuid.UUID, page, limit int) (*domain.Page[domain.Vote], error) {
	args := m.Called(ctx, userID, page, limit)
	p, _ := args.Get(0).(*domain.Page[domain.Vote])
	return p, args.Error(1)
}

func (m *mockVoteStore) HasUserVoted(ctx context.Context, pollID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, pollID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockVoteStore) CountUserVotes(ctx context.Context, pollID, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, pollID, userID)
	return args.Int(0), args.Error(1)
}

// recordingCache remembers every invalidated path in order.
type recordingCache struct {
	mu    sync.Mutex
	paths []string
}

func (c *recordingCache) Invalidate(_ context.Context, path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = append(c.paths, path)
}

func (c *recordingCache) Paths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.paths...)
}

// recordingNavigator captures navigation instead of performing it, along with
// what the cache had seen at that moment.
type recordingNavigator struct {
	cache       *recordingCache
	target      string
	calls       int
	pathsAtCall []string
}

func (n *recordingNavigator) Navigate(_ context.Context, path string) {
	n.calls++
	n.target = path
	if n.cache != nil {
		n.pathsAtCall = n.cache.Paths()
	}
}

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/pollboard/internal/adapters/cache"
	"github.com/vncsmyrnk/pollboard/internal/core/domain"
	"github.com/vncsmyrnk/pollboard/internal/core/ports"
	"github.com/vncsmyrnk/pollboard/internal/core/services"
)

const testSecret = "test-secret"

type routerFixture struct {
	polls   *mockPollService
	votes   *mockVoteService
	cache   *cache.PageCache
	handler http.Handler
}

func newRouterFixture() *routerFixture {
	log, _ := test.NewNullLogger()
	f := &routerFixture{
		polls: &mockPollService{},
		votes: &mockVoteService{},
		cache: cache.NewPageCache(time.Minute, log),
	}
	f.handler = NewHandler(
		NewPollHandler(f.polls, f.cache),
		NewVoteHandler(f.votes),
		NewActorMiddleware(testSecret),
	)
	return f
}

func (f *routerFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func signToken(t *testing.T, subject string, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(15 * time.Minute).Unix(),
		"iat": time.Now().Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func TestHealth(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pollboard_polls_created_total")
}

func TestCreatePollJSON(t *testing.T) {
	f := newRouterFixture()
	created := &domain.Poll{ID: uuid.New(), Title: "Lunch"}
	input := domain.CreatePollInput{Title: "Lunch", Options: []string{"A", "B"}}
	f.polls.On("CreatePoll", mock.Anything, input, "").Return(created, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/polls", strings.NewReader(`{"title":"Lunch","options":["A","B"]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := f.do(req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var poll domain.Poll
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&poll))
	assert.Equal(t, created.ID, poll.ID)
	f.polls.AssertExpectations(t)
}

func TestCreatePollJSONValidationError(t *testing.T) {
	f := newRouterFixture()
	f.polls.On("CreatePoll", mock.Anything, mock.Anything, "").Return(nil, domain.NewValidationError(domain.MsgMinOptions))

	req := httptest.NewRequest(http.MethodPost, "/api/polls", strings.NewReader(`{"title":"Lunch","options":["A"]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := f.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, domain.MsgMinOptions, decodeError(t, rec))
}

func TestCreatePollFormRedirects(t *testing.T) {
	f := newRouterFixture()
	actor := uuid.New()
	pollID := uuid.New()

	f.polls.On("CreatePollFromForm", mock.Anything, mock.MatchedBy(func(form url.Values) bool {
		return form.Get("title") == "Lunch" && form.Get("user_id") == actor.String()
	}), mock.Anything).Run(func(args mock.Arguments) {
		args.Get(2).(ports.Navigator).Navigate(context.Background(), services.PollPath(pollID))
	}).Return(&domain.Poll{ID: pollID}, nil).Once()

	form := url.Values{"title": {"Lunch"}, "option_0": {"A"}, "option_1": {"B"}, "user_id": {uuid.NewString()}}
	req := httptest.NewRequest(http.MethodPost, "/api/polls", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+signToken(t, actor.String(), testSecret))
	rec := f.do(req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/polls/"+pollID.String(), rec.Header().Get("Location"))
	f.polls.AssertExpectations(t)
}

func TestCreatePollFormError(t *testing.T) {
	f := newRouterFixture()
	f.polls.On("CreatePollFromForm", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.NewValidationError(domain.MsgTitleRequired))

	req := httptest.NewRequest(http.MethodPost, "/api/polls", strings.NewReader("title="))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := f.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, domain.MsgTitleRequired, decodeError(t, rec))
}

func TestListPollsIsCachedUntilInvalidated(t *testing.T) {
	f := newRouterFixture()
	page := &domain.Page[domain.Poll]{Data: []domain.Poll{{ID: uuid.New(), Title: "Cached"}}, Count: 1, Page: 2, Limit: 10, TotalPages: 1}
	f.polls.On("ListActivePolls", mock.Anything, ports.ListPollsInput{Page: 2}).Return(page, nil).Twice()

	for i := 0; i < 2; i++ {
		rec := f.do(httptest.NewRequest(http.MethodGet, "/api/polls?page=2", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Cached")
	}
	f.polls.AssertNumberOfCalls(t, "ListActivePolls", 1)

	f.cache.Invalidate(context.Background(), services.PollsPath)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/polls?page=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	f.polls.AssertNumberOfCalls(t, "ListActivePolls", 2)
}

func TestGetPollCachedByDetailPath(t *testing.T) {
	f := newRouterFixture()
	id := uuid.New()
	f.polls.On("GetPoll", mock.Anything, id.String()).Return(&domain.Poll{ID: id}, nil).Once()

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/polls/"+id.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, ok := f.cache.Get(services.PollPath(id))
	require.True(t, ok)
	assert.Contains(t, string(body), id.String())

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/polls/"+id.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	f.polls.AssertExpectations(t)
}

func TestGetPollNotFound(t *testing.T) {
	f := newRouterFixture()
	id := uuid.New()
	f.polls.On("GetPoll", mock.Anything, id.String()).Return(nil, domain.NewNotFoundError(domain.MsgPollNotFound))

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/polls/"+id.String(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, domain.MsgPollNotFound, decodeError(t, rec))
	assert.Zero(t, f.cache.Len())
}

func TestUpdatePollNormalizesForm(t *testing.T) {
	f := newRouterFixture()
	id := uuid.New()
	f.polls.On("UpdatePoll", mock.Anything, id.String(), mock.MatchedBy(func(in domain.UpdatePollInput) bool {
		return len(in.Fields()) == 1 && in.Description.IsClear()
	})).Return(&domain.Poll{ID: id}, nil).Once()

	form := url.Values{"title": {" "}, "description": {""}, "expires_at": {""}}
	req := httptest.NewRequest(http.MethodPatch, "/api/polls/"+id.String(), strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := f.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	f.polls.AssertExpectations(t)
}

func TestDeletePoll(t *testing.T) {
	f := newRouterFixture()
	id := uuid.New()
	f.polls.On("DeletePoll", mock.Anything, id.String()).Return(nil).Once()

	rec := f.do(httptest.NewRequest(http.MethodDelete, "/api/polls/"+id.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestDeletePollStoreError(t *testing.T) {
	f := newRouterFixture()
	id := uuid.New()
	f.polls.On("DeletePoll", mock.Anything, id.String()).Return(domain.NewStoreError(domain.MsgDeletePollFailed, nil))

	rec := f.do(httptest.NewRequest(http.MethodDelete, "/api/polls/"+id.String(), nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, domain.MsgDeletePollFailed, decodeError(t, rec))
}

func TestGetResults(t *testing.T) {
	f := newRouterFixture()
	id := uuid.New()
	f.polls.On("GetResults", mock.Anything, id.String()).Return(&domain.PollResults{TotalVotes: 3}, nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/polls/"+id.String()+"/results", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_votes":3`)
}

func TestVoteOnPollJSONUsesActor(t *testing.T) {
	f := newRouterFixture()
	pollID := uuid.New()
	optionID := uuid.New()
	actor := uuid.New()

	expected := domain.CreateVoteInput{
		PollID:   pollID.String(),
		OptionID: optionID.String(),
		UserID:   actor.String(),
		VoterIP:  "192.0.2.1",
	}
	f.votes.On("Vote", mock.Anything, expected).Return(&domain.Vote{ID: uuid.New()}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/polls/"+pollID.String()+"/votes", strings.NewReader(`{"option_id":"`+optionID.String()+`","poll_id":"ignored"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "access_token", Value: signToken(t, actor.String(), testSecret)})
	rec := f.do(req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	f.votes.AssertExpectations(t)
}

func TestVoteOnPollForm(t *testing.T) {
	f := newRouterFixture()
	pollID := uuid.New()
	optionID := uuid.New()

	f.votes.On("VoteFromForm", mock.Anything, mock.MatchedBy(func(form url.Values) bool {
		return form.Get("poll_id") == pollID.String() && form.Get("option_id") == optionID.String() && form.Get("voter_ip") == "192.0.2.1"
	})).Return(nil, domain.NewConflictError(domain.MsgAlreadyVoted)).Once()

	form := url.Values{"option_id": {optionID.String()}}
	req := httptest.NewRequest(http.MethodPost, "/api/polls/"+pollID.String()+"/votes", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := f.do(req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, domain.MsgAlreadyVoted, decodeError(t, rec))
	f.votes.AssertExpectations(t)
}

func TestInvalidTokenIsRejected(t *testing.T) {
	f := newRouterFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/polls/"+uuid.NewString()+"/votes", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signToken(t, uuid.NewString(), "other-secret"))
	rec := f.do(req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	f.votes.AssertNotCalled(t, "Vote", mock.Anything, mock.Anything)
}

func TestMyVotesFallsBackToQueryUser(t *testing.T) {
	f := newRouterFixture()
	pollID := uuid.New()
	userID := uuid.New()
	votes := []domain.Vote{{ID: uuid.New(), PollID: pollID}}
	f.votes.On("GetUserVotes", mock.Anything, pollID.String(), userID.String()).Return(votes, nil).Once()

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/polls/"+pollID.String()+"/votes/me?user_id="+userID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []domain.Vote
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Len(t, got, 1)
}

func TestHasVoted(t *testing.T) {
	f := newRouterFixture()
	pollID := uuid.New()
	actor := uuid.New()
	f.votes.On("HasUserVoted", mock.Anything, pollID.String(), actor.String()).Return(true, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/polls/"+pollID.String()+"/voted", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, actor.String(), testSecret))
	rec := f.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"voted":true}`, rec.Body.String())
}

func TestUserListings(t *testing.T) {
	f := newRouterFixture()
	userID := uuid.New()
	f.polls.On("ListUserPolls", mock.Anything, userID.String(), ports.ListPollsInput{Page: 1, Limit: 5}).
		Return(&domain.Page[domain.Poll]{Page: 1, Limit: 5}, nil).Once()
	f.votes.On("ListUserVotes", mock.Anything, userID.String(), ports.ListPollsInput{}).
		Return(&domain.Page[domain.Vote]{Page: 1, Limit: 10}, nil).Once()

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/users/"+userID.String()+"/polls?page=1&limit=5", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/users/"+userID.String()+"/votes", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/users/"+userID.String()+"/polls?page=first", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.polls.AssertExpectations(t)
	f.votes.AssertExpectations(t)
}

func TestGetPollNotCachedWhenInvalidatedDuringRead(t *testing.T) {
	f := newRouterFixture()
	id := uuid.New()
	f.polls.On("GetPoll", mock.Anything, id.String()).Run(func(mock.Arguments) {
		f.cache.Invalidate(context.Background(), services.PollPath(id))
	}).Return(&domain.Poll{ID: id}, nil).Twice()

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/polls/"+id.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	_, ok := f.cache.Get(services.PollPath(id))
	assert.False(t, ok)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/polls/"+id.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	f.polls.AssertNumberOfCalls(t, "GetPoll", 2)
}

package http

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vncsmyrnk/pollboard/internal/core/domain"
	"github.com/vncsmyrnk/pollboard/internal/core/forms"
	"github.com/vncsmyrnk/pollboard/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

// VoteOnPoll takes the poll from the path, the option from a JSON or form body
// and the voter from the access token when there is one.
func (h *VoteHandler) VoteOnPoll(w http.ResponseWriter, r *http.Request) {
	var (
		vote *domain.Vote
		err  error
	)
	if isJSON(r) {
		vote, err = h.voteFromJSON(r)
	} else {
		vote, err = h.voteFromForm(r)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	votesCast.Inc()

	writeJSON(w, http.StatusCreated, vote)
}

func (h *VoteHandler) voteFromJSON(r *http.Request) (*domain.Vote, error) {
	var input domain.CreateVoteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return nil, domain.NewValidationError("invalid request body")
	}

	input.PollID = chi.URLParam(r, "id")
	input.VoterIP = remoteIP(r)
	if actor := domain.ActorFrom(r.Context()); actor.Valid {
		input.UserID = actor.UUID.String()
	}

	return h.service.Vote(r.Context(), input)
}

func (h *VoteHandler) voteFromForm(r *http.Request) (*domain.Vote, error) {
	form, err := parseForm(r)
	if err != nil {
		return nil, domain.NewValidationError("invalid form body")
	}

	form.Set(forms.FieldPollID, chi.URLParam(r, "id"))
	form.Set(forms.FieldVoterIP, remoteIP(r))
	if actor := domain.ActorFrom(r.Context()); actor.Valid {
		form.Set(forms.FieldUserID, actor.UUID.String())
	}

	return h.service.VoteFromForm(r.Context(), form)
}

func (h *VoteHandler) GetMyVotes(w http.ResponseWriter, r *http.Request) {
	votes, err := h.service.GetUserVotes(r.Context(), chi.URLParam(r, "id"), requestUser(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, votes)
}

func (h *VoteHandler) HasVoted(w http.ResponseWriter, r *http.Request) {
	voted, err := h.service.HasUserVoted(r.Context(), chi.URLParam(r, "id"), requestUser(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"voted": voted})
}

func (h *VoteHandler) ListUserVotes(w http.ResponseWriter, r *http.Request) {
	var input ports.ListPollsInput
	if err := forms.Decode(&input, r.URL.Query()); err != nil {
		writeError(w, err)
		return
	}

	page, err := h.service.ListUserVotes(r.Context(), chi.URLParam(r, "userID"), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// requestUser prefers the authenticated actor over the user_id query
// parameter.
func requestUser(r *http.Request) string {
	if actor := domain.ActorFrom(r.Context()); actor.Valid {
		return actor.UUID.String()
	}
	return r.URL.Query().Get(forms.FieldUserID)
}

func remoteIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vncsmyrnk/pollboard/internal/core/domain"
	"github.com/vncsmyrnk/pollboard/internal/core/forms"
	"github.com/vncsmyrnk/pollboard/internal/core/ports"
	"github.com/vncsmyrnk/pollboard/internal/core/services"
)

const maxFormMemory = 1 << 20

// ResponseCache holds rendered GET responses; see cache.PageCache.
type ResponseCache interface {
	Get(key string) ([]byte, bool)
	Generation() uint64
	SetIfCurrent(key string, body []byte, gen uint64) bool
}

type PollHandler struct {
	service ports.PollService
	cache   ResponseCache
}

func NewPollHandler(service ports.PollService, cache ResponseCache) *PollHandler {
	return &PollHandler{
		service: service,
		cache:   cache,
	}
}

// CreatePoll accepts either a JSON body, answered with 201 and the poll, or a
// form submission, answered with a redirect to the new poll.
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	if isJSON(r) {
		h.createPollFromJSON(w, r)
		return
	}

	form, err := parseForm(r)
	if err != nil {
		writeError(w, domain.NewValidationError("invalid form body"))
		return
	}
	if actor := domain.ActorFrom(r.Context()); actor.Valid {
		form.Set(forms.FieldUserID, actor.UUID.String())
	}

	if _, err := h.service.CreatePollFromForm(r.Context(), form, &redirectNavigator{w: w, r: r}); err != nil {
		writeError(w, err)
		return
	}
	pollsCreated.Inc()
}

func (h *PollHandler) createPollFromJSON(w http.ResponseWriter, r *http.Request) {
	var input domain.CreatePollInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, domain.NewValidationError("invalid request body"))
		return
	}

	userID := ""
	if actor := domain.ActorFrom(r.Context()); actor.Valid {
		userID = actor.UUID.String()
	}

	poll, err := h.service.CreatePoll(r.Context(), input, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	pollsCreated.Inc()

	writeJSON(w, http.StatusCreated, poll)
}

func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	key := pageKey(services.PollsPath, r.URL.Query())
	if h.serveCached(w, key) {
		return
	}
	gen := h.generation()

	var input ports.ListPollsInput
	if err := forms.Decode(&input, r.URL.Query()); err != nil {
		writeError(w, err)
		return
	}

	page, err := h.service.ListActivePolls(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	h.writeCached(w, key, gen, page)
}

func (h *PollHandler) ListUserPolls(w http.ResponseWriter, r *http.Request) {
	var input ports.ListPollsInput
	if err := forms.Decode(&input, r.URL.Query()); err != nil {
		writeError(w, err)
		return
	}

	page, err := h.service.ListUserPolls(r.Context(), chi.URLParam(r, "userID"), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	key := ""
	if pollID, err := uuid.Parse(id); err == nil {
		key = services.PollPath(pollID)
	}
	if h.serveCached(w, key) {
		return
	}
	gen := h.generation()

	poll, err := h.service.GetPoll(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	h.writeCached(w, key, gen, poll)
}

func (h *PollHandler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
	form, err := parseForm(r)
	if err != nil {
		writeError(w, domain.NewValidationError("invalid form body"))
		return
	}

	poll, err := h.service.UpdatePoll(r.Context(), chi.URLParam(r, "id"), forms.NormalizeUpdate(form))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, poll)
}

func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePoll(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *PollHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.GetResults(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

func (h *PollHandler) serveCached(w http.ResponseWriter, key string) bool {
	if h.cache == nil || key == "" {
		return false
	}
	body, ok := h.cache.Get(key)
	if !ok {
		pageCacheLookups.WithLabelValues("miss").Inc()
		return false
	}
	pageCacheLookups.WithLabelValues("hit").Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
	return true
}

func (h *PollHandler) generation() uint64 {
	if h.cache == nil {
		return 0
	}
	return h.cache.Generation()
}

// writeCached renders v and caches it unless the cache was invalidated after
// gen was read.
func (h *PollHandler) writeCached(w http.ResponseWriter, key string, gen uint64, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	if h.cache != nil && key != "" {
		h.cache.SetIfCurrent(key, buf.Bytes(), gen)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func pageKey(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// parseForm returns only the body values, so query parameters can never stand
// in for form fields.
func parseForm(r *http.Request) (url.Values, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, err
		}
		return r.PostForm, nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return r.PostForm, nil
}

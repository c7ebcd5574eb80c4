package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/pollboard/internal/core/domain"
)

func (app *TestApp) url(format string, args ...interface{}) string {
	return app.Server.URL + fmt.Sprintf(format, args...)
}

func (app *TestApp) send(t *testing.T, method, target string, body io.Reader, contentType, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, target, body)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	return resp
}

func (app *TestApp) sendJSON(t *testing.T, method, target string, payload interface{}, token string) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return app.send(t, method, target, bytes.NewReader(body), "application/json", token)
}

func (app *TestApp) sendForm(t *testing.T, method, target string, form url.Values, token string) *http.Response {
	t.Helper()
	return app.send(t, method, target, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", token)
}

func (app *TestApp) createPoll(t *testing.T, payload map[string]interface{}, token string) domain.Poll {
	t.Helper()

	resp := app.sendJSON(t, http.MethodPost, app.url("/api/polls"), payload, token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var poll domain.Poll
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&poll))
	return poll
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

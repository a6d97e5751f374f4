package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpapi "github.com/meetcore/authority/internal/authority/http"

	"github.com/meetcore/authority/internal/authority/domain"
	"github.com/meetcore/authority/internal/authority/focus/memory"
	"github.com/meetcore/authority/internal/authority/service"
	"github.com/meetcore/authority/pkg/authoritysdk"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, focusSecret string) (*httpapi.Router, *service.Authority, *memory.Manager) {
	t.Helper()

	cfg, err := domain.NewAuthorityConfig(
		"https://idp.example.net/auth?token=%s",
		"lobby",
		time.Minute,
		30*time.Second,
		time.Hour,
	)
	require.NoError(t, err)

	authority, err := service.New(cfg, nil)
	require.NoError(t, err)

	focusManager := memory.New()
	authority.Start(focusManager)
	t.Cleanup(authority.Stop)

	router := httpapi.NewRouter(authority, focusManager, focusSecret, "test", nil)
	router.ApplyRoutes()
	return router, authority, focusManager
}

func TestIssueURLEndpoint(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestRouter(t, "")

	t.Run("issues a url for a valid request", func(t *testing.T) {
		body := `{"participant_address":"alice@example.net","room_name":"room@conference.example"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/issue-url", strings.NewReader(body))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp authoritysdk.IssueURLResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Contains(t, resp.URL, "https://idp.example.net/auth?token=")
	})

	t.Run("rejects an empty participant address", func(t *testing.T) {
		body := `{"participant_address":"","room_name":"room@conference.example"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/issue-url", strings.NewReader(body))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp authoritysdk.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, authoritysdk.ErrorCodeEmptyParticipant, resp.Error)
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/issue-url", strings.NewReader("not json"))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCallbackEndpoint(t *testing.T) {
	t.Parallel()

	router, authority, _ := newTestRouter(t, "")

	url, err := authority.IssueURL("alice@example.net", "room@conference.example")
	require.NoError(t, err)
	token := url[len("https://idp.example.net/auth?token="):]

	t.Run("rejects an unknown token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/callback?token=bogus&identity=alice@idp.example", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("accepts a valid token exactly once", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/callback?token="+token+"&identity=alice@idp.example", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		req2 := httptest.NewRequest(http.MethodPost, "/v1/callback?token="+token+"&identity=alice@idp.example", nil)
		rec2 := httptest.NewRecorder()
		router.ServeHTTP(rec2, req2)
		require.Equal(t, http.StatusUnauthorized, rec2.Code)
	})
}

func TestPolicyEndpoints(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestRouter(t, "")

	t.Run("can-create-room allows a reserved room for anyone", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet,
			"/v1/policy/can-create-room?participant_address=stranger@example.net&room_name=lobby@conference.example", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp authoritysdk.PolicyResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.True(t, resp.Allowed)
	})

	t.Run("is-authenticated is false for an address with no state", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet,
			"/v1/policy/is-authenticated?participant_address=nobody@example.net&room_name=room@conference.example", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp authoritysdk.PolicyResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.False(t, resp.Allowed)
	})
}

func TestFocusControlEndpoint(t *testing.T) {
	t.Parallel()

	router, authority, _ := newTestRouter(t, "s3cret")

	t.Run("rejects requests without the focus secret", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/v1/focus/rooms/room1@conference.example", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("creates and destroys a room with a valid secret", func(t *testing.T) {
		createReq := httptest.NewRequest(http.MethodPut, "/v1/focus/rooms/room1@conference.example", nil)
		createReq.Header.Set("X-Focus-Secret", "s3cret")
		createRec := httptest.NewRecorder()
		router.ServeHTTP(createRec, createReq)
		require.Equal(t, http.StatusNoContent, createRec.Code)

		issueURL, err := authority.IssueURL("bob@example.net", "room1@conference.example")
		require.NoError(t, err)
		token := issueURL[len("https://idp.example.net/auth?token="):]
		require.True(t, authority.Authenticate(token, "bob@idp.example"))
		require.True(t, authority.IsUserAuthenticated("bob@example.net", "room1@conference.example"))

		destroyReq := httptest.NewRequest(http.MethodDelete, "/v1/focus/rooms/room1@conference.example", nil)
		destroyReq.Header.Set("X-Focus-Secret", "s3cret")
		destroyRec := httptest.NewRecorder()
		router.ServeHTTP(destroyRec, destroyReq)
		require.Equal(t, http.StatusNoContent, destroyRec.Code)

		require.False(t, authority.IsUserAuthenticated("bob@example.net", "room1@conference.example"))
	})
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestRouter(t, "")

	t.Run("livez always reports ok", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/livez", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("readyz reports ok once the authority is started", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})
}

package linksdk

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorMatchesByCode(t *testing.T) {
	decoded := &APIError{StatusCode: http.StatusNotFound, Code: ErrorCodeUnknownToken, Description: "whatever"}

	require.ErrorIs(t, decoded, ErrUnknownToken)
	require.NotErrorIs(t, decoded, ErrUserNotFound)
	require.False(t, errors.Is(decoded, errors.New(ErrorCodeUnknownToken)))
}

func TestWriteErrorRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "tok", r.PostForm.Get("start_token"))
		assert.Equal(t, "777", r.PostForm.Get("external_id"))
		ErrTokenConflict.WriteError(w)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL+"/").Register(t.Context(), "tok", 777)
	require.ErrorIs(t, err, ErrTokenConflict)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.StatusCode)
	require.Equal(t, ErrTokenConflict.Description, apiErr.Description)
}

func TestNonJSONErrorKeepsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Lookup(t.Context(), 1)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Equal(t, ErrorCodeServerError, apiErr.Code)
}

func TestAdminRequestsCarryToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get(AdminTokenHeader))
		assert.Equal(t, "/v1/admin/users/a%20b", r.URL.EscapedPath())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":3,"name":"a b","role":"user"}`))
	}))
	defer srv.Close()

	entry, err := NewClient(srv.URL, WithAdminToken("secret")).DeleteUser(t.Context(), "a b")
	require.NoError(t, err)
	require.Equal(t, int64(3), entry.ID)
	require.Nil(t, entry.ExternalID)
}

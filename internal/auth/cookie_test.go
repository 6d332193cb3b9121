package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issuedCookie(t *testing.T, issue func(http.ResponseWriter)) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	issue(rec)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestIssueSessionCookie(t *testing.T) {
	c := issuedCookie(t, func(w http.ResponseWriter) {
		IssueSessionCookie(w, "signed-token", time.Hour)
	})

	assert.Equal(t, SessionCookieName, c.Name)
	assert.Equal(t, "signed-token", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Expires.After(time.Now()), "issued cookie must expire in the future")
}

func TestRevokeSessionCookie(t *testing.T) {
	c := issuedCookie(t, RevokeSessionCookie)

	assert.Equal(t, SessionCookieName, c.Name)
	assert.Empty(t, c.Value)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.False(t, c.Expires.After(time.Unix(0, 0)), "revoked cookie must already be expired")
}

func TestReadSessionCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/me", nil)
	_, err := ReadSessionCookie(r)
	assert.ErrorIs(t, err, ErrUnauthenticated, "missing cookie")

	r = httptest.NewRequest(http.MethodGet, "/me", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: ""})
	_, err = ReadSessionCookie(r)
	assert.ErrorIs(t, err, ErrUnauthenticated, "empty cookie")

	r = httptest.NewRequest(http.MethodGet, "/me", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok"})
	token, err := ReadSessionCookie(r)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
}

// Issue then read through a real response/request pair, then verify the token.
func TestSessionCookie_issueReadVerify(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)
	token, err := svc.Sign(uuid.New(), "BUYER")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	IssueSessionCookie(rec, token, time.Hour)

	r := httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}

	got, err := ReadSessionCookie(r)
	require.NoError(t, err)
	claims, err := svc.Verify(got)
	require.NoError(t, err)
	assert.Equal(t, "BUYER", string(claims.Role))
}

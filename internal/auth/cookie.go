package auth

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "token"

// IssueSessionCookie attaches a signed session token to the response. The
// cookie spans the whole path space and is hidden from script contexts.
func IssueSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl / time.Second),
	})
}

// RevokeSessionCookie overwrites the session cookie with an empty value that
// expired at the Unix epoch, so compliant clients drop it immediately.
// Logout is overwrite, not a server-side denylist.
func RevokeSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

// ReadSessionCookie extracts the raw session token from the request, or
// ErrUnauthenticated if the cookie is missing or empty. The caller verifies
// the token itself; every failure mode looks the same from outside.
func ReadSessionCookie(r *http.Request) (string, error) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil || c.Value == "" {
		return "", ErrUnauthenticated
	}
	return c.Value, nil
}

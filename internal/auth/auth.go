// Package auth gates administrative routes behind the single static admin
// credential pair. The session token is a deterministic, reversible
// encoding of that pair carried in a cookie, a deliberately weak scheme
// inherited from the deployment this service replaces; anyone able to read
// the token can forge a session. See DESIGN.md for the hardening note.
package auth

import (
	"encoding/base64"
	"net/http"

	"github.com/zaocat/Purrfit/pkg/domain"
)

// CookieName is the fixed session cookie name.
const CookieName = "cat_session"

// CookieMaxAge is the fixed session lifetime: 7 days.
const CookieMaxAge = 7 * 24 * 60 * 60

// Authenticator validates the static admin credentials and the session
// cookie derived from them.
type Authenticator struct {
	user string
	pass string
}

// New constructs an authenticator for the configured admin identity.
func New(user, pass string) *Authenticator {
	return &Authenticator{user: user, pass: pass}
}

func (a *Authenticator) token() string {
	return base64.StdEncoding.EncodeToString([]byte(a.user + ":" + a.pass))
}

// Login returns the session token iff both fields exactly match the
// configured credentials.
func (a *Authenticator) Login(user, pass string) (string, error) {
	if user != a.user || pass != a.pass {
		return "", domain.ErrInvalidCredentials
	}
	return a.token(), nil
}

// Validate reports whether the cookie value matches the expected token.
func (a *Authenticator) Validate(cookieValue string) bool {
	return cookieValue != "" && cookieValue == a.token()
}

// SessionCookie builds the Set-Cookie value for a successful login.
func (a *Authenticator) SessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   CookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie builds the immediately-expiring cookie set on logout.
func (a *Authenticator) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// IsAuthenticated inspects a request's cookies for a valid session.
func (a *Authenticator) IsAuthenticated(r *http.Request) bool {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return false
	}
	return a.Validate(c.Value)
}

package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

const minCookiePasswordLength = 32

// sessionCookie carries the signed session id.
type sessionCookie struct {
	name   string
	codec  *securecookie.SecureCookie
	secure bool
	ttl    time.Duration
}

func newSessionCookie(opts CookieOptions) (*sessionCookie, error) {
	if len(opts.Password) < minCookiePasswordLength {
		return nil, errors.New("web: cookie password must be at least 32 characters")
	}
	name := opts.Name
	if name == "" {
		name = "backoffice_session"
	}
	codec := securecookie.New([]byte(opts.Password), nil)
	codec.MaxAge(int(opts.TTL.Seconds()))
	return &sessionCookie{name: name, codec: codec, secure: opts.Secure, ttl: opts.TTL}, nil
}

func (c *sessionCookie) write(w http.ResponseWriter, sessionID string) error {
	encoded, err := c.codec.Encode(c.name, sessionID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// read returns the session id, or "" when the cookie is absent or was not
// signed by this server.
func (c *sessionCookie) read(r *http.Request) string {
	cookie, err := r.Cookie(c.name)
	if err != nil {
		return ""
	}
	var sessionID string
	if err := c.codec.Decode(c.name, cookie.Value, &sessionID); err != nil {
		return ""
	}
	return sessionID
}

func (c *sessionCookie) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

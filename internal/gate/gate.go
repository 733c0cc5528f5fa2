// Package gate checks the shared access secret before any data is fetched.
// It is a placeholder access check, not an authentication system.
package gate

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/ceirr/sample-dashboard/internal/pkg/httputil"
	"github.com/ceirr/sample-dashboard/internal/pkg/logger"
)

// HeaderName carries the secret on API requests.
const HeaderName = "X-Access-Password"

// FormField carries the secret on form posts.
const FormField = "password"

// DeniedMessage is shown whenever the secret is wrong or absent.
const DeniedMessage = "Please enter the correct password to access data."

// ErrInvalidSecret is returned for a wrong or absent secret.
var ErrInvalidSecret = errors.New("invalid access password")

// Gate compares a presented secret with the configured one.
type Gate struct {
	secret []byte
}

// New returns a Gate for secret. An empty secret denies everything.
func New(secret string) *Gate {
	return &Gate{secret: []byte(secret)}
}

// Check returns nil when presented matches the configured secret.
func (g *Gate) Check(presented string) error {
	if len(g.secret) == 0 || presented == "" {
		return ErrInvalidSecret
	}
	if subtle.ConstantTimeCompare([]byte(presented), g.secret) != 1 {
		return ErrInvalidSecret
	}
	return nil
}

// FromRequest returns the secret from the header, falling back to the form.
func FromRequest(r *http.Request) string {
	if v := r.Header.Get(HeaderName); v != "" {
		return v
	}
	return r.PostFormValue(FormField)
}

// RequireSecret is middleware for JSON endpoints: requests without the
// correct secret get a 401 and never reach next.
func (g *Gate) RequireSecret(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := g.Check(FromRequest(r)); err != nil {
			logger.Warn("gate: request denied", "path", r.URL.Path, "remote", r.RemoteAddr)
			httputil.Unauthorized(w, DeniedMessage)
			return
		}
		next.ServeHTTP(w, r)
	})
}

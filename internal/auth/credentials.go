package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AccessTokenCookieName carries the identity-provider access token for page requests.
const AccessTokenCookieName = "access_token"

// CredentialSource exposes the raw credentials attached to one request. Empty strings
// mean the credential is absent.
type CredentialSource interface {
	IdentityCredential() string
	SessionCredential() string
}

// StaticCredentials is a CredentialSource over fixed values.
type StaticCredentials struct {
	Identity string
	Session  string
}

func (s StaticCredentials) IdentityCredential() string { return s.Identity }
func (s StaticCredentials) SessionCredential() string  { return s.Session }

type fiberCredentials struct {
	c *fiber.Ctx
}

// FiberCredentials reads the bearer header (falling back to the access token cookie)
// and the department session cookie from a fiber request.
func FiberCredentials(c *fiber.Ctx) CredentialSource {
	return fiberCredentials{c: c}
}

func (f fiberCredentials) IdentityCredential() string {
	if header := f.c.Get(fiber.HeaderAuthorization); header != "" {
		scheme, value, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		return strings.TrimSpace(value)
	}
	return f.c.Cookies(AccessTokenCookieName)
}

func (f fiberCredentials) SessionCredential() string {
	return f.c.Cookies(SessionCookieName)
}

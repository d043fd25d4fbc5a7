package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/scrabless/scrabless-server/internal/auth"
)

// contextKeyIdentity is the gin context key holding the resolved identity.
const contextKeyIdentity = "identity"

// credentialCookie is the cookie carrying the signed session credential.
const credentialCookie = "userToken"

// IdentityFrom returns the identity the resolver attached to the request.
func IdentityFrom(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(contextKeyIdentity)
	if !ok {
		return auth.Identity{}, false
	}
	identity, ok := v.(auth.Identity)
	return identity, ok
}

// IdentityMiddleware resolves the session cookie. A missing or invalid
// credential on the HTTP path is not fatal: a fresh identity is minted and
// re-issued as an HttpOnly SameSite=Lax cookie. Downstream handlers always
// see a validated identity.
func IdentityMiddleware(resolver *auth.Service, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(credentialCookie)
		if err == nil {
			identity, resolveErr := resolver.Resolve(token)
			if resolveErr == nil {
				c.Set(contextKeyIdentity, identity)
				c.Next()
				return
			}
			if !errors.Is(resolveErr, auth.ErrNoCredential) {
				logger.Debug().Err(resolveErr).Msg("invalid credential, reissuing")
			}
		}

		identity, fresh, mintErr := resolver.Mint()
		if mintErr != nil {
			logger.Error().Err(mintErr).Msg("failed to mint identity")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
			c.Abort()
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(credentialCookie, fresh, resolver.TokenTTLSeconds(), "/", "", false, true)
		c.Set(contextKeyIdentity, identity)

		logger.Info().Str("user_id", identity.ID).Str("name", identity.Name).Msg("minted new identity")
		c.Next()
	}
}

// CORSMiddleware allows the configured browser origin with credentials.
func CORSMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", allowedOrigin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

// LoggerMiddleware creates a middleware that logs HTTP requests.
func LoggerMiddleware(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("http request")
	}
}

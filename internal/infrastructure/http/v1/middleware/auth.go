package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	appctx "rbadmin/internal/core/context"
	"rbadmin/pkg/logger"
)

// TokenCookie is the cookie the admin login flow stores the bearer token in.
const TokenCookie = "rb_admin_token"

// Session attaches the admin's bearer token to the request context.
//
// The token is read from the TokenCookie cookie, falling back to an
// Authorization header. It is never verified here: the admin API verifies it on
// every forwarded call and answers 401 when it is missing or expired. The
// subject is decoded only to attribute log lines.
//
// Requests without a token pass through; loads then come back empty.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		s := &appctx.Session{Token: token, Subject: tokenSubject(token)}
		if s.Subject == "" {
			logger.Debug(c.Request.Context(), "admin token has no readable subject")
		}
		c.Request = c.Request.WithContext(appctx.WithSession(c.Request.Context(), s))
		c.Set("admin", s.Subject)

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if v, err := c.Cookie(TokenCookie); err == nil && v != "" {
		return v
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// tokenSubject returns the `sub` claim of a JWT, or "" for opaque tokens.
func tokenSubject(token string) string {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return ""
	}
	return claims.Subject
}

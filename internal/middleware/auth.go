package middleware

import (
	"net/http"
	"strings"

	"qaboard/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const CheckUserKey = "user"

// TokenCookie 会话 token 所在的 cookie 名
const TokenCookie = "token"

// TokenParser is the part of the auth service the middleware needs.
type TokenParser interface {
	ParseToken(tokenString string) (*services.Claims, error)
}

// tokensFromRequest 依次返回 cookie 和 Authorization: Bearer 中的 token
func tokensFromRequest(c *gin.Context) []string {
	tokens := make([]string, 0, 2)
	if token, err := c.Cookie(TokenCookie); err == nil && token != "" {
		tokens = append(tokens, token)
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		if token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// claimsFromRequest returns the claims of the first token that parses. A
// stale cookie does not shadow a valid Bearer header. found is false when
// the request carries no token at all.
func claimsFromRequest(c *gin.Context, auth TokenParser) (claims *services.Claims, found bool, err error) {
	tokens := tokensFromRequest(c)
	for _, token := range tokens {
		claims, err = auth.ParseToken(token)
		if err == nil {
			return claims, true, nil
		}
	}
	return nil, len(tokens) > 0, err
}

// AuthRequired ensures a valid token is present
func AuthRequired(auth TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		// LoadUser 已经解析过
		if _, ok := CurrentClaims(c); ok {
			c.Next()
			return
		}
		claims, found, err := claimsFromRequest(c, auth)
		if !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			return
		}
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Debug().Err(err).Msg("rejected token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}
		c.Set(CheckUserKey, claims)
		c.Next()
	}
}

// LoadUser retrieves claims from the token if present, never aborts
func LoadUser(auth TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, _, err := claimsFromRequest(c, auth); err == nil && claims != nil {
			c.Set(CheckUserKey, claims)
		}
		c.Next()
	}
}

// CurrentClaims returns the claims set by AuthRequired or LoadUser.
func CurrentClaims(c *gin.Context) (*services.Claims, bool) {
	v, ok := c.Get(CheckUserKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*services.Claims)
	return claims, ok
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/Monikarana27/ChatBud/utils"
	"github.com/gin-gonic/gin"
)

// SessionCookie carries the signed identity token between requests.
const SessionCookie = "chatbud_token"

// TokenFromRequest extracts the identity token from the session cookie or,
// failing that, an Authorization bearer header.
func TokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// CurrentUserID resolves the authenticated user for a request, if any.
func CurrentUserID(c *gin.Context, secret string) (uint, bool) {
	token := TokenFromRequest(c)
	if token == "" {
		return 0, false
	}
	userID, err := utils.ParseToken(token, secret)
	if err != nil {
		return 0, false
	}
	return userID, true
}

// JWTAuth guards API routes. Unauthenticated requests get a 401 and never
// reach the handler.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c, secret)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Not authenticated"})
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}

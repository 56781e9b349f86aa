package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CallerIDHeader carries the acting user's id. There is no authentication
// layer in front of it; the platform trusts the gateway to have resolved the
// caller.
const CallerIDHeader = "X-Sharer-User-Id"

const ctxCallerIDKey = "caller_id"

// RequireCallerID rejects requests without a well-formed caller id header.
// Whether the user actually exists is checked by the usecases, which own the
// not-found semantics.
func RequireCallerID() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(CallerIDHeader)
		if raw == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": gin.H{"message": "missing " + CallerIDHeader + " header"},
			})
			c.Abort()
			return
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": gin.H{"message": "invalid " + CallerIDHeader + " header"},
			})
			c.Abort()
			return
		}

		c.Set(ctxCallerIDKey, id)
		c.Next()
	}
}

func GetCallerID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ctxCallerIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := v.(uuid.UUID)
	return id, ok
}

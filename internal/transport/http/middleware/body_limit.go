package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recipesnap/internal/transport/http/response"
)

// BodyLimit rejects POST requests whose declared length exceeds maxBytes
// and caps the body of the rest, so chunked uploads cannot slip past.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	detail := response.TooLargeDetail(maxBytes)
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost || maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			response.Abort(c, http.StatusRequestEntityTooLarge, detail)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

package response

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

const ModelsNotReadyDetail = "Models are still loading. Please try again in a moment."

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(200, data)
}

func Error(c *gin.Context, httpStatus int, detail string) {
	c.JSON(httpStatus, ErrorResponse{Detail: detail})
}

// Abort writes the error and stops the handler chain.
func Abort(c *gin.Context, httpStatus int, detail string) {
	c.AbortWithStatusJSON(httpStatus, ErrorResponse{Detail: detail})
}

func TooLargeDetail(maxBytes int64) string {
	return fmt.Sprintf("File too large. Maximum size allowed is %.1fMB", float64(maxBytes)/1024/1024)
}

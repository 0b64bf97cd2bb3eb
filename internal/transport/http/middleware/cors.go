package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the configured browser origins with credentials. An empty
// list or "*" opens every origin, without credentials.
//
// Browsers do not treat "*" in Access-Control-Allow-Headers as a wildcard on
// credentialed requests, so in that mode the preflight echoes the headers
// the browser asked for.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || contains(origins, "*") {
		cfg.AllowAllOrigins = true
		cfg.AllowHeaders = []string{"*"}
		return cors.New(cfg)
	}

	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	handler := cors.New(cfg)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			if requested := c.GetHeader("Access-Control-Request-Headers"); requested != "" {
				c.Header("Access-Control-Allow-Headers", requested)
			}
		}
		handler(c)
	}
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

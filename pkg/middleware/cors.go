package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	corsMethods = []string{"GET", "PUT", "POST", "DELETE"}
	corsHeaders = []string{"Origin", "Content-Type", "Authorization", "Accept"}
)

// CORS allows cross-origin browser clients from any origin. Every response
// carries the allowed origin, methods and headers, not only preflights.
func CORS() gin.HandlerFunc {
	h := cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    corsMethods,
		AllowHeaders:    corsHeaders,
		MaxAge:          12 * time.Hour,
	})
	methods := strings.Join(corsMethods, ", ")
	headers := strings.Join(corsHeaders, ", ")
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", methods)
		c.Header("Access-Control-Allow-Headers", headers)
		h(c)
	}
}

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// youtubeEmbedOrigins are allowed in frame-src so video previews render
// inside the course editor.
var youtubeEmbedOrigins = []string{
	"https://www.youtube.com",
	"https://www.youtube-nocookie.com",
}

func SecurityHeadersMiddleware() gin.HandlerFunc {
	csp := buildContentSecurityPolicy(youtubeEmbedOrigins)

	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("X-DNS-Prefetch-Control", "off")
		c.Header("X-Download-Options", "noopen")
		c.Header("X-Permitted-Cross-Domain-Policies", "none")
		c.Header("Cross-Origin-Opener-Policy", "same-origin")
		c.Header("Cross-Origin-Resource-Policy", "same-origin")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Header("Content-Security-Policy", csp)
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Next()
	}
}

func buildContentSecurityPolicy(frameOrigins []string) string {
	frameSrc := "'none'"
	if len(frameOrigins) > 0 {
		frameSrc = strings.Join(frameOrigins, " ")
	}

	directives := []string{
		"default-src 'self'",
		"img-src 'self' data: blob:",
		"media-src 'self' data: blob:",
		"frame-src " + frameSrc,
		"object-src 'none'",
		"base-uri 'self'",
		"frame-ancestors 'none'",
	}
	return strings.Join(directives, "; ")
}

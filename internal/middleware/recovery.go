package middleware

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"quezon.gov.ph/portal/internal/metrics"
)

var recoveryPage = template.Must(template.New("recovery").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Something went wrong</title></head>
<body>
<main role="alert">
<h1>Something went wrong</h1>
<p>The page could not be displayed. You can reload it or return to the home page.</p>
{{if .Detail}}<pre>{{.Detail}}</pre>{{end}}
<button type="button" onclick="window.location.reload()">Reload page</button>
<a href="/">Go to home page</a>
</main>
</body>
</html>`))

// Recovery turns a panic in any handler into a recovery page, or a JSON 500
// for API routes. showDetail adds the escaped panic text to the page.
func Recovery(showDetail bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		metrics.Panics.Inc()
		log.Printf("[Recovery] %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)

		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "something went wrong, please try again"})
			return
		}

		detail := ""
		if showDetail {
			detail = fmt.Sprint(recovered)
		}
		c.Status(http.StatusInternalServerError)
		c.Header("Content-Type", "text/html; charset=utf-8")
		if err := recoveryPage.Execute(c.Writer, gin.H{"Detail": detail}); err != nil {
			log.Printf("[Recovery] render failed: %v", err)
		}
		c.Abort()
	})
}

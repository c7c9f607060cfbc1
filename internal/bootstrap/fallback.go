package bootstrap

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
)

var fallbackPage = template.Must(template.New("fallback").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Service unavailable</title></head>
<body>
<main role="alert">
<h1>The portal could not start</h1>
<p>Please try again in a few minutes.</p>
<pre>{{.}}</pre>
<button type="button" onclick="window.location.reload()">Reload page</button>
</main>
</body>
</html>`))

// Fallback answers every request with a minimal page showing the escaped
// startup error.
func Fallback(startErr error) http.Handler {
	msg := "unknown error"
	if startErr != nil {
		msg = startErr.Error()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusServiceUnavailable)
		if err := fallbackPage.Execute(w, msg); err != nil {
			log.Printf("[Bootstrap] render fallback: %v", err)
		}
	})
}

// Guard runs build and returns its handler. If build fails or panics, the
// fallback handler is returned with the error instead.
func Guard(build func() (http.Handler, error)) (h http.Handler, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during startup: %v", r)
			h = Fallback(err)
		}
	}()

	h, err = build()
	if err != nil {
		return Fallback(err), err
	}
	return h, nil
}

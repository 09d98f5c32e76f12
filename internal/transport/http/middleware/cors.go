package middleware

import "net/http"

// CORS allows credentialed requests from the configured origins only.
// Unlisted origins get no CORS headers at all.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				if _, ok := allowed[origin]; ok {
					headers := w.Header()
					headers.Set("Access-Control-Allow-Origin", origin)
					headers.Set("Access-Control-Allow-Credentials", "true")
					headers.Set("Vary", "Origin")
					if r.Method == http.MethodOptions {
						headers.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
						headers.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
						w.WriteHeader(http.StatusNoContent)
						return
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

package httpapi

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"postgraph/pkg/auth"
	"postgraph/pkg/logger"

	"github.com/go-chi/chi/v5/middleware"
)

// requestLogger puts a logger tagged with the request id into the request
// context and logs one line per request.
func requestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			log := base.With(slog.String("request_id", middleware.GetReqID(r.Context())))
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(logger.WithLogger(r.Context(), log)))

			log.Info("http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// authenticate resolves the bearer token, if any, into the caller's user id.
// Requests without an Authorization header pass through as anonymous.
func authenticate(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := parseBearer(tokens, header)
			if err != nil {
				logger.FromContext(r.Context()).Debug("reject token", slog.Any("error", err))
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		})
	}
}

func parseBearer(tokens TokenParser, header string) (int64, error) {
	scheme, raw, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
		return 0, auth.ErrInvalidToken
	}
	return tokens.Parse(strings.TrimSpace(raw))
}

package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"
)

const (
	QueryPath         = "/query"
	SubscriptionsPath = "/subscriptions"
)

// TokenParser resolves a bearer token into a user id.
type TokenParser interface {
	Parse(raw string) (int64, error)
}

type Options struct {
	// KeepAlive is the interval of protocol keepalives on subscription
	// sockets. Zero disables them.
	KeepAlive  time.Duration
	Playground bool
}

// NewRouter serves the GraphQL API over HTTP and websockets.
func NewRouter(schema graphql.Schema, tokens TokenParser, log *slog.Logger, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticate(tokens))

		r.Method(http.MethodPost, QueryPath, handler.New(&handler.Config{
			Schema: &schema,
			Pretty: false,
		}))
		r.Method(http.MethodGet, SubscriptionsPath, newSubscriptionServer(schema, tokens, opts.KeepAlive))
	})

	if opts.Playground {
		r.Handle("/", playground.Handler("postgraph", QueryPath))
	}
	return r
}

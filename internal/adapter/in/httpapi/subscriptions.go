package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"postgraph/pkg/auth"
	"postgraph/pkg/logger"

	gqlhandler "github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/transport"
	"github.com/gorilla/websocket"
	"github.com/graphql-go/graphql"
)

// newSubscriptionServer serves graphql-transport-ws and the legacy graphql-ws
// protocol on one socket endpoint.
func newSubscriptionServer(schema graphql.Schema, tokens TokenParser, keepAlive time.Duration) http.Handler {
	srv := gqlhandler.New(newExecutableSchema(schema))
	srv.AddTransport(&transport.Websocket{
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		InitFunc: initFunc(tokens),
		ErrorFunc: func(ctx context.Context, err error) {
			logger.FromContext(ctx).Debug("subscriptions socket", slog.Any("error", err))
		},
		KeepAlivePingInterval: keepAlive,
		PingPongInterval:      keepAlive,
		MissingPongOk:         true,
	})
	return srv
}

// initFunc accepts a bearer token in the connection_init payload, for
// clients that cannot set headers on the upgrade request.
func initFunc(tokens TokenParser) transport.WebsocketInitFunc {
	return func(ctx context.Context, payload transport.InitPayload) (context.Context, *transport.InitPayload, error) {
		header := payload.Authorization()
		if header == "" {
			return ctx, nil, nil
		}

		userID, err := parseBearer(tokens, header)
		if err != nil {
			logger.FromContext(ctx).Debug("reject subscriptions socket", slog.Any("error", err))
			return ctx, nil, err
		}
		return auth.WithUserID(ctx, userID), nil, nil
	}
}

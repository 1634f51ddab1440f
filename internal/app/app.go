package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"postgraph/config"
	gqlin "postgraph/internal/adapter/in/graphql"
	"postgraph/internal/adapter/in/httpapi"
	"postgraph/internal/adapter/out/pubsub"
	membus "postgraph/internal/adapter/out/pubsub/inmemory"
	"postgraph/internal/adapter/out/pubsub/kafkamirror"
	"postgraph/internal/adapter/out/pubsub/redisbus"
	"postgraph/internal/adapter/out/storage/gormstore"
	memstore "postgraph/internal/adapter/out/storage/inmemory"
	pgstore "postgraph/internal/adapter/out/storage/postgres"
	"postgraph/internal/model"
	"postgraph/internal/service"
	"postgraph/migrations"
	"postgraph/pkg/auth"
	"postgraph/pkg/logger"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg config.Config
	srv *http.Server
	// released in reverse order on shutdown
	closers []func() error
}

type stores struct {
	posts service.PostStorage
	likes service.LikeStorage
	users service.UserStorage
	tx    service.TxManager
}

func NewApp(ctx context.Context, cfg config.Config) (_ *App, err error) {
	log := logger.FromContext(ctx)
	a := &App{cfg: cfg}
	defer func() {
		if err != nil {
			a.close(log)
		}
	}()

	st, err := a.openStorage(ctx)
	if err != nil {
		return nil, err
	}
	bus, err := a.openBus(ctx)
	if err != nil {
		return nil, err
	}

	limits := service.Limits{Default: cfg.Page.DefaultSize, Max: cfg.Page.MaxSize}
	postSvc := service.NewPostService(st.posts, st.users, bus, limits)
	likeSvc := service.NewLikeService(st.posts, st.likes, st.tx, limits)
	userSvc := service.NewUserService(st.users)

	if cfg.StorageType == config.StorageMemory {
		if err := seedUsers(ctx, userSvc); err != nil {
			return nil, err
		}
	}

	schema, err := gqlin.NewSchema(gqlin.NewResolver(postSvc, likeSvc, userSvc))
	if err != nil {
		return nil, err
	}
	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	addr := ":" + cfg.HTTP.Port
	a.srv = &http.Server{
		Addr: addr,
		Handler: httpapi.NewRouter(schema, tokens, log, httpapi.Options{
			KeepAlive:  cfg.WS.KeepAlive(),
			Playground: cfg.HTTP.Playground,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info("app initialized", "addr", addr, "storage", cfg.StorageType, "bus", cfg.EventBus,
		"kafka_mirror", len(cfg.Kafka.Brokers) > 0)
	return a, nil
}

func (a *App) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	defer a.close(log)

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", a.srv.Addr)
		errCh <- a.srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
		shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.srv.Shutdown(shCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil

	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

func (a *App) close(log *slog.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Warn("release resource", slog.Any("error", err))
		}
	}
	a.closers = nil
}

func (a *App) openStorage(ctx context.Context) (stores, error) {
	switch a.cfg.StorageType {
	case config.StoragePostgres:
		pool, err := OpenPool(ctx, a.cfg.Postgres.GetDSN())
		if err != nil {
			return stores{}, err
		}
		a.onClose(func() error { pool.Close(); return nil })
		return stores{
			posts: pgstore.NewPostStorage(pool, trmpgx.DefaultCtxGetter),
			likes: pgstore.NewLikeStorage(pool, trmpgx.DefaultCtxGetter),
			users: pgstore.NewUserStorage(pool, trmpgx.DefaultCtxGetter),
			tx:    pgstore.NewTxManager(pool),
		}, nil

	case config.StorageGorm:
		db, err := OpenGorm(a.cfg, logger.FromContext(ctx))
		if err != nil {
			return stores{}, err
		}
		a.onClose(func() error { return closeGorm(db) })
		return stores{
			posts: gormstore.NewPostStorage(db),
			likes: gormstore.NewLikeStorage(db),
			users: gormstore.NewUserStorage(db),
			tx:    gormstore.NewTxManager(db),
		}, nil

	default:
		return stores{
			posts: memstore.NewPostStorage(),
			likes: memstore.NewLikeStorage(),
			users: memstore.NewUserStorage(),
			tx:    memstore.TxManager{},
		}, nil
	}
}

func (a *App) openBus(ctx context.Context) (pubsub.Bus[model.Post], error) {
	var bus pubsub.Bus[model.Post]

	switch a.cfg.EventBus {
	case config.BusRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		a.onClose(client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping %s: %w", a.cfg.Redis.Addr, err)
		}
		bus = redisbus.New[model.Post](client, a.cfg.Redis.Prefix, 0)
	default:
		bus = membus.New[model.Post](0)
	}

	if len(a.cfg.Kafka.Brokers) > 0 {
		w := kafkamirror.NewWriter(a.cfg.Kafka.Brokers, a.cfg.Kafka.Topic)
		bus = kafkamirror.New(bus, w, a.cfg.Kafka.Topic, logger.FromContext(ctx),
			kafkamirror.WithKey(func(p model.Post) string { return strconv.FormatInt(p.AuthorID, 10) }))
	}
	a.onClose(bus.Close)
	return bus, nil
}

// OpenPool connects to postgres and checks the connection.
func OpenPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return pool, nil
}

func OpenGorm(cfg config.Config, log *slog.Logger) (*gorm.DB, error) {
	dsn := cfg.Gorm.MySQLDSN
	if cfg.Gorm.Dialect == gormstore.DialectPostgres {
		dsn = cfg.Postgres.GetDSN()
	}
	d, err := gormstore.Dialector(cfg.Gorm.Dialect, dsn)
	if err != nil {
		return nil, err
	}
	return gormstore.Open(d, log)
}

func closeGorm(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate applies (or, with down set, reverts the latest) schema changes of
// the configured database backend.
func Migrate(ctx context.Context, cfg config.Config, down bool) error {
	log := logger.FromContext(ctx)

	switch cfg.StorageType {
	case config.StoragePostgres:
		m, err := pgstore.NewMigrator(migrations.FS, cfg.Postgres.GetDSN(), log)
		if err != nil {
			return err
		}
		defer func() {
			if err := m.Close(); err != nil {
				log.Warn("close migrator", slog.Any("error", err))
			}
		}()

		if down {
			version, err := m.Down(ctx)
			if err != nil {
				return err
			}
			log.Info("migration reverted", "version", version)
			return nil
		}
		version, err := m.Up(ctx)
		if err != nil {
			return err
		}
		log.Info("migrations applied", "version", version)
		return nil

	case config.StorageGorm:
		if down {
			return errors.New("gorm storage has no down migrations")
		}
		db, err := OpenGorm(cfg, log)
		if err != nil {
			return err
		}
		defer func() { _ = closeGorm(db) }()
		if err := gormstore.AutoMigrate(ctx, db); err != nil {
			return fmt.Errorf("gorm automigrate: %w", err)
		}
		log.Info("gorm schema migrated", "dialect", cfg.Gorm.Dialect)
		return nil

	default:
		return fmt.Errorf("storage %q has no schema to migrate", cfg.StorageType)
	}
}

var demoUsers = []service.CreateUserRequest{
	{Email: "alice@example.com", Firstname: "Alice", Lastname: "Liddell"},
	{Email: "bob@example.com", Firstname: "Bob", Lastname: "Builder"},
}

// seedUsers gives the in-memory store someone to act as; there is no signup.
func seedUsers(ctx context.Context, users *service.UserService) error {
	log := logger.FromContext(ctx)
	for _, req := range demoUsers {
		u, err := users.CreateUser(ctx, req)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", req.Email, err)
		}
		log.Info("seeded user", "id", u.ID, "email", u.Email)
	}
	return nil
}

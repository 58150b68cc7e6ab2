package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"moodscale/internal/config"
	"moodscale/internal/repository"
	"moodscale/internal/service"
	"moodscale/internal/transport/rest"
	"moodscale/internal/transport/ws"
)

const connectTimeout = 5 * time.Second

// App holds the wired components of a running journal
type App struct {
	Config         *config.Config
	Log            *logrus.Logger
	QuestionRepo   repository.QuestionRepo
	EntryRepo      repository.EntryRepo
	JournalService *service.JournalService
	AuthService    *service.AuthService
	WSHub          *ws.Hub

	closers []func(context.Context) error
}

// New opens the configured store, loads the journal and wires the services
func New(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Log:    log,
	}

	questionRepo, err := repository.NewQuestionRepo()
	if err != nil {
		return nil, err
	}
	a.QuestionRepo = questionRepo

	entryRepo, err := a.openEntryRepo(ctx)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	a.EntryRepo = entryRepo

	if _, err := entryRepo.Load(ctx); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to load journal: %w", err)
	}

	a.JournalService = service.NewJournalService(questionRepo, entryRepo, log.WithField("component", "journal"))
	a.AuthService = service.NewAuthService(cfg.Auth)
	return a, nil
}

func (a *App) openEntryRepo(ctx context.Context) (repository.EntryRepo, error) {
	opts := repository.EntryRepoOptions{
		Logger:     a.Log.WithField("component", "store").WithField("backend", a.Config.Store.Backend),
		StrictLoad: a.Config.Store.StrictLoad,
	}

	switch a.Config.Store.Backend {
	case config.BackendFile:
		return repository.NewEntryFileRepo(a.Config.Store.Path, opts), nil

	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr: a.Config.Redis.Addr,
		})
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })

		pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		if _, err := rdb.Ping(pingCtx).Result(); err != nil {
			return nil, fmt.Errorf("failed to ping Redis: %w", err)
		}
		a.Log.WithField("addr", a.Config.Redis.Addr).Info("connected to Redis")
		return repository.NewEntryRedisRepo(rdb, a.Config.Redis.Key, opts), nil

	case config.BackendMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(a.Config.Mongo.URI))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		a.closers = append(a.closers, client.Disconnect)

		pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		if err := client.Ping(pingCtx, nil); err != nil {
			return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
		}
		a.Log.WithField("database", a.Config.Mongo.Database).Info("connected to MongoDB")
		return repository.NewEntryMongoRepo(client.Database(a.Config.Mongo.Database), opts), nil
	}

	return nil, fmt.Errorf("unknown store backend %q", a.Config.Store.Backend)
}

// EnableDashboard starts the websocket hub and attaches it to the journal
func (a *App) EnableDashboard() *ws.Hub {
	if a.WSHub == nil {
		a.WSHub = ws.NewHub(a.Log.WithField("component", "ws"))
		a.JournalService.SetBroadcaster(a.WSHub)
		hub := a.WSHub
		a.closers = append(a.closers, func(context.Context) error {
			hub.Close()
			return nil
		})
	}
	return a.WSHub
}

// Router builds the HTTP handler for the API
func (a *App) Router(version string) http.Handler {
	return rest.NewRouter(&rest.Container{
		JournalService: a.JournalService,
		AuthService:    a.AuthService,
		WSHub:          a.EnableDashboard(),
		Logger:         a.Log,
		AllowedOrigins: a.Config.CORS.AllowedOrigins,
		Version:        version,
	})
}

// Close releases backend connections in reverse order of opening
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zerpitt/prompt-keeper-project/internal/backup"
	"github.com/zerpitt/prompt-keeper-project/internal/config"
	"github.com/zerpitt/prompt-keeper-project/internal/database"
	"github.com/zerpitt/prompt-keeper-project/internal/oidc"
	"github.com/zerpitt/prompt-keeper-project/internal/prompt/notify"
	"github.com/zerpitt/prompt-keeper-project/internal/prompt/repository"
	"github.com/zerpitt/prompt-keeper-project/internal/prompt/service"
	"github.com/zerpitt/prompt-keeper-project/internal/storage"
	"github.com/zerpitt/prompt-keeper-project/internal/users"
	"github.com/zerpitt/prompt-keeper-project/pkg/logger"
	"github.com/zerpitt/prompt-keeper-project/pkg/middleware"
)

// runtime holds the collaborators shared by the serve and backup commands.
type runtime struct {
	cfg      *config.Config
	mongo    *mongo.Client
	redis    *redis.Client
	repo     repository.Repository
	notifier notify.Notifier
	prompts  *service.Service
	users    *users.Service
	backups  *backup.Manager
	verifier middleware.Verifier
	started  time.Time
}

// openRuntime connects the configured backends. MongoDB and the identity
// provider are required once configured; Redis and MinIO degrade to in-process
// behaviour with a warning.
func openRuntime(ctx context.Context, cfg *config.Config) (*runtime, error) {
	rt := &runtime{cfg: cfg, started: time.Now()}
	logger.Infof("config loaded: keycloak=%v mongo=%v redis=%v minio=%v", cfg.Keycloak.Issuer() != "", cfg.MongoDB.Enabled(), cfg.Redis.Enabled(), cfg.MinIO.Enabled())

	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", cfg.Redis.Addr(), err)
			_ = client.Close()
		} else {
			logger.Infof("connected to Redis at %s", cfg.Redis.Addr())
			rt.redis = client
		}
	}
	if rt.redis != nil {
		rt.notifier = notify.NewRedis(rt.redis, "")
	} else {
		rt.notifier = notify.NewMemory()
	}

	if cfg.MongoDB.Enabled() {
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, cfg.MongoDB.ConnectAttempts)
		if err != nil {
			rt.close(context.Background())
			return nil, fmt.Errorf("connect to MongoDB: %w", err)
		}
		rt.mongo = client
		db := client.Database(cfg.MongoDB.Database)
		repo, err := repository.NewMongoRepo(ctx, db)
		if err != nil {
			rt.close(context.Background())
			return nil, err
		}
		rt.repo = repo
		rt.users = users.NewService(users.NewMongoRepository(db.Collection("users")))
		logger.Infof("using MongoDB database %q", cfg.MongoDB.Database)
	} else {
		logger.Warnf("MONGODB_URI not set; prompts are kept in memory only")
		rt.repo = repository.NewMemoryRepo()
		rt.users = users.NewService(users.NewMemoryRepository())
	}
	rt.prompts = service.New(rt.repo, rt.notifier)

	if cfg.MinIO.Enabled() {
		store, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
		if err != nil {
			logger.Warnf("object storage unavailable, backups disabled: %v", err)
		} else {
			rt.backups = backup.NewManager(rt.repo, store).WithNotifier(rt.notifier)
		}
	}

	switch {
	case cfg.Keycloak.Issuer() != "":
		ver, err := oidc.NewVerifier(ctx, cfg.Keycloak.Issuer(), cfg.Keycloak.ClientID)
		if err != nil {
			rt.close(context.Background())
			return nil, err
		}
		rt.verifier = ver
	case cfg.Auth.AllowInsecureToken:
		logger.Warn("enabling insecure token verifier (integration mode)")
		rt.verifier = oidc.NewInsecureVerifier()
	default:
		logger.Warnf("no identity provider configured; all requests act as %q unless %s is sent", cfg.Auth.DevUser, middleware.UserHeader)
	}
	return rt, nil
}

func (rt *runtime) close(ctx context.Context) {
	if rt.mongo != nil {
		if err := rt.mongo.Disconnect(ctx); err != nil {
			logger.Warnf("mongo disconnect: %v", err)
		}
	}
	if rt.redis != nil {
		_ = rt.redis.Close()
	}
}

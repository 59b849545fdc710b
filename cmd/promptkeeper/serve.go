package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/zerpitt/prompt-keeper-project/handlers"
	"github.com/zerpitt/prompt-keeper-project/internal/backup"
	"github.com/zerpitt/prompt-keeper-project/internal/prompt/handler"
	"github.com/zerpitt/prompt-keeper-project/internal/users"
	"github.com/zerpitt/prompt-keeper-project/pkg/logger"
	"github.com/zerpitt/prompt-keeper-project/pkg/metrics"
	"github.com/zerpitt/prompt-keeper-project/pkg/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the prompt API server.

The server provides:
  - /api/...        prompts, categories, tags, history and backups
  - /api/v1/me      owner profile
  - /health         liveness
  - /ready          readiness (MongoDB, Redis, identity provider)
  - /metrics        Prometheus metrics
  - /swagger/       API description`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := openRuntime(ctx, cfg)
		if err != nil {
			return err
		}
		defer rt.close(context.Background())

		reg := prometheus.NewRegistry()
		srv := &http.Server{
			Addr:        cfg.Server.Addr(),
			Handler:     newRouter(rt, reg),
			ReadTimeout: cfg.Server.ReadTimeout,
		}
		if cfg.Server.WriteTimeout > 0 {
			srv.WriteTimeout = cfg.Server.WriteTimeout
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Infof("starting prompt service on %s", srv.Addr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
			logger.Infof("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddrOverride.host, "host", "", "host to bind to (default: SERVER_HOST)")
	serveCmd.Flags().StringVar(&serveAddrOverride.port, "port", "", "port to listen on (default: SERVER_PORT)")
	serveCmd.PreRun = func(cmd *cobra.Command, args []string) {
		if serveAddrOverride.host != "" {
			cfg.Server.Host = serveAddrOverride.host
		}
		if serveAddrOverride.port != "" {
			cfg.Server.Port = serveAddrOverride.port
		}
	}
}

var serveAddrOverride struct{ host, port string }

// newRouter wires every route onto a fresh engine. Collectors are registered on reg.
func newRouter(rt *runtime, reg *prometheus.Registry) *gin.Engine {
	if rt.cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS for the browser client.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, "+middleware.UserHeader)
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", rt.readiness)

	metrics.RegisterCollectors(reg)
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterSwagger(r)

	var identify gin.HandlerFunc
	if rt.verifier != nil {
		identify = middleware.AuthMiddleware(rt.verifier)
	} else {
		identify = middleware.DevUser(rt.cfg.Auth.DevUser)
	}
	chain := []gin.HandlerFunc{identify, middleware.RequireUser()}
	if rt.cfg.RateLimit.Enabled {
		if rt.cfg.RateLimit.UseRedis && rt.redis != nil {
			chain = append(chain, middleware.RedisRateLimitMiddleware(rt.redis, rt.cfg.RateLimit.RPS, rt.cfg.RateLimit.Burst, rt.cfg.RateLimit.Window))
		} else {
			chain = append(chain, middleware.RateLimitMiddleware(rt.cfg.RateLimit.RPS, rt.cfg.RateLimit.Burst))
		}
	}

	api := r.Group("/api", chain...)
	handler.RegisterPromptRoutes(api, rt.prompts)
	users.RegisterRoutes(api.Group("/v1"), rt.users)
	if rt.backups != nil {
		backup.RegisterRoutes(api, rt.backups)
	}
	return r
}

// readiness reports 200 only when every configured dependency answers.
func (rt *runtime) readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	ready := true
	deps := map[string]bool{}

	if rt.mongo != nil {
		deps["mongo"] = rt.mongo.Ping(ctx, nil) == nil
	} else {
		deps["mongo"] = !rt.cfg.MongoDB.Enabled()
	}
	if rt.cfg.Redis.Enabled() {
		deps["redis"] = rt.redis != nil && rt.redis.Ping(ctx).Err() == nil
	} else {
		deps["redis"] = true
	}
	deps["oidc"] = rt.cfg.Keycloak.Issuer() == "" || rt.verifier != nil
	deps["backups"] = rt.backups != nil || !rt.cfg.MinIO.Enabled()

	for _, ok := range deps {
		ready = ready && ok
	}
	status, code := "ready", http.StatusOK
	if !ready {
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status, "deps": deps, "uptime": time.Since(rt.started).String()})
}

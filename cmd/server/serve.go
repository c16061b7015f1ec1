package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mathanim/api/internal/config"
	"github.com/mathanim/api/internal/middleware"
	"github.com/mathanim/api/internal/server"
	"github.com/mathanim/api/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.EnsureDirs(); err != nil {
		return err
	}

	c, err := buildComponents(cfg)
	if err != nil {
		return err
	}

	// Redis is optional: it backs rate limiting and the retention sweeper
	var rateLimiter *middleware.RateLimiter
	var sweeper *sweeperRuntime
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warnf("Redis not available: %v", err)
		}
		cancel()

		rateLimiter = middleware.NewRateLimiter(redisClient)
		if retention := cfg.Videos.Retention(); retention > 0 {
			sweeper, err = startSweeper(cfg, c, retention)
			if err != nil {
				log.Warnf("Video sweeper not started: %v", err)
			}
		}
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	app := server.New(server.Options{
		Generator:   c.generate,
		Validator:   validator.New(),
		Auth:        authMiddleware,
		RateLimiter: rateLimiter,
		RatePerHour: cfg.RateLimit.GeneratePerHour,
		VideoDir:    cfg.Paths.VideoDir,
		FrontendDir: cfg.Paths.FrontendDir,
		LogLevel:    cfg.Server.LogLevel,
		AccessLog:   true,
	})

	logBanner(cmd.Context(), cfg, c, authMiddleware.Enabled(), rateLimiter != nil, sweeper != nil)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Errorf("Server shutdown error: %v", err)
		}
	}()

	addr := ":" + cfg.Server.Port
	log.Infof("Server starting on %s", addr)
	err = app.Listen(addr)
	if sweeper != nil {
		sweeper.stop()
	}
	return err
}

func logBanner(ctx context.Context, cfg *config.Config, c *components, authEnabled, rateLimited, sweeping bool) {
	snap := c.generate.Health(ctx)

	status := func(ok bool) string {
		if ok {
			return "OK"
		}
		return "MISSING"
	}
	python := "none"
	if snap.PythonWithManim != nil {
		python = *snap.PythonWithManim
	}

	log.Info("Math animation generator")
	log.Infof("  Manim:   %s (python: %s)", status(snap.Checks.ManimInstalled), python)
	log.Infof("  FFmpeg:  %s", status(snap.Checks.FFmpegInstalled))
	if snap.GroqConfigured {
		log.Info("  Groq:    configured")
	} else {
		log.Info("  Groq:    not configured, using templates")
	}
	log.Infof("  Storage: %s", snap.Storage)
	log.Infof("  Auth: %t, rate limit: %t, sweeper: %t", authEnabled, rateLimited, sweeping)
	log.Infof("  Videos:   %s", cfg.Paths.VideoDir)
	log.Infof("  Temp:     %s", cfg.Paths.TempDir)
	log.Infof("  Frontend: %s", cfg.Paths.FrontendDir)
	if !snap.Checks.ManimInstalled {
		log.Warn("Manim not found; install with: pip install manim")
	}
}

type sweeperRuntime struct {
	srv       *asynq.Server
	scheduler *asynq.Scheduler
}

func (s *sweeperRuntime) stop() {
	s.scheduler.Shutdown()
	s.srv.Shutdown()
}

func startSweeper(cfg *config.Config, c *components, retention time.Duration) (*sweeperRuntime, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	asynqLogLevel := asynq.InfoLevel
	if strings.EqualFold(cfg.Server.LogLevel, "debug") {
		asynqLogLevel = asynq.DebugLevel
	} else if strings.EqualFold(cfg.Server.LogLevel, "warn") {
		asynqLogLevel = asynq.WarnLevel
	} else if strings.EqualFold(cfg.Server.LogLevel, "error") {
		asynqLogLevel = asynq.ErrorLevel
	}

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 1,
		Queues:      map[string]int{"maintenance": 1},
		LogLevel:    asynqLogLevel,
	})

	sweepWorker := worker.NewSweepWorker(cfg.Paths.VideoDir, c.storage, retention)
	mux := asynq.NewServeMux()
	mux.HandleFunc(worker.TaskTypeSweep, sweepWorker.ProcessTask)
	if err := srv.Start(mux); err != nil {
		return nil, err
	}

	task, err := worker.NewSweepTask(retention)
	if err != nil {
		srv.Shutdown()
		return nil, err
	}
	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{LogLevel: asynqLogLevel})
	if _, err := scheduler.Register("@hourly", task, asynq.Queue("maintenance"), asynq.MaxRetry(1)); err != nil {
		srv.Shutdown()
		return nil, err
	}
	if err := scheduler.Start(); err != nil {
		srv.Shutdown()
		return nil, err
	}

	log.Infof("Video sweeper scheduled hourly, retention %s", retention)
	return &sweeperRuntime{srv: srv, scheduler: scheduler}, nil
}

package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	rdb "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/accessway/internal/bootstrap"
	"github.com/dropDatabas3/accessway/internal/cache"
	"github.com/dropDatabas3/accessway/internal/config"
	"github.com/dropDatabas3/accessway/internal/domaingate"
	healthcontroller "github.com/dropDatabas3/accessway/internal/http/controllers/health"
	"github.com/dropDatabas3/accessway/internal/http/router"
	"github.com/dropDatabas3/accessway/internal/observability/logger"
	"github.com/dropDatabas3/accessway/internal/rate"
	"github.com/dropDatabas3/accessway/internal/security/password"
	"github.com/dropDatabas3/accessway/internal/security/token"
	"github.com/dropDatabas3/accessway/internal/session"
	"github.com/dropDatabas3/accessway/internal/store/pg"
	migrations "github.com/dropDatabas3/accessway/migrations/postgres"
)

const serviceName = "accessway"

func main() {
	var (
		configPath = flag.String("config", "configs/config.example.yaml", "Path to YAML config")
		envFile    = flag.String("env-file", ".env", "Optional .env file")
	)
	flag.Parse()

	// .env es opcional; el entorno real siempre gana.
	_ = godotenv.Load(*envFile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: serviceName,
	})
	defer func() { _ = logger.Sync() }()
	lg := logger.L()

	secret := cfg.Auth.SigningSecret
	if secret == "" {
		// Sólo dev: un secreto efímero invalida los tokens en cada restart.
		var b [32]byte
		_, _ = rand.Read(b[:])
		secret = hex.EncodeToString(b[:])
		lg.Warn("auth.signing_secret vacío: usando secreto efímero (sólo dev)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Backing store
	var lifetime time.Duration
	if s := cfg.Storage.Postgres.ConnMaxLifetime; s != "" {
		lifetime, _ = time.ParseDuration(s)
	}
	store, err := pg.New(ctx, cfg.Storage.DSN, pg.Config{
		MaxConns:        int32(cfg.Storage.Postgres.MaxOpenConns),
		MinConns:        int32(cfg.Storage.Postgres.MaxIdleConns),
		ConnMaxLifetime: lifetime,
	})
	if err != nil {
		lg.Fatal("postgres init failed", logger.Err(err))
	}
	defer store.Close()

	if cfg.Flags.Migrate {
		if err := runMigrations(ctx, store); err != nil {
			lg.Fatal("migrations failed", logger.Err(err))
		}
	}

	// Redis (sesiones y/o rate limiting)
	var redisClient *rdb.Client
	if cfg.Redis.Addr != "" {
		redisClient = rdb.NewClient(&rdb.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		defer func() { _ = redisClient.Close() }()
	}

	// Session Registry según config
	var registry session.Registry
	switch cfg.Sessions.Kind {
	case "redis":
		if redisClient == nil {
			lg.Fatal("sessions.kind=redis requiere redis.addr")
		}
		registry = session.NewRedis(redisClient, cfg.Redis.Prefix)
	case "memory":
		lg.Warn("sessions.kind=memory: las sesiones se pierden al reiniciar")
		registry = session.NewMemory()
	default:
		registry = session.NewStore(store)
	}

	hasher := password.New(cfg.Auth.PasswordCost)
	issuer := token.NewIssuer(secret, serviceName, cfg.AccessTTLDuration(), cfg.RefreshTTLDuration())

	responseCache := cache.New(cfg.CacheTTLDuration())
	responseCache.Start()
	defer responseCache.Stop()

	domainGate := domaingate.New(store, responseCache)

	var limiter rate.Limiter
	if cfg.Rate.Enabled {
		if redisClient != nil {
			limiter = rate.NewRedisLimiter(redisClient, cfg.Redis.Prefix+"rl:", cfg.Rate.Login.Limit, cfg.LoginWindowDuration())
		} else {
			limiter = rate.NewMemoryLimiter(cfg.Rate.Login.Limit, cfg.LoginWindowDuration())
		}
	}

	if err := bootstrap.EnsureSuperAdmin(ctx, store, hasher); err != nil {
		lg.Error("bootstrap admin failed", logger.Err(err))
	}

	readiness := map[string]healthcontroller.Pinger{"postgres": store}
	if redisClient != nil {
		readiness["redis"] = redisPinger{redisClient}
	}

	handler := router.New(router.Deps{
		Cfg:        cfg,
		Repo:       store,
		Cache:      responseCache,
		Hasher:     hasher,
		Issuer:     issuer,
		Registry:   registry,
		Limiter:    limiter,
		Readiness:  readiness,
		DomainGate: domainGate,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		lg.Info("http server listening", logger.Any("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	// Housekeeping: barrido periódico de sesiones vencidas (el registry
	// Redis lo hace solo, su SweepExpired es no-op).
	g.Go(func() error {
		t := time.NewTicker(10 * time.Minute)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				if n, err := registry.SweepExpired(gctx); err != nil {
					lg.Warn("session sweep failed", logger.Err(err))
				} else if n > 0 {
					lg.Debug("expired sessions removed", logger.Any("count", n))
				}
			case <-gctx.Done():
				return nil
			}
		}
	})

	if err := g.Wait(); err != nil {
		lg.Error("server exited with error", logger.Err(err))
		os.Exit(1)
	}
	lg.Info("server stopped")
}

// runMigrations aplica los *_up.sql embebidos en orden ascendente.
// Son idempotentes (CREATE IF NOT EXISTS), así que correrlos en cada
// arranque es seguro.
func runMigrations(ctx context.Context, store *pg.Store) error {
	entries, err := migrations.FS.ReadDir(".")
	if err != nil {
		return err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), "_up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, f := range files {
		b, err := migrations.FS.ReadFile(f)
		if err != nil {
			return err
		}
		if _, err := store.Pool().Exec(ctx, string(b)); err != nil {
			return err
		}
		logger.L().Info("migration applied", logger.Any("file", f))
	}
	return nil
}

type redisPinger struct{ c *rdb.Client }

func (p redisPinger) Ping(ctx context.Context) error { return p.c.Ping(ctx).Err() }

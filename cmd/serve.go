package cmd

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/mathapp/internal/api"
	"github.com/abhisek/mathapp/internal/api/handlers"
	"github.com/abhisek/mathapp/internal/api/middleware"
	"github.com/abhisek/mathapp/internal/auth"
	"github.com/abhisek/mathapp/internal/lessons"
	"github.com/abhisek/mathapp/internal/logger"
	"github.com/abhisek/mathapp/internal/store"
)

const tokenIssuer = "mathapp"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the lesson API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides http.address)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.HTTP.Address = addr
	}

	log, err := logger.New(cfg.Env, "")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := seed(ctx, st, log); err != nil {
		return err
	}

	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, tokenIssuer, cfg.Auth.TokenTTL)
	authService := auth.NewService(st.UserRepo(), tokens, cfg.Auth.OpenSignup)

	router := api.NewRouter(api.RouterConfig{
		Log:              log,
		CORSOrigins:      cfg.HTTP.CORSOrigins,
		AuthHandler:      handlers.NewAuthHandler(log, authService),
		AuthMiddleware:   middleware.NewAuthMiddleware(log, authService),
		LessonHandler:    handlers.NewLessonHandler(log, st),
		DashboardHandler: handlers.NewDashboardHandler(log, st),
		HealthHandler:    handlers.NewHealthHandler(version),
	})

	server := api.NewServer(cfg.HTTP.Address, cfg.HTTP.Timeout, cfg.HTTP.IdleTimeout, router)
	server.Start()
	log.Info("api listening", "address", cfg.HTTP.Address, "env", cfg.Env, "version", version)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err, ok := <-server.Notify(); ok && err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		return server.Shutdown()
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped", "error", err)
		return err
	}
	return nil
}

// seed stores the lesson catalog and the demo account on first run.
func seed(ctx context.Context, st *store.Store, log *logger.Logger) error {
	seed := uint64(time.Now().UnixNano())
	n, err := st.SeedCatalog(ctx, lessons.NewAssembler(rand.New(rand.NewPCG(seed, seed>>1))))
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if n > 0 {
		log.Info("seeded lesson catalog", "lessons", n)
	}

	demo, err := auth.DemoUser()
	if err != nil {
		return fmt.Errorf("build demo user: %w", err)
	}
	if err := st.SeedUser(ctx, demo); err != nil {
		return fmt.Errorf("seed demo user: %w", err)
	}
	return nil
}

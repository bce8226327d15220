package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clinic/clinic/internal/config"
	"github.com/clinic/clinic/internal/domain/audit"
	"github.com/clinic/clinic/internal/domain/billing"
	"github.com/clinic/clinic/internal/domain/inventory"
	"github.com/clinic/clinic/internal/domain/patient"
	"github.com/clinic/clinic/internal/domain/scheduling"
	"github.com/clinic/clinic/internal/domain/staff"
	"github.com/clinic/clinic/internal/domain/treatment"
	"github.com/clinic/clinic/internal/platform/analytics"
	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/internal/platform/db"
	"github.com/clinic/clinic/internal/platform/metrics"
	"github.com/clinic/clinic/internal/platform/middleware"
	"github.com/clinic/clinic/internal/platform/reporting"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:          "clinic-server",
		Short:        "Dental clinic API server",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(reportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	if cfg.IsDev() {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(level).With().Timestamp().Str("service", "clinic").Logger()
}

func openPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	return db.NewPool(ctx, cfg.DatabaseURL, cfg.DBSchema, cfg.DBMaxConns, cfg.DBMinConns)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the clinic API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			pool, err := openPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, dir).Up(ctx, cfg.DBSchema)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) to schema %s.\n", count, cfg.DBSchema)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			pool, err := openPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, dir).Status(ctx, cfg.DBSchema)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}
			printStatus(cmd.OutOrStdout(), cfg.DBSchema, statuses)
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func printStatus(w io.Writer, schema string, statuses []db.MigrationStatus) {
	fmt.Fprintf(w, "Migration status for schema: %s\n", schema)
	fmt.Fprintf(w, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
	for _, s := range statuses {
		status, appliedAt := "pending", ""
		if s.Applied {
			status = "applied"
			if s.AppliedAt != nil {
				appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
		}
		fmt.Fprintf(w, "%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
	}
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "report <name>",
		Short:     "Print a report as JSON",
		Long:      "Print a report as JSON. Names: dashboard, " + strings.Join(analytics.ReportNames, ", ") + ".",
		Args:      cobra.ExactArgs(1),
		ValidArgs: append([]string{"dashboard"}, analytics.ReportNames...),
		RunE: func(cmd *cobra.Command, args []string) error {
			days, _ := cmd.Flags().GetInt("days")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			pool, err := openPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			snap, err := newStore(pool).Snapshot(ctx)
			if err != nil {
				return err
			}
			opts := reportOptions(cfg)
			opts.Now = time.Now()
			if days > 0 {
				opts.RevenueDays = days
			}
			return renderReport(cmd.OutOrStdout(), args[0], snap, opts)
		},
	}
	cmd.Flags().Int("days", analytics.DefaultRevenueDays, "Days covered by the daily revenue series")
	return cmd
}

// renderReport writes the named report, or the dashboard, as indented JSON.
func renderReport(w io.Writer, name string, snap *analytics.Snapshot, opts analytics.Options) error {
	var (
		out interface{}
		err error
	)
	if name == "dashboard" {
		out = analytics.BuildDashboard(snap, opts)
	} else if out, err = analytics.BuildReport(name, snap, opts); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func reportOptions(cfg *config.Config) analytics.Options {
	return analytics.Options{
		RevenueDays:   analytics.DefaultRevenueDays,
		ExpiryWindow:  cfg.ExpiryWindowDays,
		RevenueTarget: cfg.RevenueTarget,
	}
}

func rateLimitConfig(cfg *config.Config) middleware.RateLimitConfig {
	rl := middleware.RateLimitConfig{RequestsPerSecond: cfg.RateLimitRPS, BurstSize: cfg.RateLimitBurst}
	if rl.RequestsPerSecond <= 0 || rl.BurstSize <= 0 {
		return middleware.DefaultRateLimitConfig()
	}
	return rl
}

func newStore(pool *pgxpool.Pool) *reporting.Store {
	return &reporting.Store{
		Patients:     patient.NewRepoPG(pool),
		Appointments: scheduling.NewRepoPG(pool),
		Treatments:   treatment.NewRepoPG(pool),
		Inventory:    inventory.NewRepoPG(pool),
		Invoices:     billing.NewRepoPG(pool),
		Staff:        staff.NewRepoPG(pool),
	}
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stdout)
	if err := cfg.Validate(); err != nil {
		logger.Error().Err(err).Msg("invalid configuration")
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := openPool(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to database")
		return err
	}
	defer pool.Close()
	logger.Info().Str("schema", cfg.DBSchema).Msg("connected to database")

	e := newServer(cfg, pool, logger, metrics.New(nil))

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting clinic server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("server failed")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newServer(cfg *config.Config, pool *pgxpool.Pool, logger zerolog.Logger, m *metrics.Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
	}))
	if cfg.MetricsEnabled {
		e.Use(m.Middleware())
		e.GET("/metrics", m.Handler())
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "version": version})
	})
	e.GET("/health/db", db.HealthHandler(pool, func() db.PoolStats { return db.GetPoolStats(pool) }))

	api := e.Group("/api/v1")
	api.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	if cfg.IsDev() && cfg.AuthSigningKey == "" {
		logger.Warn().Msg("no signing key configured: every request runs as the development user")
		api.Use(auth.DevAuthMiddleware())
	} else {
		api.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			SigningKey: []byte(cfg.AuthSigningKey),
		}))
	}
	api.Use(middleware.RateLimit(rateLimitConfig(cfg)))

	auditSvc := audit.NewService(audit.NewRepoPG(pool), logger, m)
	patientRepo := patient.NewRepoPG(pool)
	treatmentRepo := treatment.NewRepoPG(pool)
	billingSvc := billing.NewService(billing.NewRepoPG(pool), auditSvc, m)

	audit.NewHandler(auditSvc).RegisterRoutes(api)
	patient.NewHandler(patient.NewService(patientRepo, auditSvc)).RegisterRoutes(api)
	scheduling.NewHandler(scheduling.NewService(scheduling.NewRepoPG(pool), auditSvc, m)).RegisterRoutes(api)
	treatment.NewHandler(treatment.NewService(treatmentRepo, billingSvc, db.NewTxRunner(pool), auditSvc)).RegisterRoutes(api)
	inventory.NewHandler(inventory.NewService(inventory.NewRepoPG(pool), auditSvc, cfg.ExpiryWindowDays)).RegisterRoutes(api)
	billing.NewHandler(billingSvc).RegisterRoutes(api)
	staff.NewHandler(staff.NewService(staff.NewRepoPG(pool), patientRepo, treatmentRepo, auditSvc)).RegisterRoutes(api)
	reporting.NewHandler(newStore(pool), reportOptions(cfg)).RegisterRoutes(api)

	return e
}

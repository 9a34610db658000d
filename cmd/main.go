package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"healthtracker/config"
	"healthtracker/routes"
	"healthtracker/services"
	"healthtracker/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const appName = "healthtracker"

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var envFile string

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), envFile)
		},
	}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Personal health-metrics tracker",
		Long: `healthtracker records date-stamped vitals (body temperature,
blood pressure, heart rate) and serves a REST API plus a web dashboard
with search, sort and out-of-range highlighting.`,
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	cmd.AddCommand(serve)
	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the record schema and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), envFile)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "export",
		Short: "Upload all records as JSON to S3_BUCKET",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), envFile)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})

	return cmd
}

// app is the wiring shared by every command.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	store   config.Store
	close   func(context.Context) error
	rt      *services.RealtimeHub
	records *services.HealthRecordService
	exports *services.ExportService
}

func newApp(ctx context.Context, envFile string) (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	log, err := config.NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	store, closeFn, err := config.OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	rt := services.NewRealtimeHub()
	records := services.NewHealthRecordService(store, rt, log)

	var putter services.ObjectPutter
	if cfg.S3Bucket != "" {
		client, err := utils.NewS3Client(ctx, cfg.S3Region)
		if err != nil {
			_ = closeFn(ctx)
			return nil, err
		}
		putter = client
	}

	return &app{
		cfg:     cfg,
		log:     log,
		store:   store,
		close:   closeFn,
		rt:      rt,
		records: records,
		exports: services.NewExportService(records, putter, cfg.S3Bucket, cfg.S3Prefix, log),
	}, nil
}

func (a *app) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.close(ctx); err != nil {
		a.log.Warn("closing store", zap.Error(err))
	}
	_ = a.log.Sync()
}

func runServe(parent context.Context, envFile string) error {
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(ctx, envFile)
	if err != nil {
		return err
	}
	defer a.shutdown()

	if err := a.store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if !a.cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := routes.SetupRouter(routes.Deps{
		Records:    a.records,
		Exports:    a.exports,
		RT:         a.rt,
		Log:        a.log,
		CORSOrigin: a.cfg.CORSOrigin,
		Registry:   reg,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server running", zap.Int("port", a.cfg.Port), zap.String("store", a.cfg.StoreDriver), zap.String("version", Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	return srv.Shutdown(shutdownCtx)
}

func runMigrate(ctx context.Context, envFile string) error {
	a, err := newApp(ctx, envFile)
	if err != nil {
		return err
	}
	defer a.shutdown()

	if err := a.store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	a.log.Info("migration complete", zap.String("store", a.cfg.StoreDriver))
	return nil
}

func runExport(ctx context.Context, envFile string) error {
	a, err := newApp(ctx, envFile)
	if err != nil {
		return err
	}
	defer a.shutdown()

	res, err := a.exports.Export(ctx)
	if err != nil {
		return err
	}
	return json.NewEncoder(os.Stdout).Encode(res)
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/civiclens-lk/civiclens/internal/config"
	"github.com/civiclens-lk/civiclens/internal/database"
	"github.com/civiclens-lk/civiclens/internal/localstore"
	"github.com/civiclens-lk/civiclens/internal/logging"
	"github.com/civiclens-lk/civiclens/internal/server"
	"github.com/civiclens-lk/civiclens/internal/session"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "civiclens",
		Short: "CivicLens civic issue reporting toolkit",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	setupFlags(rootCmd)

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newIssuesCommand())
	rootCmd.AddCommand(newReportCommand())
	rootCmd.AddCommand(newUpvoteCommand())
	rootCmd.AddCommand(newFollowCommand())
	rootCmd.AddCommand(newNotificationsCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address for serve")
	cmd.PersistentFlags().String("api-base-url", defaults.GetString("api.base_url"), "CivicLens API base URL")
	cmd.PersistentFlags().Int("api-timeout-seconds", defaults.GetInt("api.timeout_seconds"), "Per-request timeout in seconds")
	cmd.PersistentFlags().String("database-path", defaults.GetString("database.path"), "Client state SQLite path")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("session-salt", "", "Server-side session hashing salt (overrides env)")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "api.base_url", "api-base-url")
	bindFlag(cmd, "api.timeout_seconds", "api-timeout-seconds")
	bindFlag(cmd, "database.path", "database-path")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "session.salt", "session-salt")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

func loadRuntime() (config.AppConfig, *zap.Logger, error) {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return config.AppConfig{}, nil, err
	}
	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return config.AppConfig{}, nil, err
	}
	return appConfig, logger, nil
}

// openLocalStore wires the durable client-state store used by the client
// subcommands.
func openLocalStore(appConfig config.AppConfig, logger *zap.Logger) (*localstore.Store, func(), error) {
	db, err := database.OpenSQLite(appConfig.DatabasePath, logger)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() { _ = sqlDB.Close() }

	kv, err := localstore.NewGormKV(db)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	store, err := localstore.New(localstore.Config{KV: kv, Logger: logger})
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	return store, closeDB, nil
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the CivicLens demo API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func runServer(ctx context.Context) error {
	appConfig, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	handler, err := server.NewHTTPHandler(server.Dependencies{
		Store:          server.NewDemoStore(server.DemoStoreConfig{}),
		Hasher:         session.NewHasher(appConfig.SessionSalt),
		Logger:         logger,
		AllowedOrigins: appConfig.AllowedOrigins,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    appConfig.HTTPAddress,
		Handler: handler,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("address", appConfig.HTTPAddress))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wso2/data-request-api/cmd/requestctl/commands"
	"github.com/wso2/data-request-api/internal/authz"
	"github.com/wso2/data-request-api/internal/catalog"
	"github.com/wso2/data-request-api/internal/counters"
	"github.com/wso2/data-request-api/internal/datarequest"
	"github.com/wso2/data-request-api/internal/notification"
	"github.com/wso2/data-request-api/internal/system/config"
	"github.com/wso2/data-request-api/internal/system/database"
	"github.com/wso2/data-request-api/internal/system/database/provider"
	"github.com/wso2/data-request-api/internal/system/log"
	"github.com/wso2/data-request-api/internal/system/stores"
)

var (
	configPath string
	logLevel   string
	app        = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "requestctl",
		Short: "Operator tooling for data access requests",
		Long:  `Maintains request counters and maintainer notifications outside the HTTP API.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(cmd.Context())
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_PATH"), "Path to deployment.yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(commands.CountersCmd(app))
	rootCmd.AddCommand(commands.NotificationsCmd(app))

	err := rootCmd.ExecuteContext(context.Background())
	if app.Close != nil {
		if closeErr := app.Close(); closeErr != nil {
			log.GetLogger().Warn("Failed to close database", log.Error(closeErr))
		}
	}
	if err != nil {
		os.Exit(1)
	}
}

// initApp loads configuration, connects to the database and builds the services.
func initApp(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	if err := log.Init(level, "text", os.Stderr); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Initialize(&cfg.Database.DataRequest)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	provider.InitDBProvider(db)
	app.Close = provider.GetDBProviderCloser().Close
	dbClient, err := provider.GetDBProvider().GetDataRequestDBClient()
	if err != nil {
		return fmt.Errorf("failed to create database client: %w", err)
	}

	registry := stores.NewStoreRegistry(
		dbClient,
		datarequest.NewDataRequestStore(dbClient),
		counters.NewCountersStore(dbClient),
		notification.NewNotificationStore(dbClient),
	)
	catalogClient := catalog.NewClient(&cfg.Catalog)

	app.Counters = counters.NewCountersService(registry, catalogClient, authz.NewChecker(catalogClient))
	app.Notifications = notification.NewNotificationService(registry)
	app.Ctx = ctx

	log.GetLogger().Debug("requestctl initialized", log.String("database", cfg.Database.DataRequest.Type))
	return nil
}

package main

import (
	"fmt"
	"net"
	"os"
	"os/user"

	"github.com/de-tools/macro-atlas/pkg/server"
	"github.com/de-tools/macro-atlas/pkg/services/collection"
	"github.com/de-tools/macro-atlas/pkg/services/config"
	"github.com/de-tools/macro-atlas/pkg/services/explorer"
	"github.com/de-tools/macro-atlas/pkg/services/metadata"
	"github.com/de-tools/macro-atlas/pkg/services/query"
	"github.com/de-tools/macro-atlas/pkg/store/client"
	"github.com/de-tools/macro-atlas/pkg/store/sqlite"
	"github.com/de-tools/macro-atlas/pkg/store/sqlite/snapshot"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgPath      string
	settingsPath string
	profileName  string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Macro Atlas",
		RunE:  runServer,
	}

	defaultPath := ".macroatlascfg"
	if usr, err := user.Current(); err == nil {
		defaultPath = fmt.Sprintf("%s/.macroatlascfg", usr.HomeDir)
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", defaultPath,
		"Path to the .macroatlascfg file (default is $HOME/.macroatlascfg)")
	rootCmd.Flags().StringVarP(&settingsPath, "settings", "s", "", "Path to a settings file (yaml)")
	rootCmd.Flags().StringVarP(&profileName, "profile", "p", "", "API profile to use")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(settings.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log_level %q: %w", settings.LogLevel, err)
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	registry, err := config.NewRegistry(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to create config registry: %w", err)
	}

	logger.Info().Msgf("Configuration found at `%s` successfully loaded.", cfgPath)
	logger.Info().Msgf("Found the following profiles:")
	profiles, _ := registry.GetProfiles(ctx)
	for _, profile := range profiles {
		logger.Info().Msgf("Name: `%s`, URL: `%s`", profile.Name, profile.BaseURL)
	}

	name := settings.Profile
	if profileName != "" {
		name = profileName
	}
	profile, err := registry.GetProfile(ctx, name)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	api, err := client.New(profile, client.WithMetrics(client.NewMetrics(reg)))
	if err != nil {
		return fmt.Errorf("failed to create api client: %w", err)
	}

	db, err := sqlite.NewDB(sqlite.Settings{
		DbPath: settings.SnapshotDB,
	})
	if err != nil {
		return fmt.Errorf("failed to create sqlite instance: %w", err)
	}
	defer db.Close()

	snapshots, err := snapshot.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create snapshot store: %w", err)
	}

	catalog := metadata.NewLoader(api)
	go catalog.Load(ctx)

	trigger := collection.NewTrigger(api)
	if settings.CollectSchedule != "" {
		scheduler := collection.NewScheduler(trigger)
		if err := scheduler.Start(ctx, settings.CollectSchedule); err != nil {
			return fmt.Errorf("failed to start collection schedule: %w", err)
		}
		defer scheduler.Stop()
	}

	addr := net.JoinHostPort(settings.Server.Host, settings.Server.Port)
	webAPI := server.NewWebAPI(logger, server.Config{
		Addr: addr,
		Dependencies: server.Dependencies{
			Catalog:    catalog,
			Explorer:   explorer.New(api),
			Snapshots:  snapshots,
			Queries:    query.New(api),
			Collection: trigger,
			Remote:     api,
			Gatherer:   reg,
		},
	})

	return webAPI.Start()
}

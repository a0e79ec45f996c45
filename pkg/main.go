package main

import (
	"os"
	"os/signal"
	"syscall"

	pkg "git.solsynth.dev/hypernet/telemed/pkg/internal"
	"git.solsynth.dev/hypernet/telemed/pkg/internal/config"
	"git.solsynth.dev/hypernet/telemed/pkg/internal/database"
	"git.solsynth.dev/hypernet/telemed/pkg/internal/grpc"
	"git.solsynth.dev/hypernet/telemed/pkg/internal/server"
	"git.solsynth.dev/hypernet/telemed/pkg/internal/server/api"
	"git.solsynth.dev/hypernet/telemed/pkg/internal/services"
	"git.solsynth.dev/hypernet/telemed/pkg/internal/store"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Configure settings
	config.Configure(viper.GetViper())

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}
	settings := config.Load(viper.GetViper())

	// Connect to database
	var rooms store.Store
	if len(viper.GetString("database.dsn")) > 0 {
		if err := database.NewSource(); err != nil {
			log.Fatal().Err(err).Msg("An error occurred when connect to database.")
		} else if err := database.RunMigration(database.C); err != nil {
			log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
		}
		rooms = store.NewGormStore(database.C)
	} else {
		log.Warn().Msg("No database configured, rooms will be kept in memory and lost on restart.")
		rooms = store.NewMemoryStore()
	}

	// Set up the room services
	provider := services.NewProvider(settings, nil)
	manager := services.NewRoomManager(rooms, provider, settings, nil)
	router := services.NewEventRouter(manager)
	if provider.Domain() == "" {
		log.Warn().Str("provider", provider.Name()).Msg("Calling provider is not configured, joins will be refused until it is.")
	}

	// Server
	app := server.NewServer(&api.Handler{
		Rooms:    manager,
		Events:   router,
		Settings: settings,
	})
	go app.Listen()

	gs := grpc.NewGrpc()
	go func() {
		if err := gs.Listen(); err != nil {
			log.Fatal().Err(err).Msg("An error occurred when starting grpc server...")
		}
	}()
	gs.SetReady(true)

	// Configure timed tasks
	cleaner := services.NewCredentialCleaner(rooms, nil)
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	if _, err := quartz.AddFunc(viper.GetString("cleanup.schedule"), cleaner.DoCredentialCleanup); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when scheduling credential cleanup.")
	}
	quartz.Start()

	// Messages
	log.Info().Str("provider", provider.Name()).Msgf("Telemed v%s is started...", pkg.AppVersion)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msgf("Telemed v%s is quitting...", pkg.AppVersion)

	gs.SetReady(false)
	quartz.Stop()
	gs.Stop()
	_ = app.Shutdown()
}

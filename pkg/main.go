package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	pkg "git.solsynth.dev/hypernet/meeting/pkg/internal"
	"git.solsynth.dev/hypernet/meeting/pkg/internal/cache"
	"git.solsynth.dev/hypernet/meeting/pkg/internal/database"
	"git.solsynth.dev/hypernet/meeting/pkg/internal/grpc"
	server "git.solsynth.dev/hypernet/meeting/pkg/internal/http"
	"git.solsynth.dev/hypernet/meeting/pkg/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func setDefaults() {
	viper.SetDefault("bind", "0.0.0.0:4000")
	viper.SetDefault("grpc_bind", "0.0.0.0:4001")
	viper.SetDefault("environment", "development")
	viper.SetDefault("frontend", "http://localhost:3000")
	viper.SetDefault("calling.provider", "memory")
	viper.SetDefault("calling.token_duration", 3600)
	viper.SetDefault("calling.empty_timeout_duration", 300)
	viper.SetDefault("calling.stale_after", 24*time.Hour)
	viper.SetDefault("calling.history_retention", 30*24*time.Hour)
	viper.SetDefault("github.api_base", "https://api.github.com")
	viper.SetDefault("github.user_agent", "CollabClass-App")
	viper.SetDefault("github.cache_ttl", 5*time.Minute)
	viper.SetDefault("chatbot.endpoint", "https://api.groq.com/openai/v1/chat/completions")
	viper.SetDefault("chatbot.model", "openai/gpt-oss-120b")
	viper.SetDefault("chatbot.max_tokens", 500)
	viper.SetDefault("chatbot.temperature", 0.7)
	viper.SetDefault("chatbot.history_window", 5)
	viper.SetDefault("collab.poll_interval", 2*time.Second)
	viper.SetDefault("collab.chat_history_limit", 100)
}

func main() {
	// Configure settings
	setDefaults()
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")
	viper.SetEnvPrefix("meeting")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Panic().Err(err).Msg("An error occurred when loading settings.")
		}
		log.Warn().Msg("No settings file found, running with defaults and environment...")
	}
	if viper.GetString("environment") != "production" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if len(viper.GetString("chatbot.api_key")) == 0 {
		log.Fatal().Msg("Chatbot api key is missing, set chatbot.api_key.")
	}

	if err := services.CheckLiveKitCredentials(); err != nil {
		log.Fatal().Err(err).Msg("Video tokens cannot be signed.")
	}

	// Connect to database
	if viper.GetString("calling.provider") == "livekit" {
		if err := database.NewSource(); err != nil {
			log.Fatal().Err(err).Msg("An error occurred when connect to database.")
		} else if err := database.RunMigration(database.C); err != nil {
			log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
		}
		if err := services.SetupLiveKit(); err != nil {
			log.Fatal().Err(err).Msg("An error occurred when connecting to livekit...")
		}
	}

	// Initialize cache
	if err := cache.NewCache(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when initializing cache.")
	}

	if err := services.SetupDirectory(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when setting up call directory.")
	}

	// Server
	app := server.NewServer()
	go app.Listen()

	grpcServer := grpc.NewGrpc()
	go func() {
		if err := grpcServer.Listen(); err != nil {
			log.Fatal().Err(err).Msg("An error occurred when starting grpc server...")
		}
	}()

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	if _, err := quartz.AddFunc("@every 60m", services.DoAutoCallCleanup); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when scheduling call cleanup.")
	}
	quartz.Start()

	// Messages
	log.Info().Msgf("Meeting v%s is started...", pkg.AppVersion)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msgf("Meeting v%s is quitting...", pkg.AppVersion)

	grpcServer.SetServing(false)
	quartz.Stop()
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("An error occurred when shutting down server...")
	}
	grpcServer.Stop()
}

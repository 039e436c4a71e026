package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hluo1267/tripmate-server/internal/api"
	"github.com/hluo1267/tripmate-server/internal/auth"
	"github.com/hluo1267/tripmate-server/internal/config"
	"github.com/hluo1267/tripmate-server/internal/repository"
	"github.com/hluo1267/tripmate-server/internal/service"
	"github.com/hluo1267/tripmate-server/internal/utils"
)

var (
	port     int
	logLevel string
	inMemory bool
)

var rootCmd = &cobra.Command{
	Use:   "tripmate-server",
	Short: "Trip planning and shared-expense tracking server",
	RunE:  runServer,
}

func init() {
	rootCmd.Flags().IntVar(&port, "port", 0, "port to run the server on (overrides SERVER_PORT)")
	rootCmd.Flags().StringVar(&logLevel, "log", "", "log level (overrides LOG_LEVEL)")
	rootCmd.Flags().BoolVar(&inMemory, "memory", false, "use the in-memory store instead of Postgres")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg := config.LoadConfig()
	if port != 0 {
		cfg.Server.Port = port
	}
	if logLevel != "" {
		cfg.Server.LogLevel = logLevel
	}

	utils.SetupLogging(cfg.Server.LogLevel)

	// Set up the store
	var repo repository.Repository
	if inMemory {
		log.Info().Msg("using in-memory store, data will not survive a restart")
		repo = repository.NewMemoryRepository()
	} else {
		db, err := config.SetupDatabase(cfg)
		if err != nil {
			return fmt.Errorf("failed to set up database: %w", err)
		}
		defer db.Close()
		repo = repository.NewPostgresRepository(db)
	}

	// Create service
	svc := service.NewDefaultService(repo, auth.NewBcryptVerifier(), cfg.Ledger.StrictMembership)

	// Create API handler
	handler := api.NewHandler(svc)

	// Set up Gin router
	router := gin.Default()
	handler.SetupRoutes(router)

	// Start server
	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info().
		Str("addr", serverAddr).
		Bool("strict_membership", cfg.Ledger.StrictMembership).
		Msg("starting server")

	if err := http.ListenAndServe(serverAddr, router); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("fatal")
		os.Exit(1)
	}
}

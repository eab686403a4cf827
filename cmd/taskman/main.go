package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"taskman/internal/config"
	"taskman/internal/database"
	"taskman/internal/handlers"
	"taskman/internal/middleware"
	"taskman/internal/secure"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "taskman",
		Short: "Server-rendered task manager",
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the web server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe()
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Install the default task statuses",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSeed()
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func runServe() error {
	cfg := config.Load()

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		return err
	}
	if err := database.Migrate(); err != nil {
		return err
	}

	store, err := buildSessionStore(cfg)
	if err != nil {
		return err
	}

	r := handlers.NewRouter(store, database.GetDB(), secure.NewEncryptor(cfg.EncryptSecret))

	addr := ":" + cfg.Port
	log.Printf("Server starting on %s", addr)
	return http.ListenAndServe(addr, middleware.MethodOverride(r))
}

func runSeed() error {
	cfg := config.Load()

	if err := database.Connect(cfg); err != nil {
		return err
	}
	if err := database.Migrate(); err != nil {
		return err
	}

	return database.Seed(database.GetDB())
}

// buildSessionStore returns a redis-backed store when redis is
// configured, and falls back to the cookie store for single-node
// setups.
func buildSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store

	if cfg.RedisHost != "" {
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		var err error
		store, err = redisStore.NewStore(
			10,    // pool size
			"tcp", // network type
			redisAddr,
			"", // username (empty for default user)
			"", // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, err
		}
	} else {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})

	return store, nil
}

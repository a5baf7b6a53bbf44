package main // Entry point package

import (
	"context" // context for startup database calls
	"log"     // Logging library

	"github.com/joho/godotenv"    // .env loading, same contract as the original dotenv setup
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/student-board/internal/config"     // Internal config loader
	"github.com/iliyamo/student-board/internal/database"   // MySQL connection and schema bootstrap
	"github.com/iliyamo/student-board/internal/handler"    // HTTP handlers
	"github.com/iliyamo/student-board/internal/middleware" // session resolution and read cache
	"github.com/iliyamo/student-board/internal/queue"      // board activity consumer
	"github.com/iliyamo/student-board/internal/repository" // data access layer
	"github.com/iliyamo/student-board/internal/router"     // Internal router setup
	"github.com/iliyamo/student-board/internal/view"       // HTML template renderer
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database open failed: %v", err)
	}
	if err := database.EnsureSchema(context.Background(), db); err != nil {
		log.Fatalf("schema bootstrap failed: %v", err)
	}

	// Redis is optional: a nil client disables the read cache entirely.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; board read cache disabled")
	}
	cache := middleware.NewBoardCache(config.LoadCacheConfig(), rdb)

	accounts := repository.NewAccountRepo(db)
	posts := repository.NewPostRepo(db)

	renderer, err := view.NewRenderer()
	if err != nil {
		log.Fatalf("template parse failed: %v", err)
	}

	e := echo.New() // Create Echo instance
	e.Renderer = renderer
	e.Use(middleware.Session(cfg.SessionSecret)) // resolve the session cookie on every request

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, accounts))
	router.RegisterBoard(e, handler.NewBoardHandler(posts, cache), cache)

	// Background consumer appends board activity to logs/board.log.
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}

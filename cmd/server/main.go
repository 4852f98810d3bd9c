package main // Entry point package

import (
	"context" // Context for bootstrap operations
	"log"     // Logging library
	"time"    // Timeouts for bootstrap operations

	"github.com/joho/godotenv"    // Loads .env files during development
	"github.com/labstack/echo/v4" // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/haanng/pulse-survey/internal/config"     // Internal config loader
	"github.com/haanng/pulse-survey/internal/database"   // Database connection and migrations
	"github.com/haanng/pulse-survey/internal/handler"    // HTTP handlers
	"github.com/haanng/pulse-survey/internal/middleware" // JWT, cache and rate limit middleware
	"github.com/haanng/pulse-survey/internal/queue"      // RabbitMQ publisher and consumer
	"github.com/haanng/pulse-survey/internal/repository" // Data access layer
	"github.com/haanng/pulse-survey/internal/router"     // Route registration
	"github.com/haanng/pulse-survey/internal/service"    // Domain services
	"github.com/haanng/pulse-survey/internal/sheets"     // Spreadsheet export client
)

func main() {
	// A missing .env is fine in production where real env vars are set.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load()

	bootCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Open(bootCtx, database.Params{
		User:        cfg.DBUser,
		Pass:        cfg.DBPass,
		Host:        cfg.DBHost,
		Port:        cfg.DBPort,
		Name:        cfg.DBName,
		MaxConns:    cfg.DBMaxConns,
		MaxLifetime: time.Duration(cfg.DBConnLifetime) * time.Minute,
	})
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(bootCtx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	adminID, err := database.EnsureAdmin(bootCtx, db, cfg.AdminEmployeeID, cfg.AdminPassword, cfg.AdminName, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("ensure admin: %v", err)
	}
	if err := database.EnsureSampleSurvey(bootCtx, db, adminID); err != nil {
		log.Fatalf("seed sample survey: %v", err)
	}

	// Optional infrastructure.  Redis degrades to pass-through middleware,
	// the sheets client to a no-op exporter.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, cache and rate limiting disabled")
	}
	sheetClient := sheets.NewFromEnv(bootCtx)

	store := repository.NewStore(db)
	publisher := queue.NewPublisher()

	recorder := service.NewRecorder(store, publisher)
	surveyQuery := service.NewSurveyQuery(store)
	reporter := service.NewReporter(store)
	syncer := service.NewSheetSyncer(store, sheetClient)

	// The consumer drains response.recorded events and mirrors each one to
	// the spreadsheet.  It reconnects on broker failure.
	go queue.StartResponseSyncConsumer(syncer)

	authH := handler.NewAuthHandler(cfg, store.UserRepo)
	surveyH := handler.NewSurveyHandler(surveyQuery)
	responseH := handler.NewResponseHandler(recorder, store.ResponseRepo)
	adminUserH := handler.NewAdminUserHandler(cfg, store.UserRepo, reporter)
	adminSurveyH := handler.NewAdminSurveyHandler(store.SurveyRepo, store.QuestionRepo)
	adminReportH := handler.NewAdminReportHandler(store.ResponseRepo, store.SyncLogRepo, reporter, syncer)

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterSurvey(e, surveyH, responseH, cfg.JWTSecret, cache)
	router.RegisterAdmin(e, adminUserH, adminSurveyH, adminReportH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

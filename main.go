package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"squad-planner-system/cache"
	"squad-planner-system/config"
	"squad-planner-system/handlers"
	"squad-planner-system/middleware"
	"squad-planner-system/services"
	"squad-planner-system/store"
	"squad-planner-system/utils"
	"squad-planner-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration:", err)
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // photo uploads
	})

	app.Use(middleware.GatewayAuthMiddleware(cfg.Gateway.Token))

	allowedOriginsList := strings.Split(cfg.Server.AllowedOrigins, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Name, X-User-Email",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	app.Use(middleware.UserContextMiddleware())

	if cfg.Photos.Enabled() {
		if err := utils.InitPhotoStore(utils.PhotoStoreConfig{
			AccountID:       cfg.Photos.AccountID,
			AccessKeyID:     cfg.Photos.AccessKeyID,
			AccessKeySecret: cfg.Photos.AccessKeySecret,
			Bucket:          cfg.Photos.Bucket,
			PublicBaseURL:   cfg.Photos.PublicBaseURL,
		}); err != nil {
			log.Fatal("failed to initialize photo store:", err)
		}
		log.Println("✅ Photo store initialized")
	} else {
		log.Println("⚠️  Photo store not configured, player photo uploads disabled")
	}

	var remote store.RemoteStore
	if cfg.Store.DatabaseURL != "" {
		db, err := gorm.Open(postgres.Open(cfg.Store.DatabaseURL), &gorm.Config{})
		if err != nil {
			log.Fatal("failed to connect to database:", err)
		}
		pg, err := store.NewPostgresStore(db, cfg.GetPollInterval())
		if err != nil {
			log.Fatal("failed to set up postgres store:", err)
		}
		defer pg.Close()
		remote = pg
		log.Println("✅ Postgres store ready")
	} else {
		log.Println("⚠️  DATABASE_URL not set, using in-memory store (data shared only within this process)")
		remote = store.NewMemoryStore()
	}

	boltCache, err := cache.OpenBoltCache(cfg.Cache.Path)
	if err != nil {
		log.Fatal("failed to open local cache:", err)
	}
	defer boltCache.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := workers.NewWriteRunner(256)
	runner.OnError = func(name string, err error) {
		log.Printf("[SyncWrite] %s failed: %v", name, err)
	}
	go runner.Start(ctx)

	syncService := services.NewSyncService(remote, boltCache, runner)
	if err := syncService.Open(); err != nil {
		log.Fatal("failed to open sync service:", err)
	}

	squadService := services.NewSquadService(syncService)
	matchService := services.NewMatchService(syncService)
	scheduleService := services.NewScheduleService(syncService)
	statsService := services.NewStatsService(syncService)
	rosterService := services.NewRosterService(syncService)
	formationService := services.NewFormationService(syncService)

	scheduleService.StartCalendarSweeper()

	handlers.SetupSquadRoutes(app, squadService, matchService)
	handlers.SetupMatchRoutes(app, matchService, squadService)
	handlers.SetupScheduleRoutes(app, scheduleService)
	handlers.SetupRosterRoutes(app, rosterService, statsService)
	handlers.SetupFormationRoutes(app, formationService)
	handlers.SetupSyncRoutes(app, syncService)

	go func() {
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", cfg.Server.Port)
	log.Println("✅ Calendar sweeper running")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

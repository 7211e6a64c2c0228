package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Wizi44/PNodes/config"
	"github.com/Wizi44/PNodes/handlers"
	"github.com/Wizi44/PNodes/middleware"
	"github.com/Wizi44/PNodes/services"
	"github.com/Wizi44/PNodes/utils"
)

func main() {
	// 1. Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Println("=== Configuration ===")
	log.Printf("Server: %s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Roster source: %s (every %ds)", cfg.Roster.URL, cfg.Roster.PollInterval)

	// 2. Core services
	geo, err := utils.NewGeoResolver(cfg.GeoIP.DBPath)
	if err != nil {
		log.Printf("GeoIP resolver unavailable: %v", err)
	}
	defer geo.Close()

	mongoService, err := services.NewMongoDBService(cfg)
	if err != nil {
		log.Printf("MongoDB connection failed, history archive disabled: %v", err)
		mongoService = nil
	}
	if mongoService != nil {
		defer mongoService.Close()
	}

	discordBot, err := services.NewDiscordBotService(cfg.Discord.BotToken, cfg.Discord.ChannelID)
	if err != nil {
		log.Printf("Discord bot initialization failed, notifications disabled: %v", err)
		discordBot = nil
	}
	if discordBot != nil {
		defer discordBot.Close()
	}

	versions := &utils.VersionPolicy{
		CurrentStable: cfg.Versions.CurrentStable,
		MinSupported:  cfg.Versions.MinSupported,
	}

	engine := services.NewEngine(versions)
	cache := services.NewCacheService(cfg)
	rosterClient := services.NewRosterClient(cfg, geo)
	poller := services.NewPoller(engine, rosterClient, cache,
		cfg.PollIntervalDuration(), cfg.RosterTimeoutDuration())
	historyService := services.NewHistoryService(engine, mongoService, 5*time.Minute)
	alertService := services.NewAlertService(engine, discordBot)

	// 3. Background services
	log.Println("=== Starting Services ===")

	poller.Start()
	log.Println("Roster poller started")

	historyService.Start()
	log.Println("History service started")

	alertService.Start()
	log.Println("Alert service started")

	// 4. Web server
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestLogger())
	e.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Recovered from panic: %v", r)
					c.Error(fmt.Errorf("internal server error"))
				}
			}()
			return next(c)
		}
	})

	// 5. Handlers
	h := handlers.NewHandler(cfg, engine, cache)
	historyHandlers := handlers.NewHistoryHandlers(historyService)

	// 6. Routes
	e.GET("/health", h.GetHealth)

	api := e.Group("/api")
	api.GET("/status", h.GetStatus)
	api.GET("/nodes", h.GetNodes)
	api.GET("/nodes/:id", h.GetNode)
	api.GET("/nodes/:id/explain", h.GetExplain)
	api.GET("/anomalies", h.GetAnomalies)
	api.GET("/partition", h.GetPartition)
	api.GET("/regions", h.GetRegions)
	api.GET("/timetravel", h.GetTimeTravel)

	history := api.Group("/history")
	history.GET("/network", historyHandlers.GetNetworkHistory)
	history.GET("/nodes/:id", historyHandlers.GetNodeHistory)

	// 7. Start server with graceful shutdown
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	go func() {
		log.Printf("Server running on http://%s", serverAddr)
		if err := e.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("shutting down the server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Graceful shutdown initiated...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("Stopping services...")
	alertService.Stop()
	historyService.Stop()
	poller.Stop()
	cache.Stop()
	log.Println("All services stopped")

	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
	log.Println("Server exited cleanly")
}

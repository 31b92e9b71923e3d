package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"farmhith/config"
	"farmhith/database"
	"farmhith/logger"
	"farmhith/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg := config.Load()
	if err := logger.Init("log/app"); err != nil {
		logger.Error("Failed to open log file, logging to stdout only", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration: " + err.Error())
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		os.Exit(1)
	}

	app := fiber.New(fiber.Config{
		ReadBufferSize:  32768, // 32KB read buffer
		WriteBufferSize: 32768, // 32KB write buffer
		ReadTimeout:     time.Second * 30,
		WriteTimeout:    time.Second * 30,
		BodyLimit:       4 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	asyncLogger := logger.NewAsyncLogger(db)
	go asyncLogger.ProcessLog()

	routes.SetupRoutes(app, cfg, routes.NewServices(db, cfg), routes.NewSessionStore(cfg), asyncLogger)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("Server shutdown failed", err)
		}
	}()

	logger.Success("Server is running on " + cfg.ListenAddr() +
		"\n\t\t\t\t\t\t******************************************************************************************\n")
	if err := app.Listen(cfg.ListenAddr()); err != nil {
		logger.Error("Server stopped", err)
	}

	asyncLogger.Close()
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

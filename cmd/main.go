package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/teyman11/voicebot/internal/config"
	"github.com/teyman11/voicebot/internal/http"
	"go.uber.org/zap"
)

func main() {
	// Initialize context
	ctx, err := config.InitContext()
	if err != nil {
		log.Fatalf("Failed to initialize context: %v", err)
	}

	defer func() {
		if err := ctx.Logger.Sync(); err != nil {
			fmt.Printf("Failed to sync logger: %v\n", err)
		}
	}()

	// Reconcile worksheet schemas before serving traffic. Menu migration
	// runs first so legacy menu rows survive the header reset.
	bootCtx := context.Background()
	if err := ctx.Schema.MigrateMenuItems(bootCtx); err != nil {
		ctx.Logger.Fatal("Failed to migrate menu items worksheet", zap.Error(err))
	}
	if err := ctx.Schema.EnsureTables(bootCtx); err != nil {
		ctx.Logger.Fatal("Failed to ensure worksheets", zap.Error(err))
	}

	// Initialize HTTP service
	service := http.NewHTTPService(ctx)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	// Start the server
	ctx.Logger.Info("Starting server", zap.String("port", port))
	if err := service.Engine().Run(":" + port); err != nil {
		ctx.Logger.Fatal("Failed to start the server", zap.Error(err))
	}
}

package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"rankcore/internal/api"
	"rankcore/internal/config"
	"rankcore/internal/leaderboard"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load("../.env"); err != nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("💡 No .env file found, using environment variables only")
		}
	} else {
		log.Println("✅ Loaded environment from ../.env")
	}

	log.Println("🏆 ================================")
	log.Println("🏆  RANKCORE - LEADERBOARD ENGINE")
	log.Println("🏆 ================================")

	appConfig := config.Load()

	core := leaderboard.NewCore(appConfig.Ranking.StripeCount)
	log.Printf("🏗️  Ranking index: %d stripes", appConfig.Ranking.StripeCount)

	if appConfig.Observability.Enabled {
		debugCfg := api.DefaultObservabilityConfig()
		if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
			if err := api.StartDebugServer(debugCfg); err != nil {
				log.Printf("⚠️ Debug server disabled: %v", err)
			}
		}
	} else {
		log.Println("📊 Observability disabled via METRICS_DISABLED")
	}

	server := api.NewServer(core)

	addr := ":" + strconv.Itoa(appConfig.Server.Port)
	go func() {
		log.Printf("🌐 API server on http://localhost%s", addr)
		log.Printf("   - REST:      http://localhost%s/api/v1/leaderboard", addr)
		log.Printf("   - WebSocket: ws://localhost%s/ws", addr)

		if err := server.Start(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	server.Stop()
	log.Println("👋 Goodbye!")
}

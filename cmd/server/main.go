package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/phorm-app/phorm/internal/common/clock"
	"github.com/phorm-app/phorm/internal/common/uuid"
	"github.com/phorm-app/phorm/internal/config"
	"github.com/phorm-app/phorm/internal/handlers/httpapi"
	"github.com/phorm-app/phorm/internal/passcode"
	gameRepo "github.com/phorm-app/phorm/internal/repositories/game"
	sessionRepo "github.com/phorm-app/phorm/internal/repositories/session"
	ledgerService "github.com/phorm-app/phorm/internal/services/ledger"
	sessionService "github.com/phorm-app/phorm/internal/services/session"
)

func main() {
	cfg := config.Load()

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Initialize repositories
	sessions, err := sessionRepo.NewRedis(&sessionRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create session repository: %v", err)
	}

	games, err := gameRepo.NewRedis(&gameRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create game repository: %v", err)
	}

	// Initialize the session service
	sessionSvc, err := sessionService.New(&sessionService.Config{
		SessionRepo:       sessions,
		PasscodeGenerator: passcode.New(&passcode.Config{Seed: cfg.PasscodeSeed}),
		Clock:             &clock.DefaultClock{},
		UUIDGenerator:     uuid.New(),
	})
	if err != nil {
		log.Fatalf("Failed to create session service: %v", err)
	}

	// Initialize the ledger service
	ledgerSvc, err := ledgerService.New(&ledgerService.Config{
		GameRepo:      games,
		SessionRepo:   sessions,
		Clock:         &clock.DefaultClock{},
		UUIDGenerator: uuid.New(),
	})
	if err != nil {
		log.Fatalf("Failed to create ledger service: %v", err)
	}

	// Initialize the HTTP handler
	handler, err := httpapi.New(&httpapi.Config{
		SessionService: sessionSvc,
		LedgerService:  ledgerSvc,
	})
	if err != nil {
		log.Fatalf("Failed to create HTTP handler: %v", err)
	}

	router := gin.Default()
	handler.RegisterRoutes(router)

	log.Printf("Listening on %s", cfg.HTTPAddr)
	if err := router.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

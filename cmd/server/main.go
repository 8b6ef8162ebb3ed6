package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/ncls-p/notes-sub001/internal/auth"
	"github.com/ncls-p/notes-sub001/internal/authz"
	"github.com/ncls-p/notes-sub001/internal/config"
	"github.com/ncls-p/notes-sub001/internal/database"
	"github.com/ncls-p/notes-sub001/internal/handlers"
	"github.com/ncls-p/notes-sub001/internal/kafka"
	"github.com/ncls-p/notes-sub001/internal/middleware"
	redisservice "github.com/ncls-p/notes-sub001/internal/redis"
	"github.com/ncls-p/notes-sub001/internal/repositories"
	"github.com/ncls-p/notes-sub001/internal/router"
	"github.com/ncls-p/notes-sub001/internal/services"
	"github.com/ncls-p/notes-sub001/internal/share"
	"github.com/ncls-p/notes-sub001/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	logger.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Invalid configuration")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Redis is optional: without it the ACL cache is skipped and
	// revocations fall back to the in-process list.
	var redisService *redisservice.Service
	if cfg.RedisAddr != "" {
		redisService, err = redisservice.NewService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisService.Close()
	}

	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewProducer(cfg.KafkaBrokers)
		defer producer.Close()
	}

	issuer, err := auth.NewSessionIssuer(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Invalid token secret configuration")
	}

	var revocations auth.RevocationChecker
	var revoker handlers.Revoker
	if redisService != nil {
		revocations = redisService
		revoker = redisService
	} else {
		list := auth.NewRevocationList(time.Minute)
		defer list.Stop()
		revocations = list
		revoker = list
	}

	verifier := auth.NewSessionVerifier(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, revocations)

	var aclCache repositories.ACLCache
	if redisService != nil {
		aclCache = redisService
	}

	userRepo := repositories.NewUserRepository(db)
	folderRepo := repositories.NewFolderRepository(db)
	noteRepo := repositories.NewNoteRepository(db)
	shareRepo := repositories.NewShareRepository(db, aclCache)
	publicStore := repositories.NewPublicAccessStore(db)

	authzService := authz.NewService(shareRepo)
	shareMgr := share.NewManager(publicStore)

	var directory *services.UserDirectory
	if cfg.UserServiceURL != "" {
		directory = services.NewUserDirectory(cfg.UserServiceURL)
	}

	authHandler := handlers.NewAuthHandler(userRepo, issuer, verifier, revoker, producer, cfg.CookieSecure)
	folderHandler := handlers.NewFolderHandler(folderRepo, noteRepo, shareRepo, userRepo, directory, authzService, shareMgr, producer)
	noteHandler := handlers.NewNoteHandler(noteRepo, folderRepo, shareRepo, userRepo, directory, authzService, shareMgr, producer)
	publicHandler := handlers.NewPublicHandler(shareMgr, noteRepo)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.LoggerMiddleware())
	engine.Use(middleware.CORSMiddleware())
	middleware.SetupPrometheus(engine)

	router.SetupRouter(engine, authHandler, folderHandler, noteHandler, publicHandler, middleware.AuthMiddleware(verifier))

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: engine,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Port).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info().Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("Forced shutdown")
	}

	logger.Log.Info().Msg("Server exited")
}

package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/quest-maker/auth-service/internal/config"
	"github.com/quest-maker/auth-service/internal/handler"
	"github.com/quest-maker/auth-service/internal/hash"
	"github.com/quest-maker/auth-service/internal/logger"
	"github.com/quest-maker/auth-service/internal/middleware"
	"github.com/quest-maker/auth-service/internal/profile"
	"github.com/quest-maker/auth-service/internal/router"
	"github.com/quest-maker/auth-service/internal/service"
	"github.com/quest-maker/auth-service/internal/storage/mongodb"
	"github.com/quest-maker/auth-service/internal/token"
)

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	storage, err := mongodb.New(ctx, cfg.MongoURI(), cfg.Public.Database, cfg.Public.Collection)
	cancel()
	if err != nil {
		log.Fatal(err)
	}
	defer storage.Cleanup()

	hasher := hash.NewBcrypt(cfg.Public.BcryptCost)
	tokens := token.New(cfg.TokenKey(), cfg.TokenTTL())
	auth := service.NewAuth(storage, hasher)
	profiles := profile.New(cfg.Public.UserServiceURL)

	h := handler.New(auth, tokens, profiles, storage)
	r := router.New(&router.Deps{
		Handler: h,
		Auth:    middleware.NewAuth(tokens),
	})

	logger.Log.Info("server started", "addr", cfg.Public.ListenAddr)
	log.Fatal(http.ListenAndServe(cfg.Public.ListenAddr, r))
}

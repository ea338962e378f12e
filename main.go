package main

import (
	"errors"
	"log"
	"os"

	"induchat/internal/api"
	"induchat/internal/config"
	"induchat/internal/redis"
	"induchat/internal/service/dispatch"
	"induchat/internal/session"
	"induchat/internal/storage"
	"induchat/internal/store"

	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := os.Getenv("INDUCHAT_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	conversationStore, cleanup, err := openStore(cfg)
	if err != nil {
		log.Fatalf("open conversation store: %v", err)
	}
	defer cleanup()

	sessions := session.NewManager(dispatch.New())
	handlers := api.NewHandler(sessions, conversationStore)

	router := gin.Default()
	handlers.RegisterRoutes(router)

	addr := cfg.BasicConfig.ServerAddress
	if addr == "" {
		addr = ":8090"
	}

	if err := router.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func openStore(cfg *config.Config) (store.Store, func(), error) {
	noop := func() {}
	backend := cfg.BasicConfig.Store
	log.Printf("conversation store: %s", backend)

	switch backend {
	case "file":
		st, err := store.NewFileStore(cfg.BasicConfig.ConversationsDir)
		return st, noop, err
	case "sqlite3", "mysql":
		db, err := storage.Open(backend, cfg)
		if err != nil {
			return nil, noop, err
		}
		if err := storage.Migrate(db, backend); err != nil {
			db.Close()
			return nil, noop, err
		}
		return storage.NewArchive(db), func() { db.Close() }, nil
	case "redis":
		client, err := redis.NewRedisClient(cfg)
		if err != nil {
			return nil, noop, err
		}
		st := store.NewRedisStore(client, 0, func(err error) bool {
			return errors.Is(err, redis.ErrCacheMiss)
		})
		return st, func() { client.Close() }, nil
	}
	return nil, noop, errors.New("unsupported store backend: " + backend)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/DarianStillwater/courtside/pkg/api"
	"github.com/DarianStillwater/courtside/pkg/clients"
	"github.com/DarianStillwater/courtside/pkg/config"
	"github.com/DarianStillwater/courtside/pkg/log"
	"github.com/DarianStillwater/courtside/pkg/manager"
	"github.com/DarianStillwater/courtside/pkg/match/types"
	"github.com/DarianStillwater/courtside/pkg/repositories"
	"github.com/DarianStillwater/courtside/pkg/servers"
	"github.com/DarianStillwater/courtside/pkg/version"
	"github.com/DarianStillwater/courtside/pkg/workers"
)

const (
	saveMatchChannelSize    = 100
	notificationSinkSize    = 4096
	shutdownGracefulTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	apiPort := flag.Int("api-port", cfg.APIPort, "API port to listen on")
	wsPort := flag.Int("ws-port", cfg.WSPort, "Spectator websocket port to listen on")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting courtside server version %s", version.Get())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repository, err := newRepository(ctx, cfg)
	if err != nil {
		panic(fmt.Sprintf("Failed to open repository: %v", err))
	}
	defer repository.Close(ctx)

	saveMatchChan := make(chan workers.SaveMatchRequest, saveMatchChannelSize)
	saveMatchWorker := workers.NewSaveMatchWorker(workers.NewSaveMatchWorkerOptions{
		Repository:    repository,
		SaveMatchChan: saveMatchChan,
	})
	go saveMatchWorker.Start(ctx)

	spectatorManager := clients.NewSpectatorManager()
	broadcastChan := make(chan types.Notification, notificationSinkSize)
	broadcastWorker := workers.NewBroadcastWorker(workers.NewBroadcastWorkerOptions{
		Spectators:    spectatorManager,
		Notifications: broadcastChan,
	})
	go broadcastWorker.Start(ctx)

	sinks := []chan<- types.Notification{broadcastChan}
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			panic(fmt.Sprintf("Failed to parse redis URL: %v", err))
		}
		publishChan := make(chan types.Notification, notificationSinkSize)
		publishWorker := workers.NewRedisPublishWorker(workers.NewRedisPublishWorkerOptions{
			Client:        redis.NewClient(redisOpts),
			Channel:       cfg.RedisChannel,
			Notifications: publishChan,
		})
		go publishWorker.Start(ctx)
		sinks = append(sinks, publishChan)
	}

	matchManager := manager.NewMatchManager(manager.NewMatchManagerOptions{
		SaveMatchChan:     saveMatchChan,
		NotificationSinks: sinks,
	})

	wsServer := servers.NewWSServer(servers.NewWSServerOptions{
		Port:       *wsPort,
		Spectators: spectatorManager,
		Registry:   matchManager,
	})
	go wsServer.Start(ctx)

	apiServer := api.NewAPIServer(api.NewAPIServerOptions{
		Port:         *apiPort,
		MatchManager: matchManager,
		Repository:   repository,
	})
	go apiServer.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownGracefulTimeout)
	defer shutdownCancel()
	if err := apiServer.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop API server: %v", err)
	}
	matchManager.Shutdown()
	cancel()
}

func newRepository(ctx context.Context, cfg config.ServerConfig) (repositories.Repository, error) {
	if cfg.DatabaseURL != "" {
		log.Info("Using postgres repository")
		return repositories.NewPostgresRepository(ctx, cfg.DatabaseURL)
	}
	log.Info("Using sqlite repository at %s", cfg.SQLitePath)
	return repositories.NewSQLiteRepository(ctx, cfg.SQLitePath)
}

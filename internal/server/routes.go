package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"hatparty/internal/analytics"
	"hatparty/internal/broadcast"
	"hatparty/internal/config"
	"hatparty/internal/db"
	"hatparty/internal/events"
	"hatparty/internal/game"
	"hatparty/internal/logging"
	"hatparty/internal/metrics"
	"hatparty/internal/recorder"
	"hatparty/internal/rooms"
)

const (
	shutdownTimeout = 10 * time.Second
	recorderBuffer  = 1024
)

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /parties/main/{room}", s.handleSocket)
	mux.HandleFunc("GET /parties/main/{$}", s.handleSocket)
	mux.HandleFunc("GET /rooms/{code}/ws", s.handleSocket)
	mux.HandleFunc("POST /rooms", s.handleCreateRoom)
	mux.HandleFunc("GET /rooms", s.handleListRooms)
	mux.HandleFunc("GET /rooms/{code}", s.handleRoomInfo)
	mux.HandleFunc("GET /rooms/{code}/history", s.handleRoomHistory)
	mux.HandleFunc("GET /matches/{id}", s.handleMatchRecap)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /health", s.handleHealth)
	if s.Metrics != nil {
		mux.Handle("GET /metrics", s.Metrics.Handler())
	}
	return mux
}

func Run() error {
	appCfg := config.Load()

	log, err := logging.New(logging.Options{File: appCfg.LogFile, Level: appCfg.LogLevel})
	if err != nil {
		return fmt.Errorf("initialising logger: %w", err)
	}
	defer log.Sync()

	m := metrics.New()
	bus := events.NewBus()
	b := broadcast.NewBroadcaster(bus)

	gameCfg := game.DefaultConfig()
	gameCfg.GameDuration = appCfg.GameDuration
	gameCfg.EntityTTL = appCfg.EntityTTL
	roomStore := rooms.NewStore(rooms.Options{
		Game:    gameCfg,
		IdleTTL: appCfg.RoomIdleTTL,
		Logger:  log,
		Events:  bus,
		Metrics: m,
	})

	srv := &Server{
		Rooms:        roomStore,
		Broadcaster:  b,
		Metrics:      m,
		Log:          log,
		MessageRate:  rate.Limit(appCfg.MessageRate),
		MessageBurst: appCfg.MessageBurst,
	}

	// Optional database connection
	var recorderDone chan struct{}
	if appCfg.DatabaseURL != "" {
		database, err := db.Connect(appCfg.DatabaseURL, log)
		if err != nil {
			log.Warn("database unavailable, running without match history", zap.Error(err))
		} else {
			defer database.Close()
			if err := database.Migrate(); err != nil {
				log.Error("migration failed", zap.Error(err))
			}
			srv.DB = database
			srv.Queries = analytics.NewQueries(database)

			feed := b.Subscribe(recorderBuffer)
			recorderDone = make(chan struct{})
			go func() {
				defer close(recorderDone)
				recorder.New(database, log).Run(context.Background(), feed)
			}()
		}
	} else {
		log.Info("DATABASE_URL not set, running without database")
	}

	// cancelled on shutdown so websocket and SSE handlers return
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpSrv := &http.Server{
		Addr:              "0.0.0.0:" + appCfg.Port,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	httpSrv.RegisterOnShutdown(cancelBase)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", httpSrv.Addr))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			roomStore.Close()
			return fmt.Errorf("serving http: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err = httpSrv.Shutdown(shutdownCtx)

	// rooms publish events; stop them before closing the bus
	roomStore.Close()
	close(bus.GameEvents)
	<-b.Done()
	b.Close()
	if recorderDone != nil {
		<-recorderDone
	}
	log.Info("shutdown complete")
	return err
}

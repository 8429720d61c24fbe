package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	echoapi "github.com/Sajalaxena/edu-Darshi-sub000/apps/api/echo"
	"github.com/Sajalaxena/edu-Darshi-sub000/core"
	"github.com/Sajalaxena/edu-Darshi-sub000/core/auth"
	"github.com/Sajalaxena/edu-Darshi-sub000/core/question"
	eventsvc "github.com/Sajalaxena/edu-Darshi-sub000/services/events"
	logsvc "github.com/Sajalaxena/edu-Darshi-sub000/services/logger"
	storesvc "github.com/Sajalaxena/edu-Darshi-sub000/services/questionstore"
	quizsvc "github.com/Sajalaxena/edu-Darshi-sub000/services/quiz"
	sessionsvc "github.com/Sajalaxena/edu-Darshi-sub000/services/session"
	"github.com/Sajalaxena/edu-Darshi-sub000/storage/database"
)

const sessionPurgeInterval = time.Hour

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig()
	if err != nil {
		return errors.Wrap(err, "loading config")
	}

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rdb *redis.Client
	if conf.Session.Driver == "redis" || conf.Quiz.Driver == "redis" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     conf.Redis.Address,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		})
		defer func() {
			if err := rdb.Close(); err != nil {
				logger.Error("closing redis client", err)
			}
		}()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return errors.Wrap(err, "connecting to redis")
		}
	}

	var session auth.Session
	switch conf.Session.Driver {
	case "memory":
		session = sessionsvc.NewMemorySession()
	case "redis":
		session = sessionsvc.NewRedisSession(rdb)
	case "postgres":
		db, err := database.Open(ctx, conf)
		if err != nil {
			return errors.Wrap(err, "setting up database")
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Error("closing database", err)
			}
		}()
		if err := database.Migrate(db.DB, "up"); err != nil {
			return err
		}
		dbSession := sessionsvc.NewDBSession(db)
		go purgeSessions(ctx, dbSession, logger)
		session = dbSession
	default:
		return errors.Errorf("unknown session driver %q", conf.Session.Driver)
	}

	var instances question.InstanceStore
	switch conf.Quiz.Driver {
	case "memory":
		instances = quizsvc.NewMemoryStore(conf.Quiz.InstanceTTL)
	case "redis":
		instances = quizsvc.NewRedisStore(rdb, conf.Quiz.InstanceTTL, logger)
	default:
		return errors.Errorf("unknown quiz driver %q", conf.Quiz.Driver)
	}

	store := storesvc.NewClient(conf.Store)
	hub := eventsvc.NewHub(logger)
	go hub.Run(ctx)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate, translator := core.NewValidator()
	question.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	server := echoapi.NewServer(conf.Server.Address, shutdown, &echoapi.Deps{
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
		AuthSvc:    auth.NewService(conf, session),
		Store:      store,
		DailySvc:   question.NewDailyService(store, instances),
		Hub:        hub,
	})

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-serverErrors:
		return errors.Wrap(err, "server error")

	case sig := <-shutdown:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Stop(ctx); err != nil {
			return errors.Wrap(err, "could not stop server gracefully")
		}
	}
	return nil
}

// purgeSessions drops expired admin sessions from the database until ctx is done.
func purgeSessions(ctx context.Context, sessions *sessionsvc.DBSession, logger core.Logger) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.Purge(ctx)
			if err != nil {
				logger.Error("purging admin sessions", err)
				continue
			}
			logger.Debug(fmt.Sprintf("purged %d expired admin sessions", n))
		}
	}
}

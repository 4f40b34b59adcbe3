package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	echoapi "github.com/Diva-jaw/Frontend--sub001/apps/api/echo"
	"github.com/Diva-jaw/Frontend--sub001/core"
	"github.com/Diva-jaw/Frontend--sub001/core/catalog"
	"github.com/Diva-jaw/Frontend--sub001/core/enrollment"
	"github.com/Diva-jaw/Frontend--sub001/core/menu"
	emailsvc "github.com/Diva-jaw/Frontend--sub001/services/email"
	enrollmentsvc "github.com/Diva-jaw/Frontend--sub001/services/enrollment"
	logsvc "github.com/Diva-jaw/Frontend--sub001/services/logger"
	metricsvc "github.com/Diva-jaw/Frontend--sub001/services/metrics"
	"github.com/Diva-jaw/Frontend--sub001/storage/database"
	inmemdb "github.com/Diva-jaw/Frontend--sub001/storage/database/inmem"
	sqlxrepos "github.com/Diva-jaw/Frontend--sub001/storage/database/sqlx"
	"github.com/Diva-jaw/Frontend--sub001/storage/menustore"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()
	ctx := context.Background()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up catalog
	cat, err := loadCatalog(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading catalog: %v", err), err)
	}
	dropdown := menu.NewDropdown(cat, menu.DefaultRoutes())
	if unrouted := dropdown.Routes().Unrouted(cat); len(unrouted) > 0 {
		logger.Warn(fmt.Sprintf("%d catalog levels have no route and ignore clicks", len(unrouted)))
	}

	// set up menu state store
	menuStore, closeStore, err := setUpMenuStore(ctx, conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up menu store: %v", err), err)
	}
	defer closeStore()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	var (
		enrollSvc enrollment.Service
		leads     echoapi.LeadQuerier
	)
	switch conf.Enrollment.Backend {
	case "http":
		enrollSvc = enrollmentsvc.NewClient(conf, logger)
	default:
		repo, closeDB, err := setUpLeadRepository(ctx, conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		defer func() {
			if err := closeDB(); err != nil {
				dbLogger.Fatal("Failed to close", err)
			}
		}()
		local := enrollment.NewLocalService(cat, repo, mailSvc, conf, logger)
		enrollSvc, leads = local, local
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate, translator := core.NewValidator()
	core.ParseEmailTemplates(conf, logger)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			Dropdown:   dropdown,
			MenuStore:  menuStore,
			Enrollment: enrollSvc,
			Leads:      leads,
			Metrics:    metricsvc.New(),
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(ctx, conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func loadCatalog(conf *core.Config) (*catalog.Catalog, error) {
	if conf.CatalogPath == "" {
		return catalog.Default()
	}
	f, err := os.Open(conf.CatalogPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening catalog")
	}
	defer f.Close()
	return catalog.Load(f)
}

func setUpMenuStore(ctx context.Context, conf *core.Config) (menu.Store, func(), error) {
	if conf.Session.MenuStore != "redis" {
		return menustore.NewMemoryStore(conf.Session.MenuTTL), func() {}, nil
	}
	rdb, err := menustore.DialRedis(ctx, conf.Session.RedisAddr, conf.Session.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	return menustore.NewRedisStore(rdb, conf.Session.MenuTTL), func() { closeRedis(rdb) }, nil
}

func closeRedis(rdb *redis.Client) {
	if err := rdb.Close(); err != nil {
		log.Printf("closing redis: %v", err)
	}
}

// setUpLeadRepository returns the postgres repository, or the in-memory one when the engine is "memory".
func setUpLeadRepository(ctx context.Context, conf *core.Config) (enrollment.Repository, func() error, error) {
	if conf.Database.Engine == "memory" {
		return inmemdb.NewLeadRepository(inmemdb.Open()), func() error { return nil }, nil
	}

	db, err := setUpDB(ctx, conf)
	if err != nil {
		return nil, nil, err
	}
	return sqlxrepos.NewLeadRepository(db), db.Close, nil
}

func setUpDB(ctx context.Context, conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(ctx, conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(ctx, db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

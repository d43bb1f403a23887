package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-server/api"
	"github.com/carson-networks/finance-server/internal/config"
	"github.com/carson-networks/finance-server/internal/importer"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/service"
	"github.com/carson-networks/finance-server/internal/storage"
	"github.com/carson-networks/finance-server/internal/storage/memory"
	"github.com/carson-networks/finance-server/internal/storage/postgres"
)

func main() {
	logger := logging.SetupLogging()
	logrus.Info("finance-server starting")

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	var store storage.Store
	switch envConfig.StorageBackend {
	case config.BackendMemory:
		logrus.Info("storage backend: memory")
		store = memory.NewStore(storage.NewRandomID)
	default:
		logrus.Info("storage backend: postgres")
		sqlDB, err := sql.Open("postgres", envConfig.PostgresURL())
		if err != nil {
			logrus.WithError(err).Fatal("sql.Open")
			return
		}
		if err := sqlDB.Ping(); err != nil {
			logrus.WithError(err).Fatal("postgres unreachable")
			return
		}
		store = postgres.NewStore(sqlDB, storage.NewRandomID)
	}

	svc := service.NewService(store)
	defer svc.Close()

	statementImporter, err := importer.New(context.Background())
	if err != nil {
		logrus.WithError(err).Warn("statement importer disabled")
		statementImporter = nil
	}

	wg := sync.WaitGroup{}
	wg.Add(1)

	go func() {
		httpRest := api.Rest{
			Logger:   logger,
			Port:     envConfig.Port,
			Service:  svc,
			Importer: statementImporter,
		}
		httpRest.Serve()
	}()

	wg.Wait()
}

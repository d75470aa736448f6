package bootstrap

import (
	"context"
	"fmt"

	"github.com/locvowork/employee_records/internal/config"
	"github.com/locvowork/employee_records/internal/database"
	"github.com/locvowork/employee_records/internal/domain"
	"github.com/locvowork/employee_records/internal/logger"
	"github.com/locvowork/employee_records/internal/repository"
)

// OpenStore connects the record store selected by cfg.STORE_BACKEND and makes
// sure its schema exists.
func OpenStore(ctx context.Context, cfg *config.EnvConfig) (domain.RecordStore, error) {
	var store domain.RecordStore

	switch cfg.STORE_BACKEND {
	case config.BackendSQLite, "":
		db, err := database.NewSQLiteDB(ctx, cfg.SQLITE_PATH)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		store = repository.NewSQLEmployeeRepository(db, repository.DialectSQLite)

	case config.BackendPostgres:
		db, err := database.NewPostgresDB(ctx, database.Config{
			Host:            cfg.DB_HOST,
			Port:            cfg.DB_PORT,
			User:            cfg.DB_USER,
			Password:        cfg.DB_PASSWORD,
			DBName:          cfg.DB_NAME,
			SSLMode:         cfg.DB_SSL_MODE,
			MaxOpenConns:    cfg.DB_MAX_OPEN_CONNS,
			MaxIdleConns:    cfg.DB_MAX_IDLE_CONNS,
			ConnMaxLifetime: cfg.DB_CONN_MAX_LIFETIME,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		store = repository.NewSQLEmployeeRepository(db, repository.DialectPostgres)

	case config.BackendElastic:
		es, err := database.NewElasticSearchClient(cfg.ES_URL, cfg.ES_INDEX)
		if err != nil {
			return nil, fmt.Errorf("failed to connect elasticsearch: %w", err)
		}
		store = repository.NewElasticEmployeeRepository(es)

	case config.BackendDatastore:
		dc, err := database.NewDatastoreClient(ctx, cfg.DATASTORE_PROJECT_ID, cfg.DATASTORE_KIND)
		if err != nil {
			return nil, fmt.Errorf("failed to connect datastore: %w", err)
		}
		store = repository.NewDatastoreEmployeeRepository(dc)

	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.STORE_BACKEND)
	}

	if err := store.CreateSchema(ctx); err != nil {
		store.Close()
		return nil, err
	}

	logger.InfoLog(ctx, "record store %q ready", cfg.STORE_BACKEND)
	return store, nil
}

package router

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "dairy-farm-records/docs"
	mem "dairy-farm-records/internal/adapters/storage/memory"
	"dairy-farm-records/internal/adapters/storage/sqlstore"
	"dairy-farm-records/internal/domain/animals"
	"dairy-farm-records/internal/domain/customevents"
	"dairy-farm-records/internal/domain/events"
	"dairy-farm-records/internal/domain/lifecycle"
	"dairy-farm-records/internal/domain/settings"
	"dairy-farm-records/internal/domain/statistics"
	"dairy-farm-records/internal/platform/logger"
)

// Store agrupa los repositorios de un mismo backend.
type Store struct {
	Animals          animals.Repository
	Events           events.Repository
	CustomEventTypes customevents.Repository
	Settings         settings.Repository
}

// NewMemoryStore arma el backend in-memory (dev y tests).
func NewMemoryStore() Store {
	return Store{
		Animals:          mem.NewAnimalRepo(),
		Events:           mem.NewEventRepo(),
		CustomEventTypes: mem.NewCustomEventTypeRepo(),
		Settings:         mem.NewSettingsRepo(),
	}
}

// NewStoreFromEnv elige el backend por env:
// - DB_DSN      -> Postgres (pgx)
// - SQLITE_PATH -> SQLite embebido
// - si no       -> in-memory
func NewStoreFromEnv(log logger.Logger) (Store, error) {
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		db, err := sqlstore.Open(sqlstore.DriverPostgres, dsn)
		if err != nil {
			return Store{}, fmt.Errorf("opening postgres: %w", err)
		}
		log.Info("storage backend ready", map[string]any{"backend": "postgres"})
		return newSQLStore(db), nil
	}

	if path := os.Getenv("SQLITE_PATH"); path != "" {
		db, err := sqlstore.Open(sqlstore.DriverSQLite, path)
		if err != nil {
			return Store{}, fmt.Errorf("opening sqlite: %w", err)
		}
		log.Info("storage backend ready", map[string]any{"backend": "sqlite", "path": path})
		return newSQLStore(db), nil
	}

	log.Info("storage backend ready", map[string]any{"backend": "memory"})
	return NewMemoryStore(), nil
}

func newSQLStore(db *sql.DB) Store {
	return Store{
		Animals:          sqlstore.NewAnimalsRepo(db),
		Events:           sqlstore.NewEventsRepo(db),
		CustomEventTypes: sqlstore.NewCustomEventTypesRepo(db),
		Settings:         sqlstore.NewSettingsRepo(db),
	}
}

type Options struct {
	Log   logger.Logger
	Store Store
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	st := opts.Store

	// Services por módulo
	animalsSvc := animals.NewService(st.Animals)
	eventsSvc := events.NewService(st.Events)
	settingsSvc := settings.NewService(st.Settings, log)
	statsSvc := statistics.NewService(st.Events, st.Animals)
	customSvc := customevents.NewService(st.CustomEventTypes, st.Animals, st.Events)
	engine := lifecycle.NewEngine(st.Animals, st.Events, settingsSvc, log)

	// Rutas por módulo
	animals.RegisterRoutes(r, animalsSvc)
	events.RegisterRoutes(r, eventsSvc, animalsSvc)
	lifecycle.RegisterRoutes(r, engine)
	settings.RegisterRoutes(r, settingsSvc)
	customevents.RegisterRoutes(r, customSvc)
	statistics.RegisterRoutes(r, statsSvc)

	return r
}

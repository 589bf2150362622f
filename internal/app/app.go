package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/riskibarqy/football-api/external/anubis"
	"github.com/riskibarqy/football-api/external/apifootball"
	"github.com/riskibarqy/football-api/external/jwtauth"
	"github.com/riskibarqy/football-api/internal/config"
	"github.com/riskibarqy/football-api/internal/domain/league"
	"github.com/riskibarqy/football-api/internal/domain/match"
	"github.com/riskibarqy/football-api/internal/domain/player"
	"github.com/riskibarqy/football-api/internal/domain/syncrun"
	"github.com/riskibarqy/football-api/internal/domain/team"
	cacherepo "github.com/riskibarqy/football-api/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/football-api/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/football-api/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/football-api/internal/interfaces/httpapi"
	"github.com/riskibarqy/football-api/internal/observability"
	basecache "github.com/riskibarqy/football-api/internal/platform/cache"
	"github.com/riskibarqy/football-api/internal/platform/logging"
	"github.com/riskibarqy/football-api/internal/platform/resilience"
	"github.com/riskibarqy/football-api/internal/usecase"
)

// Runtime is the wired service graph shared by the API server and syncctl.
type Runtime struct {
	Config      config.Config
	Logger      *logging.Logger
	DB          *sqlx.DB
	Leagues     league.Repository
	SyncService *usecase.SyncService
	SyncRuns    *usecase.SyncRunService

	gatherer prometheus.Gatherer
}

type repositories struct {
	leagues league.Repository
	teams   team.Repository
	players player.Repository
	matches match.Repository
	runs    syncrun.Repository
}

// NewRuntime opens storage and builds the sync services. Metrics register on
// reg, or on the default registry when reg is nil.
func NewRuntime(ctx context.Context, cfg config.Config, logger *logging.Logger, reg *prometheus.Registry) (*Runtime, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if reg != nil {
		registerer, gatherer = reg, reg
	}

	rt := &Runtime{Config: cfg, Logger: logger, gatherer: gatherer}

	var repos repositories
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		logger.Warn("using in-memory storage; data is lost on restart")
		repos = repositories{
			leagues: memory.NewLeagueRepository(nil),
			teams:   memory.NewTeamRepository(),
			players: memory.NewPlayerRepository(),
			matches: memory.NewMatchRepository(),
			runs:    memory.NewSyncRunRepository(),
		}
	default:
		if cfg.DBMigrateOnStart {
			if err := MigrateUp(NormalizeDBURL(cfg.DBURL, cfg.DBApplicationName), logger); err != nil {
				return nil, err
			}
		}
		db, err := openDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		rt.DB = db
		repos = repositories{
			leagues: postgres.NewLeagueRepository(db),
			teams:   postgres.NewTeamRepository(db),
			players: postgres.NewPlayerRepository(db),
			matches: postgres.NewMatchRepository(db),
			runs:    postgres.NewSyncRunRepository(db),
		}
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.leagues = cacherepo.NewLeagueRepository(repos.leagues, store)
		repos.teams = cacherepo.NewTeamRepository(repos.teams, store)
	}

	var locker usecase.SyncLocker = resilience.NewKeyedMutex()
	if cfg.SyncLockMode == config.SyncLockModePostgres && rt.DB != nil {
		locker = postgres.NewAdvisoryLocker(rt.DB, logger)
	}

	provider := apifootball.NewClient(apifootball.ClientConfig{
		BaseURL:       cfg.FootballAPIBaseURL,
		APIKey:        cfg.FootballAPIKey,
		Timeout:       cfg.FootballAPITimeout,
		MaxRetries:    cfg.FootballAPIMaxRetries,
		RatePerMinute: cfg.FootballAPIRatePerMinute,
		Logger:        logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FootballAPICircuitEnabled,
			FailureThreshold: cfg.FootballAPICircuitFailureCount,
			OpenTimeout:      cfg.FootballAPICircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FootballAPICircuitHalfOpenMaxReq,
		},
	})

	rt.Leagues = repos.leagues
	rt.SyncRuns = usecase.NewSyncRunService(repos.runs, nil, logger)
	rt.SyncService = usecase.NewSyncService(
		provider,
		repos.leagues,
		repos.teams,
		repos.players,
		repos.matches,
		locker,
		rt.SyncRuns,
		observability.NewSyncMetrics(registerer),
		usecase.SyncConfig{
			SeasonFrom: cfg.SyncSeasonFrom,
			SeasonTo:   cfg.SyncSeasonTo,
			SeasonTag:  cfg.SyncSeasonTag,
		},
		logger,
	)

	logger.Info("runtime ready",
		"storage_driver", cfg.StorageDriver,
		"sync_lock_mode", cfg.SyncLockMode,
		"cache_enabled", cfg.CacheEnabled,
		"season_from", cfg.SyncSeasonFrom,
		"season_to", cfg.SyncSeasonTo,
		"season_tag", cfg.SyncSeasonTag,
	)
	return rt, nil
}

// NewScheduler returns nil when SYNC_SCHEDULE_ENABLED=false.
func (r *Runtime) NewScheduler() *usecase.SyncScheduler {
	if !r.Config.SyncScheduleEnabled {
		return nil
	}
	return usecase.NewSyncScheduler(r.SyncService, r.Leagues, nil, usecase.SyncSchedulerConfig{
		Interval:   r.Config.SyncScheduleInterval,
		Workers:    r.Config.SyncScheduleWorkers,
		RunOnStart: r.Config.SyncScheduleRunOnStart,
	}, r.Logger)
}

func (r *Runtime) NewHTTPServer() (*http.Server, error) {
	verifier, err := newTokenVerifier(r.Config, r.Logger)
	if err != nil {
		return nil, err
	}

	var metricsHandler http.Handler
	if r.Config.MetricsEnabled {
		metricsHandler = observability.MetricsHandler(r.gatherer)
	}

	handler := httpapi.NewHandler(r.SyncService, r.SyncRuns, r.Logger)
	router := httpapi.NewRouter(handler, verifier, r.Logger, httpapi.RouterConfig{
		SwaggerEnabled:     r.Config.SwaggerEnabled,
		CORSAllowedOrigins: r.Config.CORSAllowedOrigins,
		AdminRole:          r.Config.AuthAdminRole,
		MetricsHandler:     metricsHandler,
	})

	server := &http.Server{
		Addr:              r.Config.HTTPAddr,
		Handler:           router,
		ReadTimeout:       r.Config.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      r.Config.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func (r *Runtime) Close() error {
	if r.DB == nil {
		return nil
	}
	return r.DB.Close()
}

func newTokenVerifier(cfg config.Config, logger *logging.Logger) (httpapi.TokenVerifier, error) {
	switch cfg.AuthMode {
	case config.AuthModeJWT:
		verifier, err := jwtauth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTLeeway)
		if err != nil {
			return nil, fmt.Errorf("build jwt verifier: %w", err)
		}
		return verifier, nil
	case config.AuthModeAnubis:
		return anubis.NewClient(anubis.ClientConfig{
			HTTPClient:      &http.Client{Timeout: cfg.AnubisTimeout},
			BaseURL:         cfg.AnubisBaseURL,
			IntrospectPath:  cfg.AnubisIntrospectPath,
			AdminKey:        cfg.AnubisAdminKey,
			CacheTTL:        cfg.AnubisCacheTTL,
			CacheMaxEntries: cfg.AnubisCacheMaxEntries,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.AnubisCircuitEnabled,
				FailureThreshold: cfg.AnubisCircuitFailureCount,
				OpenTimeout:      cfg.AnubisCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.AnubisCircuitHalfOpenMaxReq,
			},
			Logger: logger,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.AuthMode)
	}
}

package app

import (
	"fmt"
	"net/http"

	"github.com/pitchside/fiveside/external/jobqueue"
	"github.com/pitchside/fiveside/external/statsfeed"
	"github.com/pitchside/fiveside/internal/config"
	"github.com/pitchside/fiveside/internal/domain/player"
	"github.com/pitchside/fiveside/internal/domain/playerstats"
	"github.com/pitchside/fiveside/internal/domain/roster"
	"github.com/pitchside/fiveside/internal/domain/scoring"
	"github.com/pitchside/fiveside/internal/infrastructure/account"
	"github.com/pitchside/fiveside/internal/infrastructure/repository/memory"
	"github.com/pitchside/fiveside/internal/infrastructure/repository/postgres"
	"github.com/pitchside/fiveside/internal/interfaces/httpapi"
	"github.com/pitchside/fiveside/internal/platform/cache"
	idgen "github.com/pitchside/fiveside/internal/platform/id"
	"github.com/pitchside/fiveside/internal/platform/logging"
	"github.com/pitchside/fiveside/internal/platform/resilience"
	"github.com/pitchside/fiveside/internal/usecase"
)

type storage struct {
	rosters roster.Repository
	players player.Repository
	stats   playerstats.Repository
	scores  scoring.Repository
	prices  usecase.PriceUpdater
	close   func() error
}

func buildStorage(cfg config.Config) (storage, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openDB(cfg)
		if err != nil {
			return storage{}, err
		}
		playerRepo := postgres.NewPlayerRepository(db)
		return storage{
			rosters: postgres.NewRosterRepository(db),
			players: playerRepo,
			stats:   postgres.NewPlayerStatsRepository(db),
			scores:  postgres.NewScoringRepository(db),
			prices:  playerRepo,
			close:   db.Close,
		}, nil
	default:
		playerRepo := memory.NewPlayerRepository(memory.SeedPlayers())
		return storage{
			rosters: memory.NewRosterRepository(),
			players: playerRepo,
			stats:   memory.NewPlayerStatsRepository(),
			scores:  memory.NewScoringRepository(),
			prices:  playerRepo,
			close:   func() error { return nil },
		}, nil
	}
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	store, err := buildStorage(cfg)
	if err != nil {
		return nil, err
	}

	// The round clock lives in memory on all drivers; the schedule is fully
	// derived from the configured first lock and round count.
	clock := memory.NewGameweekClock(memory.WeeklySchedule(cfg.SeasonGameweeks, cfg.SeasonFirstLock))

	rules := roster.Rules{
		BudgetCap:       cfg.BudgetCap,
		FreeTransfers:   cfg.FreeTransfersPerWeek,
		TransferPenalty: cfg.TransferPenalty,
	}
	locks := &resilience.KeyedMutex{}

	var catalogueCache *cache.Store
	if cfg.CacheEnabled {
		catalogueCache = cache.NewStore(cfg.CacheTTL)
	}

	playerSvc := usecase.NewPlayerService(store.players, store.stats, catalogueCache, logger)
	rosterSvc := usecase.NewRosterService(
		store.rosters,
		store.players,
		clock,
		rules,
		idgen.NewRandomGenerator(),
		locks,
		logger,
	)
	scoringSvc := usecase.NewScoringService(
		store.rosters,
		store.players,
		store.stats,
		store.scores,
		clock,
		rules,
		locks,
		logger,
		cfg.ScoringWorkers,
	)

	feedClient := statsfeed.NewClient(statsfeed.ClientConfig{
		BaseURL:    cfg.FeedBaseURL,
		Token:      cfg.FeedToken,
		Timeout:    cfg.FeedTimeout,
		MaxRetries: cfg.FeedMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FeedCircuitEnabled,
			FailureThreshold: cfg.FeedCircuitFailureCount,
			OpenTimeout:      cfg.FeedCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FeedCircuitHalfOpenMaxReq,
		},
	})
	statsSvc := usecase.NewStatsService(
		feedClient,
		store.stats,
		store.players,
		store.prices,
		playerSvc,
		logger,
		cfg.IngestFetchers,
	)

	var publisher httpapi.JobPublisher
	if cfg.QueueEnabled {
		publisher = jobqueue.NewPublisher(jobqueue.PublisherConfig{
			BaseURL:          cfg.QueueBaseURL,
			Token:            cfg.QueueToken,
			TargetBaseURL:    cfg.QueueTargetBaseURL,
			Retries:          cfg.QueueRetries,
			InternalJobToken: cfg.InternalJobToken,
			Timeout:          cfg.QueueTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.QueueCircuitEnabled,
				FailureThreshold: cfg.QueueCircuitFailureCount,
				OpenTimeout:      cfg.QueueCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.QueueCircuitHalfOpenMaxReq,
			},
		}, logger)
	}

	verifier := account.NewClient(
		&http.Client{Timeout: cfg.AccountTimeout},
		cfg.AccountBaseURL,
		cfg.AccountIntrospectPath,
		logger,
	)

	handler := httpapi.NewHandler(rosterSvc, playerSvc, scoringSvc, statsSvc, publisher, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	server.RegisterOnShutdown(func() {
		if err := store.close(); err != nil {
			logger.Error("close storage", "error", err)
		}
	})

	return server, nil
}

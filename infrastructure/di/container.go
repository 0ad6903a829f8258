// Package di wires the whole application graph. wire.go declares the
// provider set for the google/wire code generator but is gated behind the
// wireinject build tag and no wire_gen.go is checked in, so this file is
// the hand-written equivalent of what `wire` would generate: direct
// sequential provider calls, no import of wire itself.
package di

import (
	"context"
	"fmt"

	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"mnemosyne/application/commands"
	"mnemosyne/application/commands/bus"
	commandhandlers "mnemosyne/application/commands/handlers"
	"mnemosyne/application/ports"
	"mnemosyne/application/queries"
	querybus "mnemosyne/application/queries/bus"
	queryhandlers "mnemosyne/application/queries/handlers"
	"mnemosyne/application/services/association"
	"mnemosyne/application/services/dedup"
	"mnemosyne/application/services/extract"
	"mnemosyne/application/services/ingest"
	"mnemosyne/application/services/reinforce"
	"mnemosyne/application/services/retrieval"
	"mnemosyne/application/services/signal"
	"mnemosyne/application/services/temporal"
	domainconfig "mnemosyne/domain/config"
	infraconfig "mnemosyne/infrastructure/config"
	"mnemosyne/pkg/auth"
	"mnemosyne/pkg/observability"
)

// Container holds every wired dependency cmd/api and cmd/lambda need to
// start serving traffic.
type Container struct {
	Config       *infraconfig.Config
	DomainConfig *domainconfig.DomainConfig
	Logger       *zap.Logger

	Store              ports.Store
	Embedder           ports.Embedder
	CompletionProvider ports.CompletionProvider
	EventBus           ports.EventBus

	ReinforceQueue *reinforce.Queue
	RateLimiter    *auth.OwnerRateLimiter
	Metrics        *observability.Metrics

	// IngestService and TemporalService are exposed alongside the buses
	// because AddMemory, RecordFact and LinkNexus all generate IDs server
	// side; the HTTP layer calls them directly for the handful of POST
	// endpoints that must return the created resource, while the same
	// services stay registered on CommandBus for every other caller.
	IngestService   *ingest.Service
	TemporalService *temporal.Service

	CommandBus *bus.CommandBus
	QueryBus   *querybus.QueryBus
}

// NewContainer builds the full dependency graph for cfg.
func NewContainer(ctx context.Context, cfg *infraconfig.Config) (*Container, error) {
	logger, err := observability.NewLogger(cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("di: build logger: %w", err)
	}

	domainCfg := domainconfig.LoadDomainConfig(cfg.Environment)
	if err := domainCfg.Validate(); err != nil {
		return nil, fmt.Errorf("di: invalid domain config: %w", err)
	}

	var ddbClient *awsdynamodb.Client
	var ebClient *awseventbridge.Client
	var cwClient *awscloudwatch.Client
	if cfg.StoreBackend == "dynamodb" {
		awsCfg, err := ProvideAWSConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("di: load aws config: %w", err)
		}
		ddbClient = ProvideDynamoDBClient(awsCfg)
		ebClient = ProvideEventBridgeClient(awsCfg)
		if cfg.EnableMetrics {
			cwClient = ProvideCloudWatchClient(awsCfg)
		}
	}

	store, err := ProvideStore(cfg, ddbClient, logger)
	if err != nil {
		return nil, fmt.Errorf("di: build store: %w", err)
	}

	embedder, err := ProvideEmbedder(cfg, domainCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("di: build embedder: %w", err)
	}

	completionProvider, err := ProvideCompletionProvider(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("di: build completion provider: %w", err)
	}

	eventBus := ProvideEventBus(cfg, ebClient, logger)

	var metrics *observability.Metrics
	if cwClient != nil {
		metrics = ProvideMetrics(cwClient, cfg)
	}

	associationSvc := association.NewService(store, domainCfg, logger)
	dedupSvc := dedup.NewService(store, domainCfg)
	extractSvc := extract.NewService(completionProvider, logger)
	temporalSvc := temporal.NewService(store, store, logger)
	signalSvc := signal.NewService(store, domainCfg, logger)

	reinforceQueue := reinforce.New(store, domainCfg, logger, cfg.ReinforceWorkers, cfg.ReinforceQueueSize)

	ingestSvc := ingest.NewService(store, embedder, extractSvc, dedupSvc, associationSvc, temporalSvc, eventBus, domainCfg, logger)
	retrievalSvc := retrieval.NewService(store, store, embedder, associationSvc, reinforceQueue, domainCfg, logger)

	rateLimiter := auth.NewOwnerRateLimiter(cfg.RateLimitPerMinute)

	commandBus := bus.NewCommandBus(logger)
	registerCommandHandlers(commandBus, store, ingestSvc, signalSvc, temporalSvc, eventBus, domainCfg, logger)

	queryBus := querybus.NewQueryBus(logger)
	registerQueryHandlers(queryBus, store, temporalSvc, retrievalSvc)

	return &Container{
		Config:             cfg,
		DomainConfig:       domainCfg,
		Logger:             logger,
		Store:              store,
		Embedder:           embedder,
		CompletionProvider: completionProvider,
		EventBus:           eventBus,
		ReinforceQueue:     reinforceQueue,
		RateLimiter:        rateLimiter,
		Metrics:            metrics,
		IngestService:      ingestSvc,
		TemporalService:    temporalSvc,
		CommandBus:         commandBus,
		QueryBus:           queryBus,
	}, nil
}

// Close releases everything the container owns: the reinforcement queue is
// drained so in-flight access boosts are applied, the store is closed, and
// the logger is flushed.
func (c *Container) Close(ctx context.Context) error {
	c.ReinforceQueue.Drain(ctx)
	if err := c.Store.Close(ctx); err != nil {
		return err
	}
	return c.Logger.Sync()
}

func registerCommandHandlers(
	b *bus.CommandBus,
	store ports.Store,
	ingestSvc *ingest.Service,
	signalSvc *signal.Service,
	temporalSvc *temporal.Service,
	eventBus ports.EventBus,
	domainCfg *domainconfig.DomainConfig,
	logger *zap.Logger,
) {
	_ = b.Register(commands.AddMemoryCommand{}, commandhandlers.NewAddMemoryHandler(ingestSvc, logger))
	_ = b.Register(commands.UpdateEngramCommand{}, commandhandlers.NewUpdateEngramHandler(store, logger))

	deleteHandler := commandhandlers.NewDeleteEngramHandler(store, store, logger)
	_ = b.Register(commands.DeleteEngramCommand{}, deleteHandler)
	_ = b.Register(commands.BulkDeleteEngramsCommand{}, commandhandlers.NewBulkDeleteEngramsHandler(deleteHandler, logger))

	_ = b.Register(commands.ReinforceEngramCommand{}, commandhandlers.NewReinforceEngramHandler(store, signalSvc, domainCfg, logger))

	_ = b.Register(commands.RecordChronicleCommand{}, commandhandlers.NewRecordChronicleHandler(temporalSvc, logger))
	_ = b.Register(commands.UpdateChronicleCommand{}, commandhandlers.NewUpdateChronicleHandler(temporalSvc, logger))
	_ = b.Register(commands.DeleteChronicleCommand{}, commandhandlers.NewDeleteChronicleHandler(temporalSvc, logger))

	_ = b.Register(commands.CreateNexusCommand{}, commandhandlers.NewCreateNexusHandler(temporalSvc, logger))
	_ = b.Register(commands.RunDecayCommand{}, commandhandlers.NewRunDecayHandler(signalSvc, eventBus, logger))
}

func registerQueryHandlers(
	b *querybus.QueryBus,
	store ports.Store,
	temporalSvc *temporal.Service,
	retrievalSvc *retrieval.Service,
) {
	_ = b.Register(queries.GetEngramQuery{}, queryhandlers.NewGetEngramHandler(store))
	_ = b.Register(queries.ListEngramsQuery{}, queryhandlers.NewListEngramsHandler(store))
	_ = b.Register(queries.GetStatsQuery{}, queryhandlers.NewGetStatsHandler(store, store, store))
	_ = b.Register(queries.SearchQuery{}, queryhandlers.NewSearchHandler(retrievalSvc))

	_ = b.Register(queries.GetCurrentChronicleQuery{}, queryhandlers.NewGetCurrentChronicleHandler(store))
	_ = b.Register(queries.QueryChroniclesQuery{}, queryhandlers.NewQueryChroniclesHandler(temporalSvc))
	_ = b.Register(queries.GetTimelineQuery{}, queryhandlers.NewGetTimelineHandler(temporalSvc))
	_ = b.Register(queries.GetRelatedChroniclesQuery{}, queryhandlers.NewGetRelatedChroniclesHandler(temporalSvc))
}

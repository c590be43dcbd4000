package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpin "logistics/internal/adapters/in/http"
	"logistics/internal/adapters/out/memworld"
	"logistics/internal/adapters/out/postgres"
	"logistics/internal/adapters/out/redisbus"
	"logistics/internal/adapters/out/snapshotfile"
	"logistics/internal/core/application/coordinator"
	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/application/usecases/queries"
	"logistics/internal/core/ports"
	"logistics/internal/generated/servers"
	"logistics/internal/jobs"
	"logistics/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot owns every long-lived object of the service.
type CompositionRoot struct {
	cfg    Config
	logger *slog.Logger

	registry *prometheus.Registry
	world    *memworld.World
	coord    *coordinator.Coordinator
	store    ports.SnapshotStore
	gormDB   *gorm.DB

	redis     *redis.Client
	forwarder *redisbus.Forwarder

	tick commands.TickCommandHandler
}

// NewCompositionRoot seeds the world, opens the snapshot store and attaches
// the coordinator. Redis is optional.
func NewCompositionRoot(ctx context.Context, cfg Config, logger *slog.Logger) (*CompositionRoot, error) {
	root := &CompositionRoot{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		world:    memworld.NewWorld(),
	}
	root.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := root.world.Populate(cfg.Seeds()); err != nil {
		return nil, fmt.Errorf("seed world: %w", err)
	}

	collector, err := metrics.NewCollector(root.registry)
	if err != nil {
		return nil, err
	}

	settings, err := cfg.Transport.Settings()
	if err != nil {
		return nil, err
	}
	deps := coordinator.Dependencies{
		Registry: root.world,
		Roads:    memworld.StraightRoads{},
		Economy:  memworld.NewEconomy(cfg.Transport.Balance()),
		Metrics:  collector,
		Logger:   logger,
	}
	if cfg.Transport.Roads == "grid" {
		grid := memworld.NewGridRoads(settings.TileSize)
		deps.Roads = grid
		deps.RouteCost = grid.Cost
	}
	root.coord, err = coordinator.New(settings, deps)
	if err != nil {
		return nil, err
	}

	if err := root.openStore(); err != nil {
		return nil, err
	}

	root.world.MarkReady()
	if err := root.coord.Attach(ctx, root.world); err != nil {
		return nil, root.closeAfter(err)
	}

	if cfg.Redis.Addr != "" {
		if err := root.connectRedis(ctx); err != nil {
			return nil, root.closeAfter(err)
		}
	}

	root.tick = commands.NewTickCommandHandler(root.coord)
	return root, nil
}

func (c *CompositionRoot) openStore() error {
	switch c.cfg.Storage.Driver {
	case postgres.DriverPostgres, postgres.DriverSQLite:
		db, err := postgres.Open(c.cfg.Storage.Driver, c.cfg.Storage.DSN, c.logger)
		if err != nil {
			return err
		}
		store, err := postgres.NewSnapshotStore(postgres.NewGormUnitOfWorkFactory(db))
		if err != nil {
			return err
		}
		c.gormDB = db
		c.store = store
	default:
		format, err := snapshotfile.ParseFormat(c.cfg.Storage.Format)
		if err != nil {
			return err
		}
		store, err := snapshotfile.NewStore(c.cfg.Storage.Dir, format)
		if err != nil {
			return err
		}
		c.store = store
	}
	return nil
}

func (c *CompositionRoot) connectRedis(ctx context.Context) error {
	client, err := redisbus.Dial(ctx, c.cfg.Redis.Addr, c.cfg.Redis.Password, c.cfg.Redis.DB)
	if err != nil {
		return err
	}
	forwarder, err := redisbus.NewForwarder(c.coord.Events(), client, c.cfg.Redis.Channel, c.cfg.Redis.Buffer, c.logger)
	if err != nil {
		_ = client.Close()
		return err
	}
	c.redis = client
	c.forwarder = forwarder
	return nil
}

func (c *CompositionRoot) closeAfter(err error) error {
	return errors.Join(err, c.Close())
}

// Run blocks until ctx is done, forwarding job events to Redis when enabled.
func (c *CompositionRoot) Run(ctx context.Context) {
	if c.forwarder == nil {
		<-ctx.Done()
		return
	}
	c.forwarder.Run(ctx)
}

// Close detaches the coordinator and releases the connections.
func (c *CompositionRoot) Close() error {
	var errList []error
	if c.forwarder != nil {
		c.forwarder.Close()
		if dropped := c.forwarder.Dropped(); dropped > 0 {
			c.logger.Warn("job events dropped", "count", dropped)
		}
	}
	if c.redis != nil {
		errList = append(errList, c.redis.Close())
	}
	if c.coord != nil {
		c.coord.Detach()
	}
	if c.gormDB != nil {
		if sqlDB, err := c.gormDB.DB(); err == nil {
			errList = append(errList, sqlDB.Close())
		}
	}
	return errors.Join(errList...)
}

func (c *CompositionRoot) Gatherer() prometheus.Gatherer {
	return c.registry
}

func (c *CompositionRoot) CreateAcceptDeliveryOrderCommandHandler() commands.AcceptDeliveryOrderCommandHandler {
	return commands.NewAcceptDeliveryOrderCommandHandler(c.coord)
}

func (c *CompositionRoot) CreateRefreshOrdersCommandHandler() commands.RefreshOrdersCommandHandler {
	return commands.NewRefreshOrdersCommandHandler(c.coord)
}

func (c *CompositionRoot) CreateManualTransportCommandHandler() commands.ManualTransportCommandHandler {
	return commands.NewManualTransportCommandHandler(c.coord)
}

func (c *CompositionRoot) CreateAddRouteCommandHandler() commands.AddRouteCommandHandler {
	return commands.NewAddRouteCommandHandler(c.coord)
}

func (c *CompositionRoot) CreateRemoveRouteCommandHandler() commands.RemoveRouteCommandHandler {
	return commands.NewRemoveRouteCommandHandler(c.coord)
}

func (c *CompositionRoot) CreateDestroyEntityCommandHandler() commands.DestroyEntityCommandHandler {
	return commands.NewDestroyEntityCommandHandler(c.coord)
}

func (c *CompositionRoot) CreateFailJobCommandHandler() commands.FailJobCommandHandler {
	return commands.NewFailJobCommandHandler(c.coord)
}

func (c *CompositionRoot) CreateRoadNetworkChangedCommandHandler() commands.RoadNetworkChangedCommandHandler {
	return commands.NewRoadNetworkChangedCommandHandler(c.coord)
}

// CreateTickCommandHandler returns the shared handler; the HTTP tick and the
// tick job step the same clock.
func (c *CompositionRoot) CreateTickCommandHandler() *commands.TickCommandHandler {
	return &c.tick
}

func (c *CompositionRoot) CreateSnapshotCommandHandler() commands.SnapshotCommandHandler {
	return commands.NewSnapshotCommandHandler(c.coord, c.store)
}

func (c *CompositionRoot) CreateGetJobsQueryHandler() queries.GetJobsQueryHandler {
	return queries.NewGetJobsQueryHandler(c.coord)
}

func (c *CompositionRoot) CreateGetOrdersQueryHandler() queries.GetOrdersQueryHandler {
	return queries.NewGetOrdersQueryHandler(c.coord)
}

func (c *CompositionRoot) CreateGetCarriersQueryHandler() queries.GetCarriersQueryHandler {
	return queries.NewGetCarriersQueryHandler(c.coord)
}

func (c *CompositionRoot) CreateGetRoutesQueryHandler() queries.GetRoutesQueryHandler {
	return queries.NewGetRoutesQueryHandler(c.coord)
}

func (c *CompositionRoot) CreateGetSupplyQueryHandler() queries.GetSupplyQueryHandler {
	return queries.NewGetSupplyQueryHandler(c.coord)
}

// CreateGetSavedSlotsQueryHandler is nil unless snapshots live in a database.
func (c *CompositionRoot) CreateGetSavedSlotsQueryHandler() *queries.GetSavedSlotsQueryHandler {
	if c.gormDB == nil {
		return nil
	}
	h := queries.NewGetSavedSlotsQueryHandler(c.gormDB)
	return &h
}

func (c *CompositionRoot) CreateHTTPHandlers() httpin.Handlers {
	return httpin.Handlers{
		AcceptOrder:     c.CreateAcceptDeliveryOrderCommandHandler(),
		RefreshOrders:   c.CreateRefreshOrdersCommandHandler(),
		ManualTransport: c.CreateManualTransportCommandHandler(),
		AddRoute:        c.CreateAddRouteCommandHandler(),
		RemoveRoute:     c.CreateRemoveRouteCommandHandler(),
		DestroyEntity:   c.CreateDestroyEntityCommandHandler(),
		FailJob:         c.CreateFailJobCommandHandler(),
		RoadsChanged:    c.CreateRoadNetworkChangedCommandHandler(),
		Tick:            c.CreateTickCommandHandler(),
		Snapshots:       c.CreateSnapshotCommandHandler(),
		Jobs:            c.CreateGetJobsQueryHandler(),
		Orders:          c.CreateGetOrdersQueryHandler(),
		Carriers:        c.CreateGetCarriersQueryHandler(),
		Routes:          c.CreateGetRoutesQueryHandler(),
		Supply:          c.CreateGetSupplyQueryHandler(),
		SavedSlots:      c.CreateGetSavedSlotsQueryHandler(),
		Directory:       c.directory,
	}
}

func (c *CompositionRoot) directory() []servers.Building {
	buildings := c.world.Buildings()
	out := make([]servers.Building, 0, len(buildings))
	for _, b := range buildings {
		stock := make(map[string]int)
		for r, qty := range b.Stock().Snapshot() {
			stock[string(r)] = qty
		}
		building := servers.Building{
			Ref:   b.Ref().String(),
			Name:  b.Name(),
			X:     b.Position().X(),
			Y:     b.Position().Y(),
			City:  b.IsCity(),
			Stock: stock,
		}
		if capacity := b.CarrierCapacity(); capacity > 0 {
			building.Capacity = &capacity
		}
		out = append(out, building)
	}
	return out
}

// CreateJobManager builds the tick job and, when configured, the autosave job.
func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	tick, err := jobs.NewTickJob(c.CreateTickCommandHandler(), c.cfg.Transport.TickInterval, c.cfg.Transport.MaxTickDt, c.logger)
	if err != nil {
		return nil, err
	}

	var autosave *jobs.AutosaveJob
	if c.cfg.Autosave.Spec != "" {
		autosave, err = jobs.NewAutosaveJob(c.CreateSnapshotCommandHandler(), c.cfg.Autosave.Spec, c.cfg.Autosave.Slot, c.logger)
		if err != nil {
			return nil, err
		}
	}
	return jobs.NewJobManager(tick, autosave), nil
}

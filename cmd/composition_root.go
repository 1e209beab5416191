package cmd

import (
	"log/slog"
	"time"

	"shipping/internal/adapters/out/optimizer"
	"shipping/internal/adapters/out/postgres"
	"shipping/internal/adapters/out/postgres/outboxrepo"
	"shipping/internal/adapters/out/routing"
	"shipping/internal/core/application/usecases/commands"
	"shipping/internal/core/application/usecases/queries"
	"shipping/internal/jobs"

	"gorm.io/gorm"
)

// collaborator timeouts. Matrix calls are quick; proposal runs are not.
const (
	routingTimeout   = 10 * time.Second
	optimizerTimeout = 60 * time.Second
)

type CompositionRoot struct {
	config          Config
	gormDB          *gorm.DB
	uowFactory      postgres.GormUnitOfWorkFactory
	routingClient   *routing.Client
	optimizerClient *optimizer.Client
	logger          *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		config:          config,
		gormDB:          gormDB,
		uowFactory:      *postgres.NewGormUnitOfWorkFactory(gormDB),
		routingClient:   routing.NewClient(config.RoutingAPIURL, config.RoutingAPIKey, routingTimeout),
		optimizerClient: optimizer.NewClient(config.OptimizerURL, config.OptimizerAPIKey, optimizerTimeout),
		logger:          logger,
	}
}

func (c *CompositionRoot) CreateScanParcelCommandHandler() commands.ScanParcelCommandHandler {
	return commands.NewScanParcelCommandHandler(c.createUoWFactory())
}

func (c *CompositionRoot) CreateStartSessionCommandHandler() commands.StartSessionCommandHandler {
	return commands.NewStartSessionCommandHandler(c.createUoWFactory())
}

func (c *CompositionRoot) CreateRecordOutcomeCommandHandler() commands.RecordOutcomeCommandHandler {
	return commands.NewRecordOutcomeCommandHandler(c.createUoWFactory())
}

func (c *CompositionRoot) CreatePostponeAssignmentCommandHandler() commands.PostponeAssignmentCommandHandler {
	return commands.NewPostponeAssignmentCommandHandler(
		c.createUoWFactory(), c.routingClient, c.config.RoutingProfile, c.config.MaxSessionDuration)
}

func (c *CompositionRoot) CreateTransferParcelCommandHandler() commands.TransferParcelCommandHandler {
	return commands.NewTransferParcelCommandHandler(c.createUoWFactory())
}

func (c *CompositionRoot) CreateAcceptTransferCommandHandler() commands.AcceptTransferCommandHandler {
	return commands.NewAcceptTransferCommandHandler(c.createUoWFactory())
}

func (c *CompositionRoot) CreateFailSessionCommandHandler() commands.FailSessionCommandHandler {
	return commands.NewFailSessionCommandHandler(c.createUoWFactory())
}

func (c *CompositionRoot) CreateAutoAssignCommandHandler() commands.AutoAssignCommandHandler {
	return commands.NewAutoAssignCommandHandler(c.createUoWFactory(), c.optimizerClient, c.logger)
}

func (c *CompositionRoot) CreateConfirmTimeoutsCommandHandler() commands.ConfirmTimeoutsCommandHandler {
	return commands.NewConfirmTimeoutsCommandHandler(
		c.createParcelUoWFactory(), c.config.ConfirmWindow, c.logger)
}

func (c *CompositionRoot) CreateConfirmRemindersCommandHandler() commands.ConfirmRemindersCommandHandler {
	return commands.NewConfirmRemindersCommandHandler(
		c.createParcelUoWFactory(), c.config.ConfirmWindow, c.config.ReminderDelay, c.logger)
}

func (c *CompositionRoot) CreateAutoCloseSessionsCommandHandler() commands.AutoCloseSessionsCommandHandler {
	return commands.NewAutoCloseSessionsCommandHandler(
		c.createUoWFactory(), c.config.MaxSessionDuration, c.logger)
}

func (c *CompositionRoot) CreateGetSessionQueryHandler() queries.GetSessionQueryHandler {
	return queries.NewGetSessionQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveSessionQueryHandler() queries.GetActiveSessionQueryHandler {
	return queries.NewGetActiveSessionQueryHandler(c.gormDB)
}

// CreateJobManager wires the sweep jobs and the outbox relay. The relay reads
// the outbox outside any unit of work, so it gets its own repository bound to
// the root connection.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateConfirmTimeoutsCommandHandler(),
		c.CreateConfirmRemindersCommandHandler(),
		c.CreateAutoCloseSessionsCommandHandler(),
		outboxrepo.NewGormOutboxRepository(c.gormDB),
		jobs.NewLogEventConsumer(c.logger),
		c.logger,
	)
}

func (c *CompositionRoot) createUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) createParcelUoWFactory() commands.ParcelUoWFactory {
	return FuncParcelUoWFactory(func() commands.ParcelUoW {
		return c.uowFactory.Create()
	})
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncParcelUoWFactory func() commands.ParcelUoW

func (f FuncParcelUoWFactory) Create() commands.ParcelUoW {
	return f()
}

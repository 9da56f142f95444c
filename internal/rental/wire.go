package rental

import (
	"context"
	"database/sql"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"locatrajes/internal/alerts"
	"locatrajes/internal/auth"
	"locatrajes/internal/availability"
	"locatrajes/internal/client/cep"
	"locatrajes/internal/config"
	"locatrajes/internal/domain"
	"locatrajes/internal/infrastructure/metrics"
	"locatrajes/internal/rental/controller"
	"locatrajes/internal/rental/repository"
	"locatrajes/internal/rental/service"
	"locatrajes/internal/rental/usecase"
	"locatrajes/internal/store"
)

type Module struct {
	Store     *store.Store
	Contracts *controller.ContractController
	Inventory *controller.InventoryController
	Schedule  *controller.ScheduleController
	Finance   *controller.FinanceController
}

func NewModule(
	db *sql.DB,
	cfg *config.Config,
	policy config.RentalPolicy,
	logger *zap.Logger,
	m *metrics.Metrics,
) *Module {
	itemRepo := repository.NewMySQLItemRepository(db)
	contractRepo := repository.NewMySQLContractRepository(db)
	evaluator := availability.NewEvaluator(policy.BufferDays)

	bookingSvc := service.NewBookingService(
		db,
		itemRepo,
		contractRepo,
		evaluator,
		logger,
		cfg.Rental.TxTimeout,
	)

	st := store.New(store.Gateways{
		Items:         itemRepo,
		Clients:       repository.NewMySQLClientRepository(db),
		Contracts:     bookingSvc,
		Appointments:  repository.NewMySQLAppointmentRepository(db),
		Transactions:  repository.NewMySQLTransactionRepository(db),
		Notifications: repository.NewMySQLNotificationRepository(db),
		Changes:       bookingSvc,
	}, logger, m)

	roles := make([]domain.Role, len(policy.FinancialRoles))
	for i, r := range policy.FinancialRoles {
		roles[i] = domain.Role(r)
	}
	clock := domain.SystemClock{}
	retries := cfg.Rental.MaxRetryAttempts

	contractUC := usecase.NewContractUseCase(st, evaluator, clock, logger, m, retries)
	inventoryUC := usecase.NewInventoryUseCase(st, logger, m, retries)
	clientUC := usecase.NewClientUseCase(st, cep.NewClient(cfg.CEP.BaseURL, cfg.CEP.Timeout, logger), logger, retries)
	scheduleUC := usecase.NewScheduleUseCase(st, clock, policy.AgendaDays, logger, m, retries)
	financeUC := usecase.NewFinanceUseCase(st, alerts.NewGenerator(policy.AlertWindowDays, roles), clock, logger, m, retries)

	return &Module{
		Store:     st,
		Contracts: controller.NewContractController(contractUC, logger),
		Inventory: controller.NewInventoryController(inventoryUC, clientUC, logger),
		Schedule:  controller.NewScheduleController(scheduleUC, logger),
		Finance:   controller.NewFinanceController(financeUC, logger),
	}
}

// Load fills the store from the database. It must succeed before serving.
func (m *Module) Load(ctx context.Context) error {
	return m.Store.Load(ctx)
}

// Routes mounts the rental API on r. Authentication is applied by the caller.
func (m *Module) Routes(r chi.Router) {
	managers := auth.RequireRole(domain.RoleAdmin, domain.RoleManager)

	r.Post("/availability", m.Contracts.CheckAvailability)

	r.Route("/contracts", func(r chi.Router) {
		r.Get("/", m.Contracts.List)
		r.Post("/", m.Contracts.Create)
		r.Route("/{contractId}", func(r chi.Router) {
			r.Get("/", m.Contracts.Get)
			r.Put("/", m.Contracts.Update)
			r.With(managers).Delete("/", m.Contracts.Delete)
			r.Post("/schedule", m.Contracts.Schedule)
			r.Post("/pickup", m.Contracts.ConfirmPickup)
			r.Post("/return", m.Contracts.ReceiveReturn)
			r.Post("/cancel", m.Contracts.Cancel)
			r.Post("/payments", m.Contracts.RegisterPayment)
			r.Post("/signature", m.Contracts.Sign)
			r.Post("/items/{itemId}/pickup", m.Contracts.PickupItem)
			r.Post("/items/{itemId}/return", m.Contracts.ReturnItem)
		})
	})

	r.Route("/items", func(r chi.Router) {
		r.Get("/", m.Inventory.ListItems)
		r.Post("/", m.Inventory.CreateItem)
		r.Route("/{itemId}", func(r chi.Router) {
			r.Get("/", m.Inventory.GetItem)
			r.Put("/", m.Inventory.UpdateItem)
			r.With(managers).Delete("/", m.Inventory.DeleteItem)
			r.Post("/triage", m.Inventory.TriageItem)
		})
	})

	r.Route("/clients", func(r chi.Router) {
		r.Get("/", m.Inventory.ListClients)
		r.Post("/", m.Inventory.CreateClient)
		r.Route("/{clientId}", func(r chi.Router) {
			r.Get("/", m.Inventory.GetClient)
			r.Put("/", m.Inventory.UpdateClient)
			r.With(managers).Delete("/", m.Inventory.DeleteClient)
		})
	})
	r.Get("/cep/{cep}", m.Inventory.LookupAddress)

	r.Route("/appointments", func(r chi.Router) {
		r.Get("/", m.Schedule.List)
		r.Post("/", m.Schedule.Create)
		r.Route("/{appointmentId}", func(r chi.Router) {
			r.Get("/", m.Schedule.Get)
			r.Put("/", m.Schedule.Update)
			r.Delete("/", m.Schedule.Delete)
			r.Post("/complete", m.Schedule.Complete)
			r.Post("/cancel", m.Schedule.Cancel)
		})
	})
	r.Get("/agenda", m.Schedule.Agenda)

	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", m.Finance.ListTransactions)
		r.Post("/", m.Finance.CreateTransaction)
		r.Put("/{transactionId}", m.Finance.UpdateTransaction)
		r.Delete("/{transactionId}", m.Finance.DeleteTransaction)
	})
	r.Post("/alerts/scan", m.Finance.ScanAlerts)
	r.Get("/notifications", m.Finance.Notifications)
	r.Post("/notifications/{notificationId}/read", m.Finance.MarkNotificationRead)
	r.Get("/reports/financial", m.Finance.Report)
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	acceptQuoteHandler "github.com/admedia/AMS-AdSalesService/internal/api/handlers/accept_quote"
	approvePOHandler "github.com/admedia/AMS-AdSalesService/internal/api/handlers/approve_po"
	approveReleaseStageHandler "github.com/admedia/AMS-AdSalesService/internal/api/handlers/approve_release_stage"
	clearManualBlockHandler "github.com/admedia/AMS-AdSalesService/internal/api/handlers/clear_manual_block"
	createSlotHandler "github.com/admedia/AMS-AdSalesService/internal/api/handlers/create_slot"
	createWorkOrderHandler "github.com/admedia/AMS-AdSalesService/internal/api/handlers/create_work_order"
	getBookingHandler "github.com/admedia/AMS-AdSalesService/internal/api/handlers/get_booking"
	getReleaseOrderHandler "github.com/admedia/AMS-AdSalesService/internal/api/handlers/get_release_order"
	getSlotHandler "github.com/admedia/AMS-AdSalesService/internal/api/handlers/get_slot"
	getWorkOrderHandler "github.com/admedia/AMS-AdSalesService/internal/api/handlers/get_work_order"
	listSlotsHandler "github.com/admedia/AMS-AdSalesService/internal/api/handlers/list_slots"
	markPaidHandler "github.com/admedia/AMS-AdSalesService/internal/api/handlers/mark_paid"
	negotiateWorkOrderHandler "github.com/admedia/AMS-AdSalesService/internal/api/handlers/negotiate_work_order"
	quoteWorkOrderHandler "github.com/admedia/AMS-AdSalesService/internal/api/handlers/quote_work_order"
	recordDeploymentHandler "github.com/admedia/AMS-AdSalesService/internal/api/handlers/record_deployment"
	rejectReleaseStageHandler "github.com/admedia/AMS-AdSalesService/internal/api/handlers/reject_release_stage"
	rejectWorkOrderHandler "github.com/admedia/AMS-AdSalesService/internal/api/handlers/reject_work_order"
	returnToClientHandler "github.com/admedia/AMS-AdSalesService/internal/api/handlers/return_to_client"
	setManualBlockHandler "github.com/admedia/AMS-AdSalesService/internal/api/handlers/set_manual_block"
	submitBannersHandler "github.com/admedia/AMS-AdSalesService/internal/api/handlers/submit_banners"
	transitionBookingHandler "github.com/admedia/AMS-AdSalesService/internal/api/handlers/transition_booking"
	uploadBannerHandler "github.com/admedia/AMS-AdSalesService/internal/api/handlers/upload_banner"
	uploadPOHandler "github.com/admedia/AMS-AdSalesService/internal/api/handlers/upload_po"
	"github.com/admedia/AMS-AdSalesService/internal/api/middleware"
	"github.com/admedia/AMS-AdSalesService/internal/config"
	approvalRepo "github.com/admedia/AMS-AdSalesService/internal/infra/storage/approval"
	bookingRepo "github.com/admedia/AMS-AdSalesService/internal/infra/storage/booking"
	deploymentRepo "github.com/admedia/AMS-AdSalesService/internal/infra/storage/deployment"
	releaseOrderRepo "github.com/admedia/AMS-AdSalesService/internal/infra/storage/releaseorder"
	slotRepo "github.com/admedia/AMS-AdSalesService/internal/infra/storage/slot"
	workOrderRepo "github.com/admedia/AMS-AdSalesService/internal/infra/storage/workorder"
	docServiceClient "github.com/admedia/AMS-AdSalesService/internal/integrations/docservice"
	fileStoreClient "github.com/admedia/AMS-AdSalesService/internal/integrations/filestore"
	notifyServiceClient "github.com/admedia/AMS-AdSalesService/internal/integrations/notifyservice"
	catalogService "github.com/admedia/AMS-AdSalesService/internal/service/catalog"
	conflictsService "github.com/admedia/AMS-AdSalesService/internal/service/conflicts"
	deploymentsService "github.com/admedia/AMS-AdSalesService/internal/service/deployments"
	releaseOrdersService "github.com/admedia/AMS-AdSalesService/internal/service/releaseorders"
	reservationsService "github.com/admedia/AMS-AdSalesService/internal/service/reservations"
	workOrdersService "github.com/admedia/AMS-AdSalesService/internal/service/workorders"
	approvePOUC "github.com/admedia/AMS-AdSalesService/internal/usecase/approve_po"
	createWorkOrderUC "github.com/admedia/AMS-AdSalesService/internal/usecase/create_work_order"
	recordDeploymentUC "github.com/admedia/AMS-AdSalesService/internal/usecase/record_deployment"
	"github.com/admedia/AMS-AdSalesService/pkg/clock"
	"github.com/admedia/AMS-AdSalesService/pkg/dbmetrics"
	"github.com/admedia/AMS-AdSalesService/pkg/logger"
	"github.com/admedia/AMS-AdSalesService/pkg/metrics"
	"github.com/admedia/AMS-AdSalesService/pkg/simpletxmanager"
	"github.com/admedia/AMS-AdSalesService/pkg/txmanager"
)

func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting AMS-AdSalesService...")
	log.Info("Configuration loaded from config.toml")

	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Downstream HTTP clients
	notifyClient := notifyServiceClient.NewClient(
		cfg.NotifyService.URL,
		time.Duration(cfg.NotifyService.Timeout)*time.Second,
		log,
	)
	docClient := docServiceClient.NewClient(
		cfg.DocService.URL,
		time.Duration(cfg.DocService.Timeout)*time.Second,
		log,
	)
	fileClient := fileStoreClient.NewClient(
		cfg.FileStore.URL,
		time.Duration(cfg.FileStore.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (NotifyService=%s, DocService=%s, FileStore=%s)",
		cfg.NotifyService.URL, cfg.DocService.URL, cfg.FileStore.URL)

	// Repositories share one executor; with metrics enabled it is the
	// instrumented wrapper and the tx manager reports through it too.
	var (
		slotRepository         *slotRepo.Repository
		bookingRepository      *bookingRepo.Repository
		approvalRepository     *approvalRepo.Repository
		workOrderRepository    *workOrderRepo.Repository
		releaseOrderRepository *releaseOrderRepo.Repository
		deploymentRepository   *deploymentRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		slotRepository = slotRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		approvalRepository = approvalRepo.NewRepository(wrappedDB)
		workOrderRepository = workOrderRepo.NewRepository(wrappedDB)
		releaseOrderRepository = releaseOrderRepo.NewRepository(wrappedDB)
		deploymentRepository = deploymentRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		slotRepository = slotRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		approvalRepository = approvalRepo.NewRepository(db)
		workOrderRepository = workOrderRepo.NewRepository(db)
		releaseOrderRepository = releaseOrderRepo.NewRepository(db)
		deploymentRepository = deploymentRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	clk := clock.NewSystem()

	// Services
	resolver := conflictsService.NewResolver(slotRepository, bookingRepository, log)
	catalogSvc := catalogService.NewService(slotRepository, workOrderRepository, txMgr, clk, log)
	reservationsSvc := reservationsService.NewService(
		slotRepository,
		bookingRepository,
		approvalRepository,
		resolver,
		txMgr,
		notifyClient,
		clk,
		log,
	)
	workOrdersSvc := workOrdersService.NewService(
		workOrderRepository,
		bookingRepository,
		releaseOrderRepository,
		reservationsSvc,
		txMgr,
		docClient,
		fileClient,
		notifyClient,
		clk,
		log,
	)
	releaseOrdersSvc := releaseOrdersService.NewService(
		releaseOrderRepository,
		workOrderRepository,
		txMgr,
		fileClient,
		notifyClient,
		clk,
		log,
	)
	deploymentsSvc := deploymentsService.NewService(
		deploymentRepository,
		releaseOrderRepository,
		workOrderRepository,
		txMgr,
		notifyClient,
		clk,
		log,
	)

	// Use cases
	createWorkOrderUseCase := createWorkOrderUC.NewUseCase(
		slotRepository,
		workOrderRepository,
		reservationsSvc,
		txMgr,
		createWorkOrderUC.AddOnRates{
			EmailPerDay:    cfg.Pricing.EmailRate(),
			WhatsAppPerDay: cfg.Pricing.WhatsAppRate(),
		},
		log,
	)
	approvePOUseCase := approvePOUC.NewUseCase(
		workOrderRepository,
		releaseOrderRepository,
		txMgr,
		docClient,
		notifyClient,
		clk,
		log,
	)
	recordDeploymentUseCase := recordDeploymentUC.NewUseCase(deploymentsSvc, log)

	// Handlers
	listSlots := listSlotsHandler.NewHandler(catalogSvc, log)
	getSlot := getSlotHandler.NewHandler(catalogSvc, log)
	createSlot := createSlotHandler.NewHandler(catalogSvc, log)
	setManualBlock := setManualBlockHandler.NewHandler(catalogSvc, log)
	clearManualBlock := clearManualBlockHandler.NewHandler(catalogSvc, log)
	createWorkOrder := createWorkOrderHandler.NewHandler(createWorkOrderUseCase, log)
	getWorkOrder := getWorkOrderHandler.NewHandler(workOrdersSvc, log)
	quoteWorkOrder := quoteWorkOrderHandler.NewHandler(workOrdersSvc, log)
	negotiateWorkOrder := negotiateWorkOrderHandler.NewHandler(workOrdersSvc, log)
	uploadPO := uploadPOHandler.NewHandler(workOrdersSvc, log)
	acceptQuote := acceptQuoteHandler.NewHandler(workOrdersSvc, log)
	approvePO := approvePOHandler.NewHandler(approvePOUseCase, log)
	rejectWorkOrder := rejectWorkOrderHandler.NewHandler(workOrdersSvc, log)
	markPaid := markPaidHandler.NewHandler(workOrdersSvc, log)
	getReleaseOrder := getReleaseOrderHandler.NewHandler(releaseOrdersSvc, deploymentsSvc, log)
	uploadBanner := uploadBannerHandler.NewHandler(releaseOrdersSvc, log)
	submitBanners := submitBannersHandler.NewHandler(releaseOrdersSvc, log)
	approveReleaseStage := approveReleaseStageHandler.NewHandler(releaseOrdersSvc, log)
	rejectReleaseStage := rejectReleaseStageHandler.NewHandler(releaseOrdersSvc, log)
	returnToClient := returnToClientHandler.NewHandler(releaseOrdersSvc, log)
	recordDeployment := recordDeploymentHandler.NewHandler(recordDeploymentUseCase, log)
	getBooking := getBookingHandler.NewHandler(reservationsSvc, log)
	transitionBooking := transitionBookingHandler.NewHandler(reservationsSvc, log)

	// Router
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes: the inventory catalog is browsable without identity.
	api.HandleFunc("/slots", listSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/slots/{id}", getSlot.Handle).Methods(http.MethodGet)

	// Protected routes require the X-User-ID header.
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Slot administration
	protected.HandleFunc("/slots", createSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/slots/{id}/block", setManualBlock.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/slots/{id}/block", clearManualBlock.Handle).Methods(http.MethodDelete)

	// Work orders
	protected.HandleFunc("/work-orders", createWorkOrder.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/work-orders/{id}", getWorkOrder.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/work-orders/{id}/quote", quoteWorkOrder.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/work-orders/{id}/negotiate", negotiateWorkOrder.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/work-orders/{id}/po", uploadPO.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/work-orders/{id}/accept", acceptQuote.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/work-orders/{id}/approve-po", approvePO.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/work-orders/{id}/reject", rejectWorkOrder.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/work-orders/{id}/mark-paid", markPaid.Handle).Methods(http.MethodPost)

	// Release orders and deployment
	protected.HandleFunc("/release-orders/{id}", getReleaseOrder.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/release-orders/{id}/submit-banners", submitBanners.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/release-orders/{id}/approve", approveReleaseStage.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/release-orders/{id}/reject", rejectReleaseStage.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/release-orders/{id}/return", returnToClient.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/release-orders/{id}/deployments", recordDeployment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/items/{id}/banner", uploadBanner.Handle).Methods(http.MethodPost)

	// Bookings
	protected.HandleFunc("/bookings/{id}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{id}/transition", transitionBooking.Handle).Methods(http.MethodPost)

	// Background jobs
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Jobs.ExpireOverdueSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		expired, err := reservationsSvc.ExpireOverdue(ctx, time.Now().UTC())
		if err != nil {
			log.Error("ExpireOverdue job failed: %v", err)
			return
		}
		if len(expired) > 0 {
			log.Info("ExpireOverdue job: %d bookings expired", len(expired))
		}
	})
	if err != nil {
		log.Fatal("Failed to schedule ExpireOverdue job (%q): %v", cfg.Jobs.ExpireOverdueSchedule, err)
	}
	scheduler.Start()
	log.Info("ExpireOverdue job scheduled (%s)", cfg.Jobs.ExpireOverdueSchedule)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	cronCtx := scheduler.Stop()
	<-cronCtx.Done()

	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

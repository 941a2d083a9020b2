package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"support-system/internal/controllers"
	"support-system/internal/listeners"
	"support-system/internal/repositories"
	"support-system/internal/services"
	"support-system/pkg/config"
	"support-system/pkg/eventbus"
	"support-system/pkg/middleware"
	"support-system/pkg/service"
	"support-system/pkg/utils"
)

// Services - все, что нужно роутерам. Отдельно от InitRouter, чтобы
// маршруты можно было поднять на фейках.
type Services struct {
	Tickets  services.TicketServiceInterface
	Settings services.SettingsServiceInterface
	Reports  services.ReportServiceInterface
}

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, bus *eventbus.Bus, logger *zap.Logger, cfg *config.Config) {
	logger.Info("InitRouter: Начало создания маршрутов")

	// --- 1. РЕПОЗИТОРИИ ---
	txManager := repositories.NewTxManager(dbConn, logger)
	ticketRepo := repositories.NewTicketRepository(dbConn, logger)
	historyRepo := repositories.NewTicketHistoryRepository(dbConn)
	userRepo := repositories.NewUserRepository(dbConn, logger)
	settingsRepo := repositories.NewSettingsRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// --- 2. СЕРВИСЫ ---
	settingsService := services.NewSettingsService(settingsRepo, cacheRepo, cfg.Redis.SettingsTTL, logger)
	svc := Services{
		Tickets:  services.NewTicketService(ticketRepo, historyRepo, userRepo, txManager, settingsService, bus, logger),
		Settings: settingsService,
		Reports:  services.NewReportService(ticketRepo, logger),
	}

	// --- 3. СЛУШАТЕЛИ ---
	listeners.NewAuditListener(logger).Register(bus)

	RegisterRoutes(e, jwtSvc, svc, logger)
	logger.Info("INIT_ROUTER: Создание маршрутов завершено")
}

func RegisterRoutes(e *echo.Echo, jwtSvc service.JWTService, svc Services, logger *zap.Logger) {
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger.Named("auth"))
	secureGroup := api.Group("", authMW.Auth)

	ticketCtrl := controllers.NewTicketController(svc.Tickets, utils.DefaultPerPage, logger)
	reportCtrl := controllers.NewReportController(svc.Reports, logger)
	settingsCtrl := controllers.NewSettingsController(svc.Settings, logger)

	runTicketRouter(secureGroup, ticketCtrl, reportCtrl, authMW)
	runSettingsRouter(secureGroup, settingsCtrl)
}

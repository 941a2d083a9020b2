package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"support-system/internal/repositories"
	"support-system/internal/services"
	"support-system/pkg/config"
	"support-system/pkg/constants"
	"support-system/pkg/database/migrations"
	"support-system/pkg/database/postgresql"
	applogger "support-system/pkg/logger"
	"support-system/pkg/service"
	"support-system/seeders"
)

func main() {
	runSettings := flag.Bool("settings", false, "Категории и приоритеты по умолчанию")
	runUsers := flag.Bool("users", false, "Демо-пользователи (admin, engineer, client)")
	runTickets := flag.Bool("tickets", false, "Демо-тикеты (включает -users)")
	runAll := flag.Bool("all", false, "Все сидеры")
	password := flag.String("password", "GreenHouse123", "Пароль демо-пользователей")
	tokenFor := flag.String("token", "", "Выпустить токен доступа для пользователя с этим email")
	flag.Parse()

	if !*runSettings && !*runUsers && !*runTickets && !*runAll && *tokenFor == "" {
		fmt.Fprintln(os.Stderr, "Не выбран ни один сидер. Доступные флаги:")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log.Level, cfg.Log.File).Named("seed")
	defer func() { _ = logger.Sync() }()
	ctx := context.Background()

	dbPool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		logger.Fatal("Не удалось подключиться к БД", zap.Error(err))
	}
	defer dbPool.Close()
	if err := migrations.Up(ctx, dbPool); err != nil {
		logger.Fatal("Ошибка применения миграций", zap.Error(err))
	}

	userRepo := repositories.NewUserRepository(dbPool, logger)

	if *runAll || *runSettings {
		// кеш не нужен: сидер пишет прямо в БД
		settings := services.NewSettingsService(repositories.NewSettingsRepository(dbPool), nil, cfg.Redis.SettingsTTL, logger)
		if err := seeders.SeedSettings(ctx, settings, logger); err != nil {
			logger.Fatal("Ошибка наполнения настроек", zap.Error(err))
		}
	}

	if *runAll || *runUsers || *runTickets {
		users, err := seeders.SeedUsers(ctx, userRepo, *password, logger)
		if err != nil {
			logger.Fatal("Ошибка создания пользователей", zap.Error(err))
		}
		if *runAll || *runTickets {
			ticketRepo := repositories.NewTicketRepository(dbPool, logger)
			if err := seeders.SeedTickets(ctx, ticketRepo, users[constants.RoleClient], users[constants.RoleEngineer], logger); err != nil {
				logger.Fatal("Ошибка создания тикетов", zap.Error(err))
			}
		}
	}

	if *tokenFor != "" {
		user, err := userRepo.FindByEmail(ctx, *tokenFor)
		if err != nil {
			logger.Fatal("Пользователь не найден", zap.String("email", *tokenFor), zap.Error(err))
		}
		jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, logger)
		token, err := jwtSvc.GenerateAccessToken(user.UserID, user.Role)
		if err != nil {
			logger.Fatal("Не удалось выпустить токен", zap.Error(err))
		}
		fmt.Println(token)
	}
}

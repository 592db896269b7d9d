package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Madboy21/nexopays/internal/config"
	"github.com/Madboy21/nexopays/internal/handlers"
	"github.com/Madboy21/nexopays/internal/migrations"
	"github.com/Madboy21/nexopays/internal/notify"
	"github.com/Madboy21/nexopays/internal/services"
	"github.com/Madboy21/nexopays/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

// App структура для управления приложением и его зависимостями.
type App struct {
	cfg    *config.Config
	logger *logrus.Logger
	dbPool *pgxpool.Pool
	echo   *echo.Echo
	worker *services.PendingWorker

	// Handlers
	userHandler     *handlers.UserHandler
	adHandler       *handlers.AdHandler
	withdrawHandler *handlers.WithdrawHandler
}

// NewApp создаёт и инициализирует новое приложение.
func NewApp(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*App, error) {
	app := &App{
		cfg:    cfg,
		logger: logger,
	}

	if err := app.initDatabase(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initDependencies(); err != nil {
		return nil, fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	app.initServer()

	return app, nil
}

// initDatabase инициализирует подключение к базе данных и выполняет миграции.
func (app *App) initDatabase(ctx context.Context) error {
	if app.cfg.DatabaseURI == "" {
		return fmt.Errorf("DATABASE_URI is required")
	}

	// Применение миграций
	app.logger.Info("Running database migrations...")
	sqlDB, err := sql.Open("pgx", app.cfg.DatabaseURI)
	if err != nil {
		return fmt.Errorf("unable to open database connection: %w", err)
	}
	defer sqlDB.Close()

	if err := migrations.Run(sqlDB); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.logger.Info("Migrations completed successfully")

	// Подключение к базе данных через pgxpool
	dbPool, err := pgxpool.New(ctx, app.cfg.DatabaseURI)
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		return fmt.Errorf("unable to ping database: %w", err)
	}

	app.dbPool = dbPool
	app.logger.Info("Successfully connected to database")

	return nil
}

// initDependencies инициализирует все зависимости приложения (storage, services, handlers).
func (app *App) initDependencies() error {
	// Storage layer
	userStorage := storage.NewPostgresUserStorage(app.dbPool)
	withdrawalStorage := storage.NewPostgresWithdrawalStorage(app.dbPool)
	auditStorage := storage.NewPostgresAuditStorage(app.dbPool)
	txRunner := storage.NewPgxTxRunner(app.dbPool)

	// Уведомления через Telegram-бота. Без токена работаем молча.
	var notifier notify.Notifier
	if app.cfg.BotToken != "" {
		tgNotifier, err := notify.NewTelegramNotifier(app.cfg.BotToken)
		if err != nil {
			app.logger.WithError(err).Warn("Telegram notifier unavailable, continuing without notifications")
		} else {
			notifier = tgNotifier
			app.logger.Info("Telegram notifier initialized")
		}
	} else {
		app.logger.Warn("TG_BOT_TOKEN is not configured. Signature checks will reject all requests and notifications are disabled")
	}

	// Service layer
	userService := services.NewUserService(userStorage, app.cfg.BotToken, app.cfg.JWTSecret, app.cfg.TokenExpiration)
	ledgerService := services.NewLedgerService(txRunner, userStorage)
	withdrawalService := services.NewWithdrawalService(txRunner, userStorage, withdrawalStorage, auditStorage, notifier, app.logger)

	// Handler layer
	app.userHandler = handlers.NewUserHandler(userService)
	app.adHandler = handlers.NewAdHandler(ledgerService)
	app.withdrawHandler = handlers.NewWithdrawHandler(withdrawalService)

	// Воркер сводок по ожидающим заявкам
	if notifier != nil && app.cfg.AdminChatID != 0 {
		app.worker = services.NewPendingWorker(withdrawalStorage, notifier, app.cfg.AdminChatID, app.cfg.NotifyInterval, app.logger)
		app.logger.Info("Pending withdrawals worker initialized")
	}

	return nil
}

// initServer инициализирует HTTP-сервер и настраивает маршруты.
func (app *App) initServer() {
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
	}))

	// Пользовательские маршруты
	e.POST("/api/auth/telegram", app.userHandler.AuthTelegram)
	e.POST("/api/profile", app.userHandler.GetProfile)
	e.POST("/api/ads/watch", app.adHandler.WatchAd)
	e.POST("/api/withdraw", app.withdrawHandler.Create)

	// Админские маршруты
	e.GET("/api/admin/withdrawals", app.withdrawHandler.ListPending)
	e.POST("/api/admin/withdrawals/decide", app.withdrawHandler.Decide)

	app.echo = e
}

// Start запускает приложение.
func (app *App) Start(ctx context.Context) error {
	// Запуск воркера сводок
	if app.worker != nil {
		app.worker.Start(ctx)
		app.logger.Info("Pending withdrawals worker started")
	}

	// Запуск сервера
	app.logger.Infof("Starting server on %s", app.cfg.RunAddress)
	if err := app.echo.Start(app.cfg.RunAddress); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}

	return nil
}

// Shutdown корректно завершает работу приложения.
func (app *App) Shutdown(ctx context.Context) error {
	app.logger.Info("Shutting down server...")

	if err := app.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	if app.dbPool != nil {
		app.dbPool.Close()
	}

	app.logger.Info("Server gracefully stopped")
	return nil
}

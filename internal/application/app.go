package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chatbridge/chatbridge/internal/application/usecase"
	"github.com/chatbridge/chatbridge/internal/domain/repository"
	"github.com/chatbridge/chatbridge/internal/domain/service"
	"github.com/chatbridge/chatbridge/internal/infrastructure/config"
	"github.com/chatbridge/chatbridge/internal/infrastructure/llm"
	"github.com/chatbridge/chatbridge/internal/infrastructure/persistence"
	"github.com/chatbridge/chatbridge/internal/interfaces/discord"
	httpServer "github.com/chatbridge/chatbridge/internal/interfaces/http"
	"github.com/chatbridge/chatbridge/internal/interfaces/http/handlers"
)

// App 应用程序
type App struct {
	// 配置
	config *config.Config
	logger *zap.Logger
	db     *gorm.DB

	// 仓储层
	settingsRepo     repository.SettingsRepository
	conversationRepo repository.ConversationRepository
	usageRepo        repository.UsageRepository

	// 领域服务
	policy    *service.ResponsePolicy
	assembler *service.ContextAssembler
	builder   *service.PromptBuilder
	completer service.CompletionClient

	// 应用服务
	replyUseCase    *usecase.ReplyUseCase
	settingsUseCase *usecase.SettingsUseCase
	usageUseCase    *usecase.UsageUseCase

	// 接口层
	discordAdapter *discord.Adapter
	httpServer     *httpServer.Server
}

// NewApp 创建应用程序（依赖注入容器）
func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	app := &App{
		config: cfg,
		logger: logger,
	}

	if err := app.initRepositories(); err != nil {
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}

	if err := app.initDomainServices(); err != nil {
		return nil, fmt.Errorf("failed to init domain services: %w", err)
	}

	if err := app.initApplicationServices(); err != nil {
		return nil, fmt.Errorf("failed to init application services: %w", err)
	}

	if err := app.initInterfaces(); err != nil {
		return nil, fmt.Errorf("failed to init interfaces: %w", err)
	}

	return app, nil
}

// initRepositories 初始化仓储层
func (app *App) initRepositories() error {
	app.logger.Info("Initializing repositories",
		zap.String("database", app.config.Database.Type),
	)

	if app.config.Database.Type == "memory" {
		app.settingsRepo = persistence.NewMemorySettingsRepository()
		app.conversationRepo = persistence.NewMemoryConversationRepository()
		app.usageRepo = persistence.NewMemoryUsageRepository()
		return nil
	}

	db, err := persistence.NewDBConnection(&app.config.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.db = db

	app.settingsRepo = persistence.NewGormSettingsRepository(db)
	app.conversationRepo = persistence.NewGormConversationRepository(db)
	app.usageRepo = persistence.NewGormUsageRepository(db)

	return nil
}

// initDomainServices 初始化领域服务
func (app *App) initDomainServices() error {
	app.logger.Info("Initializing domain services")

	app.policy = service.NewResponsePolicy(app.logger)
	app.assembler = service.NewContextAssembler(app.conversationRepo, app.logger)
	app.builder = service.NewPromptBuilder()
	app.completer = llm.NewOpenAIClient(&app.config.OpenAI, app.logger)

	return nil
}

// initApplicationServices 初始化应用服务
func (app *App) initApplicationServices() error {
	app.logger.Info("Initializing application services")

	app.settingsUseCase = usecase.NewSettingsUseCase(app.settingsRepo, app.logger)
	app.usageUseCase = usecase.NewUsageUseCase(app.usageRepo, app.logger)
	app.replyUseCase = usecase.NewReplyUseCase(
		app.settingsRepo,
		app.policy,
		app.assembler,
		app.builder,
		app.completer,
		app.usageUseCase,
		app.logger,
	)

	return nil
}

// initInterfaces 初始化接口层
func (app *App) initInterfaces() error {
	app.logger.Info("Initializing interfaces")

	// Discord适配器
	if app.config.Discord.BotToken != "" {
		adapter, err := discord.NewAdapter(
			&discord.Config{BotToken: app.config.Discord.BotToken},
			app.replyUseCase,
			app.settingsUseCase,
			app.usageUseCase,
			app.logger,
		)
		if err != nil {
			return fmt.Errorf("failed to create discord adapter: %w", err)
		}
		app.discordAdapter = adapter
	} else {
		app.logger.Warn("Discord bot token not configured, gateway disabled")
	}

	// HTTP服务器 (仪表盘 API)
	var gateway handlers.GatewayController = disabledGateway{}
	if app.discordAdapter != nil {
		gateway = app.discordAdapter
	}
	app.httpServer = httpServer.NewServer(
		httpServer.Config{
			Host: app.config.HTTP.Host,
			Port: app.config.HTTP.Port,
			Mode: app.config.HTTP.Mode,
		},
		gateway,
		app.settingsUseCase,
		app.usageUseCase,
		app.conversationRepo,
		app.logger,
	)

	return nil
}

// Start 启动应用程序
func (app *App) Start(ctx context.Context) error {
	app.logger.Info("Starting application")

	if err := app.httpServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	if app.discordAdapter != nil && app.config.Discord.AutoConnect {
		if err := app.discordAdapter.Start(ctx); err != nil {
			return fmt.Errorf("failed to start discord adapter: %w", err)
		}
	}

	// 刷新会话计数器
	if count, err := app.conversationRepo.CountActive(ctx); err == nil {
		app.usageUseCase.SetActiveConversations(ctx, count)
	} else {
		app.logger.Warn("Failed to count conversations", zap.Error(err))
	}

	app.logger.Info("Application started successfully")
	return nil
}

// Stop 停止应用程序
func (app *App) Stop(ctx context.Context) error {
	app.logger.Info("Stopping application")

	if app.discordAdapter != nil && app.discordAdapter.Connected() {
		if err := app.discordAdapter.Stop(ctx); err != nil {
			app.logger.Error("Failed to stop discord adapter", zap.Error(err))
		}
	}

	if err := app.httpServer.Stop(ctx); err != nil {
		app.logger.Error("Failed to stop HTTP server", zap.Error(err))
	}

	// 关闭数据库连接
	if app.db != nil {
		sqlDB, err := app.db.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				app.logger.Error("Failed to close database connection", zap.Error(err))
			}
		}
	}

	app.logger.Info("Application stopped successfully")
	return nil
}

// Logger returns the application logger.
func (app *App) Logger() *zap.Logger {
	return app.logger
}

// disabledGateway 在未配置 bot token 时代替 Discord 适配器
type disabledGateway struct{}

func (disabledGateway) Start(ctx context.Context) error {
	return fmt.Errorf("discord bot token is not configured")
}

func (disabledGateway) Stop(ctx context.Context) error { return nil }

func (disabledGateway) Connected() bool { return false }

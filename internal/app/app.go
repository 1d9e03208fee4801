// Package app builds the service graph shared by the HTTP server and the CLI.
package app

import (
	"context"
	"fmt"

	"knoxshield/internal/ai"
	"knoxshield/internal/catalog"
	"knoxshield/internal/config"
	"knoxshield/internal/dao"
	"knoxshield/internal/database"
	"knoxshield/internal/models"
	"knoxshield/internal/notification"
	"knoxshield/internal/services"
	"knoxshield/internal/storage"
	"knoxshield/internal/utils"
	"knoxshield/internal/vault"
	"knoxshield/pkg/engine"
	"knoxshield/pkg/hooks"
	"knoxshield/pkg/logger"
	"knoxshield/pkg/runner"

	"gorm.io/gorm"
)

type App struct {
	Config      *config.Config
	Logger      *logger.Logger
	Events      *services.EventBroker
	Catalog     services.CatalogServiceMethods
	Operations  services.OperationServiceMethods
	AI          services.AIServiceMethods
	Preferences services.PreferenceServiceMethods
	VPN         services.VPNServiceMethods

	opts     Options
	db       *gorm.DB
	eventLog *logger.EventLogger
	notifier *notification.NotificationClient
}

// Options toggles the optional parts of the graph.
type Options struct {
	// WithoutVPN skips the vault, the script runner and the VPN service.
	WithoutVPN bool
	// DetachVPN leaves the tunnel and kill switch as they are on Close.
	DetachVPN bool
}

// Load reads the configuration and builds the graph with a logger at the CLI's verbosity.
func Load(ctx context.Context, verbose bool, opts Options) (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	return New(ctx, cfg, logger.NewLogger(logger.LevelFromVerbose(verbose)), opts)
}

func New(ctx context.Context, cfg *config.Config, log *logger.Logger, opts Options) (*App, error) {
	if log == nil {
		log = logger.Default()
	}
	if err := utils.EnsureDirectoryExists(cfg.DataDir); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	a := &App{Config: cfg, Logger: log, Events: services.NewEventBroker(services.DefaultEventBuffer), opts: opts}

	categories, err := catalog.Load()
	if err != nil {
		return nil, err
	}
	threats, err := catalog.LoadThreatDB()
	if err != nil {
		return nil, err
	}
	a.Catalog = services.NewCatalogService(categories, a.Events, log)

	store, err := a.openStore()
	if err != nil {
		return nil, err
	}

	a.Preferences = services.NewPreferenceService(store.Preferences, models.Preferences{
		Language: cfg.UI.Language,
		Theme:    cfg.UI.Theme,
	}, log)

	a.AI, err = newAIService(cfg.AI, log)
	if err != nil {
		return nil, err
	}

	registry, err := a.hooks(ctx)
	if err != nil {
		return nil, err
	}

	a.Operations = services.NewOperationService(services.OperationDeps{
		DAO:      store.Operations,
		Catalog:  a.Catalog,
		Queue:    engine.NewQueue(cfg.Engine.MaxConcurrent, log),
		Driver:   engine.NewDriver(engine.WithLogger(log)),
		Threats:  threats,
		Events:   a.Events,
		Hooks:    registry,
		Logger:   log,
		Language: a.Preferences.Language,
	})

	if !opts.WithoutVPN {
		if err := a.initVPN(store.Servers); err != nil {
			a.Close(ctx)
			return nil, err
		}
	}
	return a, nil
}

func (a *App) openStore() (*dao.Store, error) {
	if !a.Config.Database.Enabled {
		a.Logger.Info("Database disabled, using local storage")
		return dao.NewLocalStore(a.Config.PreferencesFile()), nil
	}

	db, err := database.InitDB(a.Config.Database)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	a.db = db
	return dao.NewGormStore(db), nil
}

// newAIService returns a service that reports itself unavailable when no key is set.
func newAIService(cfg config.AIConfig, log *logger.Logger) (services.AIServiceMethods, error) {
	if cfg.APIKey == "" {
		log.Warn("AI API key not configured, AI features disabled")
		return services.NewAIService(nil, log), nil
	}
	client, err := ai.NewClient(ai.Options{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL, Model: cfg.Model})
	if err != nil {
		return nil, err
	}
	return services.NewAIService(client, log), nil
}

func (a *App) hooks(ctx context.Context) (*hooks.Registry, error) {
	registry := hooks.NewRegistry()
	registry.Register(&hooks.ReportWriterHook{Dir: a.Config.ReportsDir()})

	storeOpts := storage.Options{
		Endpoint:  a.Config.Storage.Endpoint,
		Region:    a.Config.Storage.Region,
		Bucket:    a.Config.Storage.Bucket,
		AccessKey: a.Config.Storage.AccessKey,
		SecretKey: a.Config.Storage.SecretKey,
		UseSSL:    a.Config.Storage.UseSSL,
	}
	if storeOpts.Enabled() {
		store, err := storage.New(ctx, storeOpts)
		if err != nil {
			return nil, err
		}
		registry.Register(&hooks.ReportArchiveHook{Store: store, Prefix: "reports"})
	}

	if a.Config.Discord.Token != "" {
		client, err := notification.NewNotificationClient(a.Config.Discord.Token, a.Config.Discord.ChannelID)
		if err != nil {
			return nil, err
		}
		a.notifier = client
		registry.Register(hooks.NewThreatAlertHook(client))
	}

	a.Logger.WithField("hooks", registry.Names()).Debug("Post-operation hooks registered")
	return registry, nil
}

func (a *App) initVPN(servers dao.ServerDAO) error {
	cfg := a.Config
	v, err := vault.Open(vault.Options{KeyFile: cfg.Vault.KeyFile, Passphrase: cfg.Vault.Passphrase})
	if err != nil {
		return err
	}
	eventLog, err := logger.NewEventLogger(cfg.VPNLogFile(), logger.DefaultEventCapacity, a.Logger.GetLevel())
	if err != nil {
		return err
	}
	a.eventLog = eventLog

	a.VPN, err = services.NewVPNService(services.VPNDeps{
		Runner:                 runner.NewSimpleRunner(cfg.VPN.ScriptsDir, a.Logger),
		Vault:                  v,
		Servers:                servers,
		EventLog:               eventLog,
		Events:                 a.Events,
		Logger:                 a.Logger,
		ConfigsDir:             cfg.VPN.ConfigsDir,
		ServersFile:            cfg.ServersFile(),
		ImportDir:              cfg.VPN.ImportDir,
		MonitorInterval:        cfg.VPN.MonitorInterval,
		Interface:              cfg.VPN.Interface,
		KillSwitchOnDisconnect: cfg.VPN.KillSwitchOnDisconnect,
	})
	return err
}

// Close stops running operations and the VPN monitor, then releases files and connections.
func (a *App) Close(ctx context.Context) {
	if a.Operations != nil {
		a.Operations.Shutdown()
	}
	if a.VPN != nil && !a.opts.DetachVPN {
		a.VPN.Shutdown(ctx)
	}
	if a.eventLog != nil {
		if err := a.eventLog.Close(); err != nil {
			a.Logger.WithError(err).Warn("Failed to close VPN log")
		}
	}
	if a.notifier != nil {
		if err := a.notifier.Close(); err != nil {
			a.Logger.WithError(err).Warn("Failed to close Discord session")
		}
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

package main

import (
	"context"

	"chiron/internal/appstate"
	"chiron/internal/assess"
	"chiron/internal/config"
	"chiron/internal/connectivity"
	"chiron/internal/docstore"
	"chiron/internal/identity"
	"chiron/internal/remotesync"

	"go.uber.org/zap"
)

// app holds the wired component graph for one CLI invocation. The state
// store is constructor-injected everywhere; nothing reaches for a
// global.
type app struct {
	cfg      *config.Config
	store    *appstate.Store
	docs     *docstore.Store
	ids      *identity.Provider
	resolver *assess.Resolver
	canned   *assess.CannedSource
	chat     *assess.ChatResponder
	syncer   *remotesync.Syncer
	prober   *connectivity.Prober
	monitor  *connectivity.Monitor
}

// buildApp wires every component from config and signs in the CLI
// identity. Missing provider credentials disable the corresponding
// tier, never the build.
func buildApp(ctx context.Context) (*app, error) {
	docs, err := docstore.Open(cfg.Store.DatabasePath)
	if err != nil {
		return nil, err
	}

	primary := assess.NewPrimaryProvider(assess.PrimaryConfig{
		BaseURL: cfg.Providers.AssessBaseURL,
		Timeout: cfg.AssessTimeout(),
	})

	geminiConfig := assess.GeminiConfig{
		APIKey: cfg.Providers.GeminiAPIKey,
		Model:  cfg.Providers.GeminiModel,
	}
	var secondary assess.Provider
	if gemini, err := assess.NewGeminiProvider(ctx, geminiConfig); err != nil {
		logger.Info("Generative fallback tier disabled", zap.Error(err))
	} else {
		secondary = gemini
	}

	canned := assess.NewCannedSource()
	if cfg.Guidance.File != "" {
		if err := canned.LoadFile(cfg.Guidance.File); err != nil {
			logger.Warn("Could not load guidance override", zap.Error(err))
		}
	}

	chat, err := assess.NewChatResponder(ctx, geminiConfig)
	if err != nil {
		logger.Info("Follow-up chat running offline", zap.Error(err))
		chat = nil
	}

	store := appstate.New()
	ids := identity.NewProvider()

	a := &app{
		cfg:      cfg,
		store:    store,
		docs:     docs,
		ids:      ids,
		resolver: assess.NewResolver(primary, secondary, canned),
		canned:   canned,
		chat:     chat,
		syncer:   remotesync.New(store, docs, ids),
	}

	a.prober = connectivity.NewProber(cfg.Connectivity.ProbeURL, cfg.ProbeInterval())
	a.monitor = connectivity.NewMonitor(store, a.prober)

	ids.Login(identity.User{UID: userID})
	return a, nil
}

// close releases the app's resources.
func (a *app) close() {
	a.syncer.Stop()
	if err := a.docs.Close(); err != nil {
		logger.Warn("Closing document store", zap.Error(err))
	}
}

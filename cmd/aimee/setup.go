package main

import (
	"context"

	"github.com/sandevgo/aimee/internal/config"
	"github.com/sandevgo/aimee/internal/providers/llm"
	"github.com/sandevgo/aimee/internal/providers/sms"
	"github.com/sandevgo/aimee/internal/service/handler"
	"github.com/sandevgo/aimee/internal/service/memory"
	"github.com/sandevgo/aimee/internal/service/scheduler"
	"github.com/sandevgo/aimee/internal/storage/sqlite"
	transport "github.com/sandevgo/aimee/internal/transport/http"
	"github.com/sandevgo/aimee/pkg/log"
	"github.com/sandevgo/aimee/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	aiCfg := config.NewAIConfig(ctx)
	twilioCfg := config.NewTwilioConfig(ctx)
	dbCfg := config.NewDatabaseConfig(ctx)

	config.Enforce(ctx, appCfg.IsProduction(), aiCfg, twilioCfg)

	// 2. Storage
	db, err := sqlite.NewDB(ctx, dbCfg.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	messagesRepo := sqlite.NewMessagesRepo(db)
	memoriesRepo := sqlite.NewMemoriesRepo(db)
	usageRepo := sqlite.NewUsageRepo(db, appCfg.FreeTierLimit)

	// 3. Completion router + memory extractor
	router := llm.NewRouter(ctx, aiCfg)
	extractor := memory.NewExtractor(memoriesRepo, router)

	// 4. Inbound orchestrator
	h := handler.New(handler.Config{
		Messages:      messagesRepo,
		Memories:      memoriesRepo,
		Usage:         usageRepo,
		Extractor:     extractor,
		AI:            router,
		ContextSize:   appCfg.MemoryContextSize,
		FreeTierLimit: appCfg.FreeTierLimit,
		SignupURL:     appCfg.SignupURL,
	})

	// 5. Proactive scheduler
	sender := sms.NewTwilio(twilioCfg)
	sched := scheduler.New(messagesRepo, memoriesRepo, router, sender)
	cronSvc, err := scheduler.NewService(ctx, sched, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize scheduler")
	}
	services = append(services, cronSvc)

	// 6. Webhook server
	status := transport.ServiceStatus{
		Twilio:   len(twilioCfg.Missing()) == 0,
		AI:       len(aiCfg.Missing()) == 0,
		Database: true,
	}
	services = append(services, transport.NewServer(ctx, appCfg, h, router, status))

	return services
}

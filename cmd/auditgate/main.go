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

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/seclens/auditgate/internal/ai"
	"github.com/seclens/auditgate/internal/chunker"
	"github.com/seclens/auditgate/internal/config"
	"github.com/seclens/auditgate/internal/db"
	"github.com/seclens/auditgate/internal/embedcache"
	"github.com/seclens/auditgate/internal/filestore"
	"github.com/seclens/auditgate/internal/handler"
	"github.com/seclens/auditgate/internal/job"
	"github.com/seclens/auditgate/internal/middleware"
	"github.com/seclens/auditgate/internal/repo"
	"github.com/seclens/auditgate/internal/schedule"
	"github.com/seclens/auditgate/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "auditgate",
		Short: "auditgate document QA server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run auditgate server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			conn, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(conn); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, conn)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, conn *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("archive", cfg.Archive.Type),
	)

	chunkRepo := repo.NewChunkRepo(conn)
	auditRepo := repo.NewAuditRepo(conn)

	providerArgs := cfg.AI.Data
	if providerArgs == nil {
		providerArgs = cfg.AI
	}
	provider, err := ai.NewProvider(cfg.AI.Provider, providerArgs)
	if err != nil {
		return fmt.Errorf("init ai provider: %w", err)
	}
	embedder := embedcache.WrapLRU(ai.NewEmbedder(provider, cfg.AI.EmbedModel), cfg.AI.EmbedCache, 2*time.Hour)
	generator := ai.NewGenerator(provider, cfg.AI.Model)

	splitter, err := chunker.New(cfg.Chunking.Size, cfg.Chunking.Overlap)
	if err != nil {
		return fmt.Errorf("init chunker: %w", err)
	}

	var archive filestore.Store
	if cfg.Archive.Type != "" {
		archive, err = filestore.New(cfg.Archive)
		if err != nil {
			return fmt.Errorf("init archive store: %w", err)
		}
	}

	docStore := service.NewDocumentStore(embedder, chunkRepo)
	auditService := service.NewAuditService(auditRepo)
	ingestService := service.NewIngestService(splitter, docStore, auditService, archive)
	retrievalService := service.NewRetrievalService(docStore, auditService, cfg.Retrieval.TopK, cfg.Retrieval.ProbeK)
	answerService := service.NewAnswerService(generator, time.Duration(cfg.AI.Timeout)*time.Second)
	adminService := service.NewAdminService(docStore, auditService)

	deps := handler.RouterDeps{
		Documents: handler.NewDocumentHandler(ingestService),
		Query:     handler.NewQueryHandler(retrievalService, answerService),
		Audit:     handler.NewAuditHandler(auditService),
		Admin:     handler.NewAdminHandler(adminService),
	}

	middlewares := []gin.HandlerFunc{
		middleware.RequestID(),
		middleware.CORS(cfg.CORSOrigins),
		gzip.Gzip(gzip.DefaultCompression),
	}
	if cfg.RateLimitMS > 0 {
		middlewares = append(middlewares, middleware.RateLimit(time.Duration(cfg.RateLimitMS)*time.Millisecond))
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(middlewares...),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	retention := job.NewAuditRetentionJob(auditService, cfg.Audit.RetentionDays)
	if err := scheduler.AddJob(retention, cfg.Audit.CleanupSpec); err != nil {
		return fmt.Errorf("schedule audit retention: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}

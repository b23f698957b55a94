package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/orbitscope/satassist-go/internal/config"
	"github.com/orbitscope/satassist-go/internal/embeddings"
	"github.com/orbitscope/satassist-go/internal/geospatial"
	"github.com/orbitscope/satassist-go/internal/graph"
	"github.com/orbitscope/satassist-go/internal/metrics"
	"github.com/orbitscope/satassist-go/internal/nlp"
	"github.com/orbitscope/satassist-go/internal/resolver"
	"github.com/orbitscope/satassist-go/internal/server"
	"github.com/orbitscope/satassist-go/internal/session"
)

var (
	configPath  = flag.String("config", "config.yaml", "Path to the YAML configuration file")
	snapshotURL = flag.String("snapshot-url", "", "Snapshot database URL (overrides config)")
	authToken   = flag.String("auth-token", "", "Authentication token for remote snapshot databases")
	transport   = flag.String("transport", "", "Transport to use: stdio or sse (overrides config)")
	addr        = flag.String("addr", "", "Address to listen on when using SSE transport")
	sseEndpoint = flag.String("sse-endpoint", "", "SSE endpoint path when using SSE transport")
)

func main() {
	flag.Parse()

	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *snapshotURL != "" {
		cfg.Snapshot.URL = *snapshotURL
	}
	if *authToken != "" {
		cfg.Snapshot.AuthToken = *authToken
	}
	if *transport != "" {
		cfg.Server.Transport = *transport
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *sseEndpoint != "" {
		cfg.Server.SSEEndpoint = *sseEndpoint
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal, closing server")
		cancel()
	}()

	metrics.Init(cfg.Metrics.Enabled, cfg.Metrics.Addr)

	provider := embeddings.NewFromConfig(cfg.Embedder)
	if provider != nil {
		provider = embeddings.WithZeroFallback(provider, logger)
		logger.Info("embedding provider configured",
			zap.String("provider", provider.Name()), zap.Int("dims", provider.Dimensions()))
	} else {
		logger.Warn("no embedding provider configured, similarity search will be degraded")
	}
	dims := cfg.Embedder.Dimensions

	var recognizer nlp.Recognizer = nlp.NopRecognizer{}
	if cfg.NER.Endpoint != "" {
		recognizer = nlp.NewHTTPRecognizer(cfg.NER.Endpoint,
			time.Duration(cfg.NER.TimeoutSecs)*time.Second)
	}

	processor := nlp.NewProcessor(
		nlp.NewExtractor(recognizer, nlp.DefaultRules(), logger),
		nlp.NewClassifier(nlp.DefaultIntentRules(), logger),
		provider, dims, logger,
	)

	store := graph.NewStore(provider, dims, logger)

	var snapshot *graph.SnapshotStore
	if cfg.Snapshot.URL != "" {
		snapshot, err = graph.OpenSnapshotStore(cfg.Snapshot.URL, cfg.Snapshot.AuthToken, logger)
		if err != nil {
			logger.Fatal("failed to open snapshot store", zap.Error(err))
		}
		defer func() {
			if err := snapshot.Close(); err != nil {
				logger.Warn("error closing snapshot store", zap.Error(err))
			}
		}()

		if err := snapshot.Load(ctx, store); err != nil {
			if !errors.Is(err, graph.ErrEmptySnapshot) {
				logger.Warn("snapshot load failed, starting from seed knowledge", zap.Error(err))
			}
			store.SeedBaseKnowledge(ctx)
			if err := snapshot.Save(ctx, store); err != nil {
				logger.Warn("initial snapshot save failed", zap.Error(err))
			}
		}
	} else {
		store.SeedBaseKnowledge(ctx)
	}

	sessions := session.NewManager(cfg.Session.MaxEntries,
		cfg.Session.IdleTTL, cfg.Session.MaxSessions, logger)
	res := resolver.New(processor, geospatial.NewHandler(logger), store, sessions, logger)

	mcpServer := server.NewMCPServer(res, store, snapshot, dims, logger)

	logger.Info("starting satassist server", zap.String("transport", cfg.Server.Transport))
	switch cfg.Server.Transport {
	case "stdio":
		go func() {
			if err := mcpServer.Run(ctx); err != nil {
				logger.Error("server error", zap.Error(err))
			}
		}()
	case "sse":
		go func() {
			if err := mcpServer.RunSSE(ctx, cfg.Server.Addr, cfg.Server.SSEEndpoint); err != nil {
				logger.Error("SSE server error", zap.Error(err))
			}
		}()
	default:
		logger.Fatal("unknown transport", zap.String("transport", cfg.Server.Transport))
	}

	<-ctx.Done()

	logger.Info("server stopped")
}

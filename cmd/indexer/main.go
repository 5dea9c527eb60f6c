package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solana-token-stream/internal/indexer"
	"solana-token-stream/internal/observability"
	"solana-token-stream/internal/solana"
	"solana-token-stream/internal/storage"
	chstore "solana-token-stream/internal/storage/clickhouse"
	"solana-token-stream/internal/storage/memory"
	"solana-token-stream/internal/storage/migrations"
	pgstore "solana-token-stream/internal/storage/postgres"
)

func main() {
	program := flag.String("program", "", "Base58 stream program ID to index")
	rpcEndpoint := flag.String("rpc-endpoint", "", "Solana RPC HTTP endpoint")
	wsEndpoint := flag.String("ws-endpoint", "", "Solana WebSocket endpoint (empty for polling only)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string for the stream mirror")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string for the event journal")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	pollInterval := flag.Duration("poll-interval", 30*time.Second, "Program account poll interval")
	dataSize := flag.Int("data-size", 0, "Metadata account size filter (0 = encoded ledger size, -1 = no filter)")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus metrics HTTP address (empty to disable)")

	flag.Parse()

	logger := log.New(os.Stdout, "[indexer] ", log.LstdFlags|log.Lshortfile)

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	err := run(ctx, logger, runConfig{
		program:       *program,
		rpcEndpoint:   *rpcEndpoint,
		wsEndpoint:    *wsEndpoint,
		postgresDSN:   *postgresDSN,
		clickhouseDSN: *clickhouseDSN,
		useMemory:     *useMemory,
		pollInterval:  *pollInterval,
		dataSize:      *dataSize,
	})

	done <- err
	cancel()

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("Error: %v", err)
	}

	logger.Println("Shutdown complete")
}

type runConfig struct {
	program       string
	rpcEndpoint   string
	wsEndpoint    string
	postgresDSN   string
	clickhouseDSN string
	useMemory     bool
	pollInterval  time.Duration
	dataSize      int
}

// run wires stores, clients, and the watcher, then blocks until shutdown.
func run(ctx context.Context, logger *log.Logger, cfg runConfig) error {
	if cfg.program == "" {
		return fmt.Errorf("--program is required")
	}
	if cfg.rpcEndpoint == "" {
		return fmt.Errorf("--rpc-endpoint is required")
	}

	programID, err := solana.ParsePublicKey(cfg.program)
	if err != nil {
		return fmt.Errorf("parse program ID: %w", err)
	}

	rpc := solana.NewHTTPClient(cfg.rpcEndpoint)

	if !cfg.useMemory && (cfg.postgresDSN == "" || cfg.clickhouseDSN == "") {
		return fmt.Errorf("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	var streamStore storage.StreamStore = memory.NewStreamStore()
	var eventStore storage.StreamEventStore = memory.NewStreamEventStore()

	if !cfg.useMemory {
		pool, err := pgstore.NewPool(ctx, cfg.postgresDSN)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return fmt.Errorf("run postgres migrations: %w", err)
		}

		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.clickhouseDSN)
		if err != nil {
			return fmt.Errorf("run clickhouse migrations: %w", err)
		}
		defer conn.Close()

		streamStore = pgstore.NewStreamStore(pool)
		eventStore = chstore.NewStreamEventStore(conn)
		logger.Println("Connected to PostgreSQL and ClickHouse")
	}

	var ws solana.WSClient
	if cfg.wsEndpoint != "" {
		wsClient, err := solana.NewWSClient(ctx, cfg.wsEndpoint, nil)
		if err != nil {
			return fmt.Errorf("create websocket client: %w", err)
		}
		defer wsClient.Close()
		ws = wsClient
	}

	ix := indexer.New(indexer.Options{
		ProgramID: programID,
		Streams:   streamStore,
		Events:    eventStore,
		Logger:    logger,
	})

	watcher := indexer.NewWatcher(indexer.WatcherOptions{
		RPC:          rpc,
		WS:           ws,
		Indexer:      ix,
		Program:      cfg.program,
		DataSize:     cfg.dataSize,
		PollInterval: cfg.pollInterval,
		Logger:       logger,
	})

	logger.Println("Starting stream indexer...")
	return watcher.Run(ctx)
}

package indexer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"time"

	"solana-token-stream/internal/observability"
	"solana-token-stream/internal/solana"
	"solana-token-stream/internal/state"
)

// Watcher keeps the mirror current. It polls the program's accounts over RPC
// and, when a WebSocket client is supplied, also applies pushed account
// updates between polls.
type Watcher struct {
	rpc          solana.RPCClient
	ws           solana.WSClient
	indexer      *Indexer
	program      string
	dataSize     int
	pollInterval time.Duration
	logger       *log.Logger
}

// WatcherOptions contains configuration for creating a Watcher.
type WatcherOptions struct {
	RPC     solana.RPCClient
	WS      solana.WSClient // optional; polling-only when nil
	Indexer *Indexer
	Program string

	// DataSize filters program accounts by size. Zero uses the encoded
	// ledger size; a negative value disables the filter for deployments
	// that over-allocate metadata accounts.
	DataSize int

	PollInterval time.Duration // default 30s
	Logger       *log.Logger
}

// NewWatcher creates a new Watcher.
func NewWatcher(opts WatcherOptions) *Watcher {
	pollInterval := opts.PollInterval
	if pollInterval == 0 {
		pollInterval = 30 * time.Second
	}

	dataSize := opts.DataSize
	if dataSize == 0 {
		dataSize = state.EncodedContractLen
	} else if dataSize < 0 {
		dataSize = 0
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Watcher{
		rpc:          opts.RPC,
		ws:           opts.WS,
		indexer:      opts.Indexer,
		program:      opts.Program,
		dataSize:     dataSize,
		pollInterval: pollInterval,
		logger:       logger,
	}
}

// Run starts watching. It blocks until the context is cancelled or the
// subscription channel closes.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Printf("Starting stream watcher for program %s, poll interval: %v", w.program, w.pollInterval)

	if err := w.pollOnce(ctx); err != nil {
		w.logger.Printf("Initial poll failed: %v", err)
	}

	var notifyCh <-chan solana.AccountNotification
	if w.ws != nil {
		var err error
		notifyCh, err = w.ws.SubscribeProgram(ctx, solana.ProgramFilter{
			Program:  w.program,
			DataSize: w.dataSize,
		})
		if err != nil {
			return fmt.Errorf("subscribe to program accounts: %w", err)
		}
		w.logger.Println("Subscribed to program account updates")
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Println("Watcher stopping...")
			return ctx.Err()

		case n, ok := <-notifyCh:
			if !ok {
				w.logger.Println("Account notifications channel closed")
				return errors.New("account notifications channel closed")
			}
			w.handleNotification(ctx, n)

		case <-ticker.C:
			if err := w.pollOnce(ctx); err != nil {
				w.logger.Printf("Poll failed: %v", err)
			}
		}
	}
}

// pollOnce fetches every program account and reconciles each one.
func (w *Watcher) pollOnce(ctx context.Context) error {
	start := time.Now()

	slot, err := w.rpc.GetSlot(ctx)
	if err != nil {
		return fmt.Errorf("get slot: %w", err)
	}

	accounts, err := w.rpc.GetProgramAccounts(ctx, w.program, w.dataSize)
	if err != nil {
		return fmt.Errorf("get program accounts: %w", err)
	}

	for _, acc := range accounts {
		data, err := base64.StdEncoding.DecodeString(acc.Account.Data)
		if err != nil {
			observability.RecordProcessingError("base64")
			w.logger.Printf("Bad account data encoding for %s: %v", acc.Pubkey, err)
			continue
		}
		if err := w.indexer.ObserveAccount(ctx, acc.Pubkey, data, slot); err != nil {
			w.logger.Printf("Error processing account %s: %v", acc.Pubkey, err)
		}
	}

	observability.UpdateHighestSlot(slot)
	observability.UpdateTrackedStreams(len(accounts))
	observability.DefaultMetrics.LastSuccessfulPoll.Set(float64(time.Now().Unix()))
	observability.DefaultMetrics.PollDuration.Observe(time.Since(start).Seconds())

	w.logger.Printf("Polled %d accounts at slot %d in %v", len(accounts), slot, time.Since(start))
	return nil
}

// handleNotification applies one pushed account update.
func (w *Watcher) handleNotification(ctx context.Context, n solana.AccountNotification) {
	data, err := base64.StdEncoding.DecodeString(n.Account.Data)
	if err != nil {
		observability.RecordProcessingError("base64")
		w.logger.Printf("Bad account data encoding for %s: %v", n.Pubkey, err)
		return
	}

	if err := w.indexer.ObserveAccount(ctx, n.Pubkey, data, n.Slot); err != nil {
		w.logger.Printf("Error processing account %s: %v", n.Pubkey, err)
		return
	}
	observability.UpdateHighestSlot(n.Slot)
}

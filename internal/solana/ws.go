package solana

import "context"

// WSClient defines the Solana WebSocket subscription surface the indexer
// consumes.
type WSClient interface {
	// SubscribeProgram subscribes to account updates for all accounts owned
	// by a program.
	SubscribeProgram(ctx context.Context, filter ProgramFilter) (<-chan AccountNotification, error)

	// Close closes the WebSocket connection.
	Close() error
}

// ProgramFilter defines a programSubscribe filter.
type ProgramFilter struct {
	// Program is the base58 program ID whose accounts to watch.
	Program string
	// DataSize restricts notifications to accounts of this size; 0 disables
	// the filter.
	DataSize int
}

// AccountNotification is one account-update message.
type AccountNotification struct {
	Pubkey  string
	Slot    int64
	Account Account
}

package solana

import "context"

// RPCClient defines the Solana RPC HTTP surface the indexer consumes.
type RPCClient interface {
	// GetAccountInfo retrieves one account. Returns nil if it does not exist.
	GetAccountInfo(ctx context.Context, pubkey string) (*Account, error)

	// GetProgramAccounts retrieves all accounts owned by a program,
	// optionally filtered by data size (0 disables the filter).
	GetProgramAccounts(ctx context.Context, program string, dataSize int) ([]KeyedAccount, error)

	// GetTokenAccountBalance retrieves the raw token balance of an SPL
	// token account.
	GetTokenAccountBalance(ctx context.Context, pubkey string) (uint64, error)

	// GetSlot retrieves the current slot.
	GetSlot(ctx context.Context) (int64, error)
}

// Account represents Solana account information as returned by RPC.
type Account struct {
	Lamports   uint64 `json:"lamports"`
	Owner      string `json:"owner"`
	Data       string `json:"data"` // base64 encoded
	Executable bool   `json:"executable"`
	RentEpoch  uint64 `json:"rentEpoch"`
}

// KeyedAccount pairs an account with its address.
type KeyedAccount struct {
	Pubkey  string
	Account Account
}

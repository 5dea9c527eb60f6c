// Package program implements the stream program's money-moving and
// authorization-gated operations. Each operation is a single synchronous
// pass: it either completes or aborts with no intermediate persisted state,
// relying on the host's all-or-nothing commit semantics.
package program

import (
	"log"
	"time"

	"solana-token-stream/internal/solana"
)

// TokenTransferer is the external token-movement primitive. A transfer
// failure propagates as an abort of the whole operation.
type TokenTransferer interface {
	Transfer(source, destination, authority solana.PublicKey, amount uint64) error
}

// Clock supplies the host's notion of now, in unix seconds.
type Clock interface {
	Now() int64
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current unix time in seconds.
func (SystemClock) Now() int64 {
	return time.Now().Unix()
}

// SafetyChecker is the external sanity-check collaborator. Both checks must
// pass before an operation inspects ledger contents; this package depends on
// them, it does not reimplement them.
type SafetyChecker interface {
	// VerifyInitializedAndOwned confirms the account set is initialized and
	// owned by the expected programs.
	VerifyInitializedAndOwned(programID solana.PublicKey, acc TransferRecipientAccounts) error

	// VerifyMetadataConsistency cross-references the supplied accounts
	// against the stored mint and metadata.
	VerifyMetadataConsistency(acc TransferRecipientAccounts) error
}

// Env carries the collaborators an operation needs. Every operation receives
// its full working set explicitly; there is no process-wide state.
type Env struct {
	Transfer TokenTransferer
	Clock    Clock
	Safety   SafetyChecker
	Logger   *log.Logger
}

func (e *Env) logf(format string, args ...any) {
	logger := e.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf(format, args...)
}

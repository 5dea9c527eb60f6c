package program

import (
	"solana-token-stream/internal/auth"
	"solana-token-stream/internal/solana"
	"solana-token-stream/internal/state"
	"solana-token-stream/internal/streamerr"
)

// TransferRecipientAccounts is the account set required by the
// recipient-reassignment operation. AuthorizedWallet is the identity tested
// against sender/recipient; it is not necessarily the transaction's fee
// payer.
type TransferRecipientAccounts struct {
	Authority        *solana.AccountInfo
	AuthorizedWallet *solana.AccountInfo
	Metadata         *solana.AccountInfo
	Mint             *solana.AccountInfo
}

// TransferRecipient rewrites a stream's recipient and recipient token
// account. Authorization is evaluated against the ledger's current
// sender/recipient at call time, never against identities claimed in the
// instruction payload. The new token account must be the canonical
// associated account for (new recipient, mint), so the stream always pays
// into the standardized account after a reassignment.
//
// Funds already vested but not yet withdrawn become claimable by whichever
// address is recipient at withdrawal time; a transfer reassigns that
// entitlement along with the rest of the stream.
func (e *Env) TransferRecipient(programID solana.PublicKey, acc TransferRecipientAccounts, newRecipient, newRecipientTokens solana.PublicKey) error {
	e.logf("transferring stream recipient")

	if !acc.Authority.IsSigner {
		return streamerr.ErrMissingSignature
	}
	if !acc.Metadata.IsWritable {
		return streamerr.AccountsNotWritable
	}

	if err := e.Safety.VerifyInitializedAndOwned(programID, acc); err != nil {
		return err
	}
	if err := e.Safety.VerifyMetadataConsistency(acc); err != nil {
		return err
	}

	metadata, err := state.DecodeContract(acc.Metadata.Data)
	if err != nil {
		return streamerr.InvalidMetadata
	}

	invoker := auth.NewInvoker(acc.AuthorizedWallet.Key, metadata.Sender, metadata.Recipient)
	if !invoker.CanTransfer(&metadata.Ix) {
		return streamerr.TransferNotAllowed
	}

	derived, err := solana.AssociatedTokenAddress(newRecipient, acc.Mint.Key)
	if err != nil || !derived.Equals(newRecipientTokens) {
		return streamerr.NotAssociated
	}

	metadata.SetRecipient(newRecipient, newRecipientTokens)
	if err := metadata.Persist(acc.Metadata.Data); err != nil {
		return err
	}

	e.logf("stream %s recipient set to %s", acc.Metadata.Key, newRecipient)
	return nil
}

package program

import (
	"solana-token-stream/internal/solana"
	"solana-token-stream/internal/state"
	"solana-token-stream/internal/streamerr"
)

// TopupAccounts is the account set required by the top-up operation.
type TopupAccounts struct {
	Sender         *solana.AccountInfo
	SenderTokens   *solana.AccountInfo
	Metadata       *solana.AccountInfo
	EscrowTokens   *solana.AccountInfo
	Treasury       *solana.AccountInfo
	TreasuryTokens *solana.AccountInfo
	Partner        *solana.AccountInfo
	PartnerTokens  *solana.AccountInfo
	Mint           *solana.AccountInfo
	TokenProgram   *solana.AccountInfo
}

// writable lists the accounts whose balances or contents the operation
// mutates; all of them must carry write permission.
func (a TopupAccounts) writable() []*solana.AccountInfo {
	return []*solana.AccountInfo{a.SenderTokens, a.Metadata, a.EscrowTokens}
}

// Topup moves amount from the sender's token account into the stream's
// escrow and records the deposit in the ledger. Preconditions are hard
// stops, checked in order; the ledger is mutated strictly after the token
// movement succeeds, so a transfer failure leaves the metadata buffer
// byte-identical to before the call.
func (e *Env) Topup(programID solana.PublicKey, acc TopupAccounts, amount uint64) error {
	e.logf("topping up escrow account")

	if amount == 0 {
		return streamerr.AmountIsZero
	}

	for _, info := range acc.writable() {
		if !info.IsWritable {
			return streamerr.AccountsNotWritable
		}
	}

	metadata, err := state.DecodeContract(acc.Metadata.Data)
	if err != nil {
		return streamerr.InvalidMetadata
	}

	if !metadata.Ix.CanTopup {
		return streamerr.InvalidMetadata
	}

	// The protocol version stored in the metadata selects the escrow
	// derivation scheme; any address other than the derived one is an
	// attacker-controlled substitute.
	derived, _, err := state.FindEscrowAccount(metadata.Version, acc.Metadata.Key[:], programID)
	if err != nil || !derived.Equals(acc.EscrowTokens.Key) {
		return streamerr.InvalidEscrowAccount
	}

	escrowTokens, err := solana.UnpackTokenAccount(acc.EscrowTokens.Data)
	if err != nil {
		return streamerr.ErrInvalidAccountData
	}
	metadata.SyncBalance(escrowTokens.Amount)

	if err := metadataSanityCheck(metadata, acc); err != nil {
		return err
	}

	now := uint64(e.Clock.Now())
	if metadata.Ix.EndTime < now {
		return streamerr.StreamClosed
	}

	e.logf("transferring funds into escrow account")
	if err := e.Transfer.Transfer(acc.SenderTokens.Key, acc.EscrowTokens.Key, acc.Sender.Key, amount); err != nil {
		return err
	}

	if err := metadata.Deposit(amount); err != nil {
		return err
	}
	if err := metadata.Persist(acc.Metadata.Data); err != nil {
		return err
	}

	if mint, err := solana.UnpackMint(acc.Mint.Data); err == nil {
		e.logf("successfully topped up %f to token stream %s on behalf of %s",
			solana.AmountToUIAmount(amount, mint.Decimals), acc.EscrowTokens.Key, acc.Sender.Key)
	}

	return nil
}

// metadataSanityCheck cross-references the supplied treasury, partner, and
// mint accounts against the identities stored in the contract.
func metadataSanityCheck(metadata *state.Contract, acc TopupAccounts) error {
	if !acc.Treasury.Key.Equals(metadata.Treasury) || !acc.TreasuryTokens.Key.Equals(metadata.TreasuryTokens) {
		return streamerr.InvalidTreasury
	}
	if !acc.Partner.Key.Equals(metadata.Partner) || !acc.PartnerTokens.Key.Equals(metadata.PartnerTokens) {
		return streamerr.MetadataAccountMismatch
	}
	if !acc.Mint.Key.Equals(metadata.Mint) {
		return streamerr.MintMismatch
	}
	return nil
}

package solana

import (
	"encoding/binary"
	"fmt"
)

// SPL token account and mint account sizes.
const (
	TokenAccountSize = 165
	MintAccountSize  = 82
)

// TokenAccount is the decoded prefix of an SPL token account.
// Layout: mint(32) | owner(32) | amount(8) | ...
type TokenAccount struct {
	Mint   PublicKey
	Owner  PublicKey
	Amount uint64
	State  uint8
}

// tokenAccountStateInitialized is the AccountState::Initialized discriminant.
const tokenAccountStateInitialized = 1

// IsInitialized reports whether the account has been initialized.
func (a *TokenAccount) IsInitialized() bool {
	return a.State == tokenAccountStateInitialized
}

// UnpackTokenAccount decodes an SPL token account buffer.
func UnpackTokenAccount(data []byte) (*TokenAccount, error) {
	if len(data) < TokenAccountSize {
		return nil, fmt.Errorf("token account data too short: %d", len(data))
	}

	var acc TokenAccount
	copy(acc.Mint[:], data[0:32])
	copy(acc.Owner[:], data[32:64])
	acc.Amount = binary.LittleEndian.Uint64(data[64:72])
	// Skip delegate COption (4+32) at offset 72.
	acc.State = data[108]
	return &acc, nil
}

// Mint is the decoded prefix of an SPL mint account.
// Layout: mintAuthorityOption(4) | mintAuthority(32) | supply(8) | decimals(1) | initialized(1) | ...
type Mint struct {
	Supply        uint64
	Decimals      uint8
	IsInitialized bool
}

// UnpackMint decodes an SPL mint account buffer.
func UnpackMint(data []byte) (*Mint, error) {
	if len(data) < MintAccountSize {
		return nil, fmt.Errorf("mint account data too short: %d", len(data))
	}

	var m Mint
	m.Supply = binary.LittleEndian.Uint64(data[36:44])
	m.Decimals = data[44]
	m.IsInitialized = data[45] == 1
	return &m, nil
}

// AmountToUIAmount converts a raw token amount to its human representation
// given the mint's decimals.
func AmountToUIAmount(amount uint64, decimals uint8) float64 {
	div := 1.0
	for i := uint8(0); i < decimals; i++ {
		div *= 10
	}
	return float64(amount) / div
}

package solana

// Well-known program and protocol addresses.
var (
	// SystemProgramID is the native system program.
	SystemProgramID = MustPublicKey("11111111111111111111111111111111")

	// TokenProgramID is the SPL token program.
	TokenProgramID = MustPublicKey("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

	// AssociatedTokenProgramID is the SPL associated token account program.
	AssociatedTokenProgramID = MustPublicKey("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")

	// WSOLMint is the wrapped SOL mint.
	WSOLMint = MustPublicKey("So11111111111111111111111111111111111111112")
)

package solana

// AccountInfo is the view of an account handed to a program invocation.
// Data aliases the host's account buffer; writes through it are the only
// way account state changes.
type AccountInfo struct {
	Key        PublicKey
	Owner      PublicKey
	Data       []byte
	IsSigner   bool
	IsWritable bool
}

// AccountMeta describes an account required by an instruction.
type AccountMeta struct {
	PublicKey  PublicKey
	IsSigner   bool
	IsWritable bool
}

// Instruction is a program invocation request.
type Instruction struct {
	Program  PublicKey
	Accounts []AccountMeta
	Data     []byte
}

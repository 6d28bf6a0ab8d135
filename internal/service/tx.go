package service

import "context"

// TxRepositories exposes transaction-bound repositories so multi-write
// operations can run atomically.
type TxRepositories interface {
	Ledger() LedgerRepositoryInterface
	Chunks() ChunkRepositoryInterface
}

// TxRunner runs fn inside a single database transaction. The
// transaction commits only if fn returns nil; any error rolls back
// every write made through the TxRepositories.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(repos TxRepositories) error) error
}

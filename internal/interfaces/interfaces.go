package interfaces

import (
	"context"

	"monad-explorer/internal/models"
)

// EventEmitter defines the interface for emitting search events
type EventEmitter interface {
	EmitEvent(ctx context.Context, event models.SearchEvent) error
}

// Explorer is the read side of the indexing API used to render pages
type Explorer interface {
	LatestBlocks(ctx context.Context, limit int) (*models.Page[models.Block], error)
	LatestTransactions(ctx context.Context, limit int) (*models.Page[models.Transaction], error)
	LatestBlockNumber(ctx context.Context) (uint64, error)

	// Block accepts a decimal block number or a block hash
	Block(ctx context.Context, id string) (*models.Block, error)
	EnrichedTransaction(ctx context.Context, hash string) (*models.Transaction, error)

	Address(ctx context.Context, address string) (*models.Address, error)
	AddressMetadata(ctx context.Context, address string) (*models.AddressMetadata, error)
	AddressTransactions(ctx context.Context, address string, page, limit int) (*models.Page[models.Transaction], error)
	AddressTokenBalances(ctx context.Context, address string, page, limit int) (*models.Page[models.TokenBalance], error)
	AddressTokenTransfers(ctx context.Context, address string, page, limit int) (*models.Page[models.TokenTransfer], error)
	AddressNFTs(ctx context.Context, address string, page, limit int) (*models.Page[models.NFT], error)
	AddressNFTTransfers(ctx context.Context, address string, page, limit int) (*models.Page[models.TokenTransfer], error)
	AddressInternalTransactions(ctx context.Context, address string, page, limit int) (*models.Page[models.InternalTransaction], error)
}

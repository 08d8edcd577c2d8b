package models

import (
	"fmt"
	"math/big"
)

// Block is a block as returned by the indexing API.
type Block struct {
	Number           Quantity      `json:"number"`
	Hash             string        `json:"hash"`
	ParentHash       string        `json:"parentHash"`
	Miner            string        `json:"miner"`
	Timestamp        Quantity      `json:"timestamp"`
	GasUsed          Quantity      `json:"gasUsed"`
	GasLimit         Quantity      `json:"gasLimit"`
	BaseFeePerGas    Quantity      `json:"baseFeePerGas"`
	Size             Quantity      `json:"size,omitempty"`
	TransactionCount int           `json:"transactionCount"`
	Transactions     []Transaction `json:"transactions,omitempty"`
}

// Transaction is a transaction, optionally enriched with its receipt, logs,
// decoded call data and token movements.
type Transaction struct {
	Hash                 string                `json:"hash"`
	BlockNumber          Quantity              `json:"blockNumber"`
	BlockHash            string                `json:"blockHash,omitempty"`
	TransactionIndex     Quantity              `json:"transactionIndex"`
	From                 string                `json:"from"`
	To                   string                `json:"to,omitempty"`
	Value                Quantity              `json:"value"`
	Gas                  Quantity              `json:"gas"`
	GasPrice             Quantity              `json:"gasPrice"`
	GasUsed              Quantity              `json:"gasUsed,omitempty"`
	EffectiveGasPrice    Quantity              `json:"effectiveGasPrice,omitempty"`
	MaxFeePerGas         Quantity              `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas Quantity              `json:"maxPriorityFeePerGas,omitempty"`
	Nonce                Quantity              `json:"nonce"`
	Type                 Quantity              `json:"type"`
	ChainID              Quantity              `json:"chainId,omitempty"`
	Input                string                `json:"input,omitempty"`
	Status               *bool                 `json:"status,omitempty"`
	Timestamp            Quantity              `json:"timestamp"`
	MethodID             string                `json:"methodId,omitempty"`
	MethodName           string                `json:"methodName,omitempty"`
	FunctionSignature    string                `json:"functionSignature,omitempty"`
	Logs                 []Log                 `json:"logs,omitempty"`
	TokenTransfers       []TokenTransfer       `json:"tokenTransfers,omitempty"`
	InternalTransactions []InternalTransaction `json:"internalTransactions,omitempty"`
	AccessList           []AccessListEntry     `json:"accessList,omitempty"`
	AuthorizationList    []Authorization       `json:"authorizationList,omitempty"`
}

// IsContractCreation reports whether the transaction has no recipient.
func (t Transaction) IsContractCreation() bool {
	return t.To == ""
}

// HasStatus reports whether a receipt status is known.
func (t Transaction) HasStatus() bool {
	return t.Status != nil
}

// Succeeded reports whether the receipt status is success.
func (t Transaction) Succeeded() bool {
	return t.Status != nil && *t.Status
}

// TypeLabel names the envelope type of the transaction.
func (t Transaction) TypeLabel() string {
	switch n := t.Type.Int64(); n {
	case 0:
		return "Type 0 (Legacy)"
	case 1:
		return "Type 1 (EIP-2930)"
	case 2:
		return "Type 2 (EIP-1559)"
	case 4:
		return "Type 4 (EIP-7702)"
	default:
		return fmt.Sprintf("Type %d", n)
	}
}

// Fee returns gasUsed times the effective gas price, falling back to the
// offered gas price for legacy receipts.
func (t Transaction) Fee() *big.Int {
	price := t.EffectiveGasPrice
	if price == "" {
		price = t.GasPrice
	}
	return new(big.Int).Mul(t.GasUsed.Big(), price.Big())
}

type Log struct {
	Address         string   `json:"address"`
	Topics          []string `json:"topics"`
	Data            string   `json:"data"`
	LogIndex        Quantity `json:"logIndex"`
	TransactionHash string   `json:"transactionHash"`
}

type InternalTransaction struct {
	From            string   `json:"from"`
	To              string   `json:"to"`
	Value           Quantity `json:"value"`
	Type            string   `json:"type"`
	GasUsed         Quantity `json:"gasUsed"`
	TransactionHash string   `json:"transactionHash,omitempty"`
	BlockNumber     Quantity `json:"blockNumber,omitempty"`
}

type AccessListEntry struct {
	Address     string   `json:"address"`
	StorageKeys []string `json:"storageKeys"`
}

type Authorization struct {
	ChainID Quantity `json:"chainId"`
	Address string   `json:"address"`
	Nonce   Quantity `json:"nonce"`
}

// Address is an account or contract summary.
type Address struct {
	Address          string   `json:"address"`
	Balance          Quantity `json:"balance"`
	TransactionCount int      `json:"transactionCount"`
	IsContract       bool     `json:"isContract"`
	Bytecode         string   `json:"bytecode,omitempty"`
}

// AddressMetadata is the curated label data for well known addresses.
type AddressMetadata struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol,omitempty"`
	Description string `json:"description,omitempty"`
	IsVerified  bool   `json:"isVerified"`
	IsCanonical bool   `json:"isCanonical"`
	Category    string `json:"category,omitempty"`
	ProjectName string `json:"projectName,omitempty"`
	Website     string `json:"website,omitempty"`
	Twitter     string `json:"twitter,omitempty"`
	Github      string `json:"github,omitempty"`
	Docs        string `json:"docs,omitempty"`
	LogoURL     string `json:"logoUrl,omitempty"`
}

type Token struct {
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

type TokenBalance struct {
	Token   Token    `json:"token"`
	Balance Quantity `json:"balance"`
}

// TokenTransfer is an ERC-20 transfer, or an NFT transfer when TokenID is set.
type TokenTransfer struct {
	Token           Token    `json:"token"`
	From            string   `json:"from"`
	To              string   `json:"to"`
	Value           Quantity `json:"value"`
	TokenID         string   `json:"tokenId,omitempty"`
	TransactionHash string   `json:"transactionHash"`
	BlockNumber     Quantity `json:"blockNumber"`
	Timestamp       Quantity `json:"timestamp"`
}

type NFT struct {
	Contract Token    `json:"contract"`
	TokenID  string   `json:"tokenId"`
	Name     string   `json:"name,omitempty"`
	ImageURL string   `json:"image,omitempty"`
	Balance  Quantity `json:"balance,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// EmptyPage is what optional listings render as when their fetch fails.
func EmptyPage[T any](limit int) *Page[T] {
	return &Page[T]{
		Data:       []T{},
		Pagination: Pagination{Page: 1, Limit: limit},
	}
}

// Package wallet adds the explorer's network to a user's wallet through an
// injected chain-registration provider.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog"
)

// UserRejectedCode is the EIP-1193 error code for a declined request.
const UserRejectedCode = 4001

var (
	ErrNoProvider   = errors.New("no wallet provider available")
	ErrUserRejected = errors.New("user rejected the request")
	ErrPending      = errors.New("a registration request is already pending")
)

// NativeCurrency describes the chain's gas token.
type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// ChainParams is the wallet_addEthereumChain payload.
type ChainParams struct {
	ChainID           string         `json:"chainId"`
	ChainName         string         `json:"chainName"`
	NativeCurrency    NativeCurrency `json:"nativeCurrency"`
	RPCURLs           []string       `json:"rpcUrls"`
	BlockExplorerURLs []string       `json:"blockExplorerUrls"`
}

// NewChainParams builds the payload with the chain id hex encoded.
func NewChainParams(chainID uint64, name string, currency NativeCurrency, rpcURL, explorerURL string) ChainParams {
	return ChainParams{
		ChainID:           hexutil.EncodeUint64(chainID),
		ChainName:         name,
		NativeCurrency:    currency,
		RPCURLs:           []string{rpcURL},
		BlockExplorerURLs: []string{explorerURL},
	}
}

// ChainRegistrar asks a wallet to add a network.
type ChainRegistrar interface {
	AddEthereumChain(ctx context.Context, params ChainParams) error
}

// Outcome is what the caller shows the user after a registration attempt.
type Outcome string

const (
	OutcomeAdded      Outcome = "added"
	OutcomeNoProvider Outcome = "no_provider"
	OutcomeRejected   Outcome = "rejected"
	OutcomeFailed     Outcome = "failed"
	OutcomeBusy       Outcome = "busy"
)

// Result is the outcome of a registration and the message to display.
type Result struct {
	Outcome Outcome `json:"outcome"`
	Message string  `json:"message"`
}

// Registration runs one registration at a time against an optional provider.
type Registration struct {
	provider ChainRegistrar
	params   ChainParams
	pending  atomic.Bool
	logger   *zerolog.Logger
}

// NewRegistration wraps provider, which may be nil when no wallet is available.
func NewRegistration(provider ChainRegistrar, params ChainParams, logger *zerolog.Logger) *Registration {
	return &Registration{provider: provider, params: params, logger: logger}
}

// Params returns the payload sent to the provider.
func (r *Registration) Params() ChainParams {
	return r.params
}

// Pending reports whether a request is in flight.
func (r *Registration) Pending() bool {
	return r.pending.Load()
}

// Register adds the network through the provider. The pending flag is always
// cleared when Register returns, even if the provider panics.
func (r *Registration) Register(ctx context.Context) (result Result) {
	if r.provider == nil {
		return r.result(ErrNoProvider)
	}
	if !r.pending.CompareAndSwap(false, true) {
		return r.result(ErrPending)
	}
	defer r.pending.Store(false)

	defer func() {
		if p := recover(); p != nil {
			r.logger.Error().Interface("panic", p).Msg("Wallet provider panicked")
			result = r.result(fmt.Errorf("provider panic: %v", p))
		}
	}()

	return r.result(r.provider.AddEthereumChain(ctx, r.params))
}

func (r *Registration) result(err error) Result {
	name := r.params.ChainName
	switch {
	case err == nil:
		r.logger.Info().Str("chain", name).Msg("Network added to wallet")
		return Result{Outcome: OutcomeAdded, Message: name + " has been added to your wallet!"}
	case errors.Is(err, ErrNoProvider):
		return Result{Outcome: OutcomeNoProvider, Message: "No wallet is available. Please install a wallet to continue."}
	case errors.Is(err, ErrPending):
		return Result{Outcome: OutcomeBusy, Message: "A request to add " + name + " is already pending."}
	case errors.Is(err, ErrUserRejected):
		return Result{Outcome: OutcomeRejected, Message: "You rejected the network addition."}
	default:
		r.logger.Error().Err(err).Str("chain", name).Msg("Error adding network")
		return Result{Outcome: OutcomeFailed, Message: fmt.Sprintf("Error adding %s network: %v", name, err)}
	}
}

// RPCRegistrar sends wallet_addEthereumChain to a JSON-RPC wallet endpoint.
type RPCRegistrar struct {
	client *rpc.Client
}

// DialRPCRegistrar connects to a wallet's JSON-RPC endpoint.
func DialRPCRegistrar(ctx context.Context, endpoint string, httpClient *http.Client) (*RPCRegistrar, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	client, err := rpc.DialOptions(ctx, endpoint, rpc.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet RPC client: %w", err)
	}
	return &RPCRegistrar{client: client}, nil
}

func (r *RPCRegistrar) AddEthereumChain(ctx context.Context, params ChainParams) error {
	err := r.client.CallContext(ctx, nil, "wallet_addEthereumChain", params)
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == UserRejectedCode {
		return fmt.Errorf("%w: %s", ErrUserRejected, rpcErr.Error())
	}
	return err
}

func (r *RPCRegistrar) Close() {
	r.client.Close()
}

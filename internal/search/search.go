// Package search classifies free-text explorer queries into block numbers,
// transaction hashes and addresses, and maps each classification to the page
// that displays it.
package search

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Type is the category a query was classified into.
type Type string

const (
	TypeBlock       Type = "block"
	TypeTransaction Type = "transaction"
	TypeAddress     Type = "address"
	TypeUnknown     Type = "unknown"
)

const (
	hashHexLength    = 2 * common.HashLength
	addressHexLength = 2 * common.AddressLength
)

var (
	blockNumberRegex = regexp.MustCompile(`^\d+$`)
	hexRegex         = regexp.MustCompile(`^[0-9a-fA-F]+$`)
)

type route struct {
	label string
	url   func(value string) string
}

// routes must cover every Type; lookups for anything else use TypeUnknown.
var routes = map[Type]route{
	TypeBlock:       {label: "Block", url: func(v string) string { return "/block/" + v }},
	TypeTransaction: {label: "Transaction", url: func(v string) string { return "/tx/" + v }},
	TypeAddress:     {label: "Address", url: func(v string) string { return "/address/" + v }},
	TypeUnknown:     {label: "Unknown", url: func(string) string { return "/" }},
}

func lookup(t Type) route {
	if r, ok := routes[t]; ok {
		return r
	}
	return routes[TypeUnknown]
}

// Label returns the human readable name of the category.
func (t Type) Label() string {
	return lookup(t).label
}

// Result is a classified query together with its normalized value.
type Result struct {
	Type  Type   `json:"type"`
	Value string `json:"value"`
}

// Detect classifies query. Rules apply in order and the first match wins:
// decimal digits are a block number, 0x plus 64 hex digits a transaction hash
// (block hashes share the shape; the tx page falls back to them), 0x plus 40
// hex digits an address. Hex values are lowercased. Anything else is unknown.
func Detect(query string) Result {
	trimmed := strings.TrimSpace(query)

	if blockNumberRegex.MatchString(trimmed) {
		return Result{Type: TypeBlock, Value: trimmed}
	}

	hexPart, ok := strings.CutPrefix(trimmed, "0x")
	if !ok || !hexRegex.MatchString(hexPart) {
		return Result{Type: TypeUnknown, Value: trimmed}
	}

	switch len(hexPart) {
	case hashHexLength:
		return Result{Type: TypeTransaction, Value: strings.ToLower(trimmed)}
	case addressHexLength:
		return Result{Type: TypeAddress, Value: strings.ToLower(trimmed)}
	default:
		return Result{Type: TypeUnknown, Value: trimmed}
	}
}

// URL returns the relative path of the page that displays r.
func (r Result) URL() string {
	return lookup(r.Type).url(r.Value)
}

// Label returns the human readable name of r's category.
func (r Result) Label() string {
	return r.Type.Label()
}

// Recognized reports whether r routes to a record page.
func (r Result) Recognized() bool {
	_, ok := routes[r.Type]
	return ok && r.Type != TypeUnknown
}

// Hash returns the value as a 32-byte hash. Only meaningful for transactions.
func (r Result) Hash() common.Hash {
	return common.HexToHash(r.Value)
}

// Address returns the value as a 20-byte address. Only meaningful for
// addresses.
func (r Result) Address() common.Address {
	return common.HexToAddress(r.Value)
}

package models

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"monad-explorer/internal/format"
)

// Quantity is a raw integer field from the indexer. It accepts JSON strings
// and JSON numbers and keeps the literal digits so nothing is rounded through
// float64 before formatting.
type Quantity string

func (q *Quantity) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*q = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = Quantity(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid quantity %s: %w", data, err)
	}
	*q = Quantity(n.String())
	return nil
}

func (q Quantity) String() string {
	return string(q)
}

// Big returns the value as an integer; empty or malformed values are zero.
func (q Quantity) Big() *big.Int {
	return format.ParseAmount(string(q))
}

// Int64 returns the value truncated to int64, or 0 when it does not fit.
func (q Quantity) Int64() int64 {
	n := q.Big()
	if !n.IsInt64() {
		return 0
	}
	return n.Int64()
}

// Uint64 returns the value as uint64, or 0 when it does not fit.
func (q Quantity) Uint64() uint64 {
	n := q.Big()
	if !n.IsUint64() {
		return 0
	}
	return n.Uint64()
}

func (q Quantity) IsZero() bool {
	return q.Big().Sign() == 0
}

// QuantityFromUint64 builds a decimal Quantity.
func QuantityFromUint64(n uint64) Quantity {
	return Quantity(strconv.FormatUint(n, 10))
}

// SearchEvent records one search box submission.
type SearchEvent struct {
	Query     string    `json:"query"`
	Type      string    `json:"type"`
	Value     string    `json:"value"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

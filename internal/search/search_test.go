package search

import (
	"strings"
	"testing"
)

func TestDetect(t *testing.T) {
	txHash := "0x" + strings.Repeat("a", 64)
	upperAddr := "0x" + strings.Repeat("B", 40)

	tests := []struct {
		name     string
		query    string
		expected Result
	}{
		{name: "block number", query: "32992500", expected: Result{Type: TypeBlock, Value: "32992500"}},
		{name: "block number with spaces", query: "  42 \n", expected: Result{Type: TypeBlock, Value: "42"}},
		{name: "leading zeros kept", query: "007", expected: Result{Type: TypeBlock, Value: "007"}},
		{name: "transaction hash", query: txHash, expected: Result{Type: TypeTransaction, Value: txHash}},
		{name: "mixed case hash", query: "0x" + strings.Repeat("Ab", 32), expected: Result{Type: TypeTransaction, Value: "0x" + strings.Repeat("ab", 32)}},
		{name: "address lowercased", query: upperAddr, expected: Result{Type: TypeAddress, Value: "0x" + strings.Repeat("b", 40)}},
		{name: "invalid hex", query: "0xzz", expected: Result{Type: TypeUnknown, Value: "0xzz"}},
		{name: "bare prefix", query: "0x", expected: Result{Type: TypeUnknown, Value: "0x"}},
		{name: "uppercase prefix", query: "0X" + strings.Repeat("a", 40), expected: Result{Type: TypeUnknown, Value: "0X" + strings.Repeat("a", 40)}},
		{name: "odd length hex", query: "0xABC", expected: Result{Type: TypeUnknown, Value: "0xABC"}},
		{name: "hash without prefix", query: strings.Repeat("a", 64), expected: Result{Type: TypeUnknown, Value: strings.Repeat("a", 64)}},
		{name: "negative number", query: "-5", expected: Result{Type: TypeUnknown, Value: "-5"}},
		{name: "decimal number", query: "1.5", expected: Result{Type: TypeUnknown, Value: "1.5"}},
		{name: "free text", query: " monad ", expected: Result{Type: TypeUnknown, Value: "monad"}},
		{name: "empty", query: "", expected: Result{Type: TypeUnknown, Value: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Detect(tt.query); result != tt.expected {
				t.Errorf("Detect(%q) = %+v, want %+v", tt.query, result, tt.expected)
			}
		})
	}
}

func TestResult_URL(t *testing.T) {
	queries := []string{
		"32992500",
		"0x" + strings.Repeat("a", 64),
		"0x" + strings.Repeat("B", 40),
		"0xzz",
		"hello",
		"",
	}

	for _, q := range queries {
		r := Detect(q)
		url := r.URL()
		switch r.Type {
		case TypeBlock:
			if !strings.HasPrefix(url, "/block/") {
				t.Errorf("URL() for %q = %v, want /block/ prefix", q, url)
			}
		case TypeTransaction:
			if !strings.HasPrefix(url, "/tx/") {
				t.Errorf("URL() for %q = %v, want /tx/ prefix", q, url)
			}
		case TypeAddress:
			if !strings.HasPrefix(url, "/address/") {
				t.Errorf("URL() for %q = %v, want /address/ prefix", q, url)
			}
		default:
			if url != "/" {
				t.Errorf("URL() for %q = %v, want /", q, url)
			}
		}
	}

	if got := (Result{Type: TypeBlock, Value: "12"}).URL(); got != "/block/12" {
		t.Errorf("URL() = %v, want /block/12", got)
	}
}

func TestType_Label(t *testing.T) {
	tests := []struct {
		in       Type
		expected string
	}{
		{in: TypeBlock, expected: "Block"},
		{in: TypeTransaction, expected: "Transaction"},
		{in: TypeAddress, expected: "Address"},
		{in: TypeUnknown, expected: "Unknown"},
		{in: Type("epoch"), expected: "Unknown"},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			if result := tt.in.Label(); result != tt.expected {
				t.Errorf("Label() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestRoutesAreTotal(t *testing.T) {
	for _, typ := range []Type{TypeBlock, TypeTransaction, TypeAddress, TypeUnknown} {
		if _, ok := routes[typ]; !ok {
			t.Errorf("no route for %s", typ)
		}
	}
	if (Result{Type: Type("slot"), Value: "1"}).URL() != "/" {
		t.Error("unmapped type should route to /")
	}
}

func TestResult_Recognized(t *testing.T) {
	if !Detect("1").Recognized() {
		t.Error("block number should be recognized")
	}
	if Detect("0xzz").Recognized() {
		t.Error("invalid hex should not be recognized")
	}
}

func TestResult_HashAndAddress(t *testing.T) {
	r := Detect("0x" + strings.Repeat("C", 64))
	if r.Hash().Hex() != r.Value {
		t.Errorf("Hash() = %v, want %v", r.Hash().Hex(), r.Value)
	}

	a := Detect("0x95222290DD7278Aa3Ddd389Cc1E1d165CC4BAfe5")
	if strings.ToLower(a.Address().Hex()) != a.Value {
		t.Errorf("Address() = %v, want %v", a.Address().Hex(), a.Value)
	}
}

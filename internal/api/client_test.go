package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"monad-explorer/internal/models"
)

// MockCache is an in-memory Cache for testing
type MockCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{entries: make(map[string][]byte)}
}

func (m *MockCache) Get(_ context.Context, key string, dst any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.entries[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func (m *MockCache) Set(_ context.Context, key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, _ := json.Marshal(value)
	m.entries[key] = raw
}

const testBlockHash = "0x5f3c1b7e2a9d4c8b6e0f1a2b3c4d5e6f708192a3b4c5d6e7f8091a2b3c4d5e6f"

// setupTestClient creates a client against a fake indexer
func setupTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := zerolog.Nop()
	client := NewClient(server.URL+"/", "testkey", 0, 2, time.Millisecond, 5*time.Second, &logger)
	return client, server
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_Block(t *testing.T) {
	var gotAuth, gotPath string
	client, _ := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"number":32992500,"hash":"` + testBlockHash + `","gasUsed":"15000000","gasLimit":"30000000","transactionCount":2}`))
	})

	block, err := client.Block(context.Background(), "32992500")
	if err != nil {
		t.Fatalf("Block() error = %v", err)
	}

	if gotAuth != "Bearer testkey" {
		t.Errorf("Authorization = %q, want Bearer testkey", gotAuth)
	}
	if gotPath != "/blocks/32992500" {
		t.Errorf("path = %q, want /blocks/32992500", gotPath)
	}
	if block.Number != "32992500" {
		t.Errorf("Number = %v, want 32992500", block.Number)
	}
	if block.TransactionCount != 2 {
		t.Errorf("TransactionCount = %d, want 2", block.TransactionCount)
	}
}

func TestClient_NotFound(t *testing.T) {
	var calls int32
	client, _ := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.NotFound(w, r)
	})

	_, err := client.EnrichedTransaction(context.Background(), testBlockHash)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("EnrichedTransaction() error = %v, want ErrNotFound", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (404 is not retried)", calls)
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	tests := []struct {
		name          string
		failures      int32
		status        int
		expectErr     bool
		expectedCalls int32
	}{
		{name: "recovers after one failure", failures: 1, status: http.StatusBadGateway, expectErr: false, expectedCalls: 2},
		{name: "gives up after retries", failures: 10, status: http.StatusServiceUnavailable, expectErr: true, expectedCalls: 3},
		{name: "client errors are not retried", failures: 10, status: http.StatusBadRequest, expectErr: true, expectedCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			client, _ := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if atomic.AddInt32(&calls, 1) <= tt.failures {
					w.WriteHeader(tt.status)
					return
				}
				writeJSON(w, models.Page[models.Block]{Data: []models.Block{{Number: "7"}}})
			})

			_, err := client.LatestBlocks(context.Background(), 10)
			if (err != nil) != tt.expectErr {
				t.Fatalf("LatestBlocks() error = %v, expectErr %v", err, tt.expectErr)
			}
			if calls != tt.expectedCalls {
				t.Errorf("calls = %d, want %d", calls, tt.expectedCalls)
			}
		})
	}
}

func TestClient_CachesBlocksAndTransactions(t *testing.T) {
	var calls int32
	client, _ := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		switch r.URL.Path {
		case "/blocks/" + testBlockHash:
			writeJSON(w, models.Block{Number: "12", Hash: testBlockHash})
		case "/transactions/" + testBlockHash + "/enriched":
			success := true
			writeJSON(w, models.Transaction{Hash: testBlockHash, Value: "1", Status: &success})
		default:
			http.NotFound(w, r)
		}
	})
	client.WithCache(NewMockCache())

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		// mixed case ids share a cache entry
		if _, err := client.Block(ctx, "0x5F3C1B7E2A9D4C8B6E0F1A2B3C4D5E6F708192A3B4C5D6E7F8091A2B3C4D5E6F"); err != nil {
			t.Fatalf("Block() error = %v", err)
		}
		tx, err := client.EnrichedTransaction(ctx, testBlockHash)
		if err != nil {
			t.Fatalf("EnrichedTransaction() error = %v", err)
		}
		if tx.Value != "1" {
			t.Errorf("Value = %v, want 1", tx.Value)
		}
	}

	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestClient_SkipsCachingMutableRecords(t *testing.T) {
	var calls int32
	client, _ := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		switch r.URL.Path {
		case "/blocks/12":
			writeJSON(w, models.Block{Number: "12", Hash: testBlockHash})
		case "/transactions/" + testBlockHash + "/enriched":
			// pending: no receipt yet
			writeJSON(w, models.Transaction{Hash: testBlockHash, Value: "1"})
		default:
			http.NotFound(w, r)
		}
	})
	cache := NewMockCache()
	client.WithCache(cache)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := client.Block(ctx, "12"); err != nil {
			t.Fatalf("Block() error = %v", err)
		}
		if _, err := client.EnrichedTransaction(ctx, testBlockHash); err != nil {
			t.Fatalf("EnrichedTransaction() error = %v", err)
		}
	}

	if calls != 4 {
		t.Errorf("calls = %d, want 4", calls)
	}
	if len(cache.entries) != 0 {
		t.Errorf("cache entries = %d, want 0", len(cache.entries))
	}
}

func TestClient_AddressListings(t *testing.T) {
	addr := "0x95222290DD7278Aa3Ddd389Cc1E1d165CC4BAfe5"
	var gotPath, gotPage, gotLimit string
	client, _ := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPage = r.URL.Query().Get("page")
		gotLimit = r.URL.Query().Get("limit")
		writeJSON(w, models.Page[models.TokenBalance]{
			Data: []models.TokenBalance{{
				Token:   models.Token{Symbol: "USDC", Decimals: 6},
				Balance: "2500000",
			}},
			Pagination: models.Pagination{Page: 2, Limit: 50, Total: 51, TotalPages: 2},
		})
	})

	page, err := client.AddressTokenBalances(context.Background(), addr, 2, 50)
	if err != nil {
		t.Fatalf("AddressTokenBalances() error = %v", err)
	}

	if gotPath != "/addresses/0x95222290dd7278aa3ddd389cc1e1d165cc4bafe5/tokens" {
		t.Errorf("path = %q", gotPath)
	}
	if gotPage != "2" || gotLimit != "50" {
		t.Errorf("page/limit = %s/%s, want 2/50", gotPage, gotLimit)
	}
	if len(page.Data) != 1 || page.Data[0].Token.Symbol != "USDC" {
		t.Errorf("unexpected data %+v", page.Data)
	}
	if page.Pagination.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want 2", page.Pagination.TotalPages)
	}
}

func TestClient_LatestBlockNumber(t *testing.T) {
	tests := []struct {
		name      string
		blocks    []models.Block
		expected  uint64
		expectErr bool
	}{
		{name: "head", blocks: []models.Block{{Number: "32992500"}}, expected: 32992500},
		{name: "empty index", blocks: []models.Block{}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("limit") != "1" {
					t.Errorf("limit = %q, want 1", r.URL.Query().Get("limit"))
				}
				writeJSON(w, models.Page[models.Block]{Data: tt.blocks})
			})

			head, err := client.LatestBlockNumber(context.Background())
			if (err != nil) != tt.expectErr {
				t.Fatalf("LatestBlockNumber() error = %v, expectErr %v", err, tt.expectErr)
			}
			if head != tt.expected {
				t.Errorf("LatestBlockNumber() = %d, want %d", head, tt.expected)
			}
		})
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	client, _ := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	client.RetryDelay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.Address(ctx, "0x95222290dd7278aa3ddd389cc1e1d165cc4bafe5")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Address() error = %v, want deadline exceeded", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("retry loop ignored context cancellation")
	}
}

func TestCustomTransport_NoApiKey(t *testing.T) {
	var gotAuth, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
	}))
	defer server.Close()

	client := &http.Client{Transport: &CustomTransport{Base: http.DefaultTransport}}
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	_ = resp.Body.Close()

	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q, want application/json", gotAccept)
	}
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"

	"monad-explorer/internal/api"
	"monad-explorer/internal/models"
)

var _ api.Cache = (*RedisCache)(nil)

// setupTestCache connects a RedisCache to an in-process redis
func setupTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	logger := zerolog.Nop()

	rc, err := NewRedisCache(context.Background(), mr.Addr(), "", 0, time.Minute, &logger)
	if err != nil {
		t.Fatalf("NewRedisCache() error = %v", err)
	}
	t.Cleanup(func() { _ = rc.Close() })
	return rc, mr
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	logger := zerolog.Nop()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Port 1 is reserved and never runs redis
	rc, err := NewRedisCache(ctx, "127.0.0.1:1", "", 0, time.Minute, &logger)
	if err == nil {
		_ = rc.Close()
		t.Fatal("expected an error for an unreachable redis")
	}
}

func TestRedisCache_SetGet(t *testing.T) {
	rc, mr := setupTestCache(t)
	ctx := context.Background()

	block := models.Block{Number: "12", Hash: "0xabc", GasUsed: "21000"}
	rc.Set(ctx, "block_12", block)

	if !mr.Exists("explorer:block_12") {
		t.Fatalf("keys = %v, want explorer:block_12", mr.Keys())
	}
	if ttl := mr.TTL("explorer:block_12"); ttl != time.Minute {
		t.Errorf("TTL = %v, want %v", ttl, time.Minute)
	}

	var got models.Block
	if !rc.Get(ctx, "block_12", &got) {
		t.Fatal("Get() = false, want a hit")
	}
	if got.Hash != block.Hash || got.Number != block.Number || got.GasUsed != block.GasUsed {
		t.Errorf("Get() = %+v, want %+v", got, block)
	}
}

func TestRedisCache_Miss(t *testing.T) {
	rc, _ := setupTestCache(t)

	var got models.Block
	if rc.Get(context.Background(), "block_missing", &got) {
		t.Error("Get() = true for a missing key")
	}
}

func TestRedisCache_DropsUndecodableEntry(t *testing.T) {
	rc, mr := setupTestCache(t)

	if err := mr.Set("explorer:tx_0x1", "{not json"); err != nil {
		t.Fatalf("seeding redis: %v", err)
	}

	var got models.Transaction
	if rc.Get(context.Background(), "tx_0x1", &got) {
		t.Error("Get() = true for an undecodable entry")
	}
	if mr.Exists("explorer:tx_0x1") {
		t.Error("undecodable entry was not deleted")
	}
}

func TestRedisCache_ServerDown(t *testing.T) {
	rc, mr := setupTestCache(t)
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	rc.Set(ctx, "block_1", models.Block{Number: "1"})
	var got models.Block
	if rc.Get(ctx, "block_1", &got) {
		t.Error("Get() = true with redis down")
	}
}

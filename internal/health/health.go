package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// BlockSource reports the newest indexed block
type BlockSource interface {
	LatestBlockNumber(ctx context.Context) (uint64, error)
}

type IndexerStatus struct {
	LastBlock uint64    `json:"last_block"`
	CheckedAt time.Time `json:"checked_at"`
	Error     string    `json:"error,omitempty"`
}

// Checker polls the indexer and reports readiness once it has answered
type Checker struct {
	source   BlockSource
	interval time.Duration
	logger   *zerolog.Logger

	mu     sync.RWMutex
	ready  bool
	status IndexerStatus
}

func NewChecker(source BlockSource, interval time.Duration, logger *zerolog.Logger) *Checker {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Checker{source: source, interval: interval, logger: logger}
}

// Run probes immediately and then every interval until ctx is done
func (c *Checker) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		c.Probe(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Probe asks the indexer for its head once and records the answer
func (c *Checker) Probe(ctx context.Context) {
	head, err := c.source.LatestBlockNumber(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.CheckedAt = time.Now()
	if err != nil {
		if ctx.Err() == nil {
			c.logger.Error().Err(err).Msg("Error getting latest block")
		}
		c.ready = false
		c.status.Error = err.Error()
		return
	}
	c.ready = true
	c.status.LastBlock = head
	c.status.Error = ""
}

func (c *Checker) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

func (c *Checker) Status() IndexerStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

func LivenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (c *Checker) ReadinessHandler(w http.ResponseWriter, _ *http.Request) {
	c.mu.RLock()
	ready, status := c.ready, c.status
	c.mu.RUnlock()

	if !ready {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("Not Ready"))

		return
	}

	response := make(map[string]interface{})
	response["status"] = "Ready"
	response["indexer"] = status

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}

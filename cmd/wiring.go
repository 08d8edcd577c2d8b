package main

import (
	"context"

	"github.com/rs/zerolog"

	"monad-explorer/internal/api"
	"monad-explorer/internal/cache"
	"monad-explorer/internal/config"
	"monad-explorer/internal/emitters"
	"monad-explorer/internal/events"
	"monad-explorer/internal/interfaces"
	"monad-explorer/internal/wallet"
)

// attachCache puts redis in front of the client when configured. The
// explorer runs uncached when redis is unreachable.
func attachCache(ctx context.Context, cfg config.RedisConfig, client *api.Client, log *zerolog.Logger) func() {
	if cfg.Addr == "" {
		return nil
	}
	rc, err := cache.NewRedisCache(ctx, cfg.Addr, cfg.Password, cfg.DB, cfg.TTL, log)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, running without cache")
		return nil
	}
	client.WithCache(rc)
	log.Info().Str("addr", cfg.Addr).Dur("ttl", cfg.TTL).Msg("Record cache enabled")
	return func() {
		if err := rc.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close redis")
		}
	}
}

// newEmitter logs every search and also publishes to kafka when a broker is
// configured.
func newEmitter(cfg config.KafkaConfig, log *zerolog.Logger) (interfaces.EventEmitter, func()) {
	if cfg.BrokerAddress == "" {
		return &events.LogEmitter{}, func() {}
	}
	kafkaEmitter := emitters.NewKafkaEmitter(cfg.BrokerAddress, cfg.Topic)
	log.Info().Str("broker", cfg.BrokerAddress).Str("topic", cfg.Topic).Msg("Publishing search events to Kafka")
	return &events.LogEmitter{WrappedEmitter: kafkaEmitter}, func() {
		if err := kafkaEmitter.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Kafka writer")
		}
	}
}

// newRegistrar dials the wallet endpoint. A nil registrar means no provider.
func newRegistrar(ctx context.Context, endpoint string, log *zerolog.Logger) (wallet.ChainRegistrar, func()) {
	if endpoint == "" {
		return nil, func() {}
	}
	registrar, err := wallet.DialRPCRegistrar(ctx, endpoint, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Wallet endpoint unavailable, registration disabled")
		return nil, func() {}
	}
	return registrar, registrar.Close
}

// Package obs holds the ambient observability stack: structured
// logging (zap) and Prometheus metrics. None of the matching core's
// correctness depends on this package — it is the one required
// side-channel (shard start/stop logging, spec §9) plus pure telemetry.
package obs

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lightning-exchange/shardmatch/config"
)

// NewLogger builds a zap.Logger from a LoggerConfig: development mode
// gets the console encoder and stack traces on Warn and above, production
// mode gets JSON at the configured level — the same split the teacher
// repos in the example pack use their logger factories for.
func NewLogger(cfg config.LoggerConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("obs: invalid logger level %q: %w", cfg.Level, err)
	}

	if cfg.Development {
		zc := zap.NewDevelopmentConfig()
		zc.Level = zap.NewAtomicLevelAt(level)
		return zc.Build()
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

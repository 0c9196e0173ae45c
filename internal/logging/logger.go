// Package logging builds the process logger. Output goes to stderr as JSON;
// when a GELF address is configured, every entry is also shipped over UDP.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New constructs the service logger. debug lowers the level and switches to
// the development config; gelfAddr, when non-empty, adds the UDP sink.
func New(debug bool, gelfAddr string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	if gelfAddr == "" {
		return logger, nil
	}

	gw, err := NewGELFWriter(gelfAddr)
	if err != nil {
		// The UDP sink is best-effort; a bad address must not stop the server.
		logger.Warn("gelf init failed", zap.String("addr", gelfAddr), zap.Error(err))
		return logger, nil
	}

	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	gelfCore := zapcore.NewCore(enc, zapcore.AddSync(gw), cfg.Level)
	logger = logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, gelfCore)
	}))
	return logger, nil
}

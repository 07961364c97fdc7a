package utils

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spechtlabs/go-otel-utils/otelprovider"
	"github.com/spechtlabs/go-otel-utils/otelzap"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// InitObservability sets up the global loggers and the OTLP providers and
// returns a cleanup function that flushes them. All log output goes to stderr;
// stdout carries protocol envelopes only.
func InitObservability() func() {
	var loggerOptions []otelprovider.LoggerOption
	var tracerOptions []otelprovider.TracerOption

	otelEndpoint := viper.GetString("otel.endpoint")

	if viper.GetBool("otel.insecure") {
		loggerOptions = append(loggerOptions, otelprovider.WithLogInsecure())
		tracerOptions = append(tracerOptions, otelprovider.WithTraceInsecure())
	}

	switch {
	case strings.Contains(otelEndpoint, "4317"):
		loggerOptions = append(loggerOptions, otelprovider.WithGrpcLogEndpoint(otelEndpoint))
		tracerOptions = append(tracerOptions, otelprovider.WithGrpcTraceEndpoint(otelEndpoint))
	case strings.Contains(otelEndpoint, "4318"):
		loggerOptions = append(loggerOptions, otelprovider.WithHttpLogEndpoint(otelEndpoint))
		tracerOptions = append(tracerOptions, otelprovider.WithHttpTraceEndpoint(otelEndpoint))
	}

	logProvider := otelprovider.NewLogger(loggerOptions...)
	traceProvider := otelprovider.NewTracer(tracerOptions...)

	zapLogger, err := newZapLogger(viper.GetBool("debug"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err) //nolint:golint-sl // Pre-logger init output
		os.Exit(1)
	}

	undoZapGlobals := zap.ReplaceGlobals(zapLogger)
	undoStdLogRedirect := zap.RedirectStdLog(zapLogger)

	minLevel := zap.InfoLevel
	if viper.GetBool("debug") {
		minLevel = zap.DebugLevel
	}

	otelZapLogger := otelzap.New(zapLogger,
		otelzap.WithCaller(true),
		otelzap.WithMinLevel(minLevel),
		otelzap.WithAnnotateLevel(zap.WarnLevel),
		otelzap.WithErrorStatusLevel(zap.ErrorLevel),
		otelzap.WithStackTrace(false),
		otelzap.WithLoggerProvider(logProvider),
	)
	undoOtelZapGlobals := otelzap.ReplaceGlobals(otelZapLogger)

	return func() {
		traceFlushErr := traceProvider.ForceFlush(context.Background())
		logFlushErr := logProvider.ForceFlush(context.Background())
		traceShutdownErr := traceProvider.Shutdown(context.Background())
		logShutdownErr := logProvider.Shutdown(context.Background())

		otelzap.L().Debug("observability shutdown",
			zap.Bool("trace_flush_ok", traceFlushErr == nil),
			zap.Bool("log_flush_ok", logFlushErr == nil),
			zap.Bool("trace_shutdown_ok", traceShutdownErr == nil),
			zap.Bool("log_shutdown_ok", logShutdownErr == nil),
			zap.NamedError("trace_flush_err", traceFlushErr),
			zap.NamedError("log_flush_err", logFlushErr),
			zap.NamedError("trace_shutdown_err", traceShutdownErr),
			zap.NamedError("log_shutdown_err", logShutdownErr),
		)

		_ = zapLogger.Sync()
		undoStdLogRedirect()
		undoOtelZapGlobals()
		undoZapGlobals()
	}
}

func newZapLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}

	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

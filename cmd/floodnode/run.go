package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/spechtlabs/floodnode/pkg/admin"
	"github.com/spechtlabs/floodnode/pkg/audit"
	"github.com/spechtlabs/floodnode/pkg/node"
	"github.com/spechtlabs/floodnode/pkg/transport"
	"github.com/spechtlabs/floodnode/pkg/utils"
	"github.com/spechtlabs/go-otel-utils/otelzap"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// runNode serves the Maelstrom protocol on stdin/stdout until input ends or
// a shutdown signal arrives.
func runNode(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancelCause(cmd.Context())
	defer cancel(nil)
	utils.InterruptHandler(ctx, cancel)

	n := node.New()
	opts := []transport.Option{
		transport.WithMaxLineBytes(viper.GetInt("transport.maxLineBytes")),
	}

	if viper.GetBool("audit.enabled") {
		auditLog := audit.NewFileLogger(viper.GetString("audit.path"))
		defer func() { _ = auditLog.Close() }()
		opts = append(opts, transport.WithAuditLogger(auditLog))
	}

	var wg sync.WaitGroup
	if viper.GetBool("admin.enabled") {
		publisher := node.NewPublisher()
		publisher.Publish(n.Snapshot())
		opts = append(opts, transport.WithAfterHandle(func() {
			publisher.Publish(n.Snapshot())
		}))

		srv := admin.NewServer(publisher, admin.WithDebug(viper.GetBool("debug")))
		addr := fmt.Sprintf(":%d", viper.GetInt("admin.port"))

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.Serve(ctx, addr); err != nil {
				otelzap.L().WithError(err).ErrorContext(ctx, "Admin server failed")
			}
		}()
	}

	otelzap.L().InfoContext(ctx, "Node started",
		zap.Bool("audit", viper.GetBool("audit.enabled")),
		zap.Bool("admin", viper.GetBool("admin.enabled")),
	)

	err := transport.Run(ctx, os.Stdin, os.Stdout, n, opts...)
	cancel(nil)
	wg.Wait()

	if err != nil {
		otelzap.L().WithError(err).ErrorContext(ctx, "Node stopped")
		return err
	}

	snap := n.Snapshot()
	otelzap.L().InfoContext(ctx, "Node stopped",
		zap.String("node_id", snap.ID),
		zap.Int("values", len(snap.Messages)),
		zap.Uint64("handled", snap.Handled),
		zap.Uint64("errors", snap.Errors),
		zap.NamedError("cause", context.Cause(ctx)),
	)
	return nil
}

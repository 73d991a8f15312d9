/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/devfolio/apiserver/config"
	"github.com/devfolio/apiserver/internal/mq"
	"github.com/devfolio/apiserver/internal/services"
	"github.com/spf13/cobra"
)

// notifyCmd represents the notify command
var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Consumes contact-message notification events",
	Long: `Consumes contact-message notification events from the configured
message queue and writes them to the log. Usage:

	devfolio notify
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.LoadConfig()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		queue, err := mq.New(ctx, cfg.MQ)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to connect to the message queue: %v\n", err)
			os.Exit(1)
		}
		if queue == nil {
			fmt.Fprintln(os.Stderr, "notify requires MQ_BACKEND=rabbitmq or MQ_BACKEND=pubsub")
			os.Exit(1)
		}
		defer func() {
			_ = queue.Close()
		}()

		listener := services.NewContactListener(queue)
		if err := listener.Listen(ctx); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "listener error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(notifyCmd)
}

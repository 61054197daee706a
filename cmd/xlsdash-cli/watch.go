package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"xlsdash/internal/amqp"
	"xlsdash/internal/log"
)

type watchFlags struct {
	url        string
	exchange   string
	routingKey string
}

func newWatchCommand(root *rootOptions) *cobra.Command {
	f := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print workbook-loaded events from the message broker",
		Long: `Binds a temporary queue to the dashboard's exchange and prints every
workbook-loaded event as one JSON line until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f.resolve()
			if f.url == "" {
				return errors.New("no broker URL: set --amqp-url or AMQP_URL")
			}
			client, err := amqp.NewClient(f.url, f.exchange, f.routingKey)
			if err != nil {
				return fmt.Errorf("connect to broker: %w", err)
			}
			defer client.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			root.logger.WithComponent(log.ComponentAMQP).Info("Watching workbook events",
				"exchange", f.exchange, "routing_key", f.routingKey)

			enc := json.NewEncoder(cmd.OutOrStdout())
			err = client.ConsumeWorkbookLoaded(ctx, func(msg *amqp.WorkbookLoadedMessage) error {
				return enc.Encode(msg)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&f.url, "amqp-url", "", "broker URL (env AMQP_URL)")
	cmd.Flags().StringVar(&f.exchange, "exchange", "", "topic exchange name (env AMQP_EXCHANGE, default xlsdash)")
	cmd.Flags().StringVar(&f.routingKey, "routing-key", "", "routing key to bind (env AMQP_ROUTING_KEY, default workbook.loaded)")
	return cmd
}

// resolve fills unset flags from the environment, which may come from --env-file.
func (f *watchFlags) resolve() {
	f.url = firstNonEmpty(f.url, os.Getenv("AMQP_URL"))
	f.exchange = firstNonEmpty(f.exchange, os.Getenv("AMQP_EXCHANGE"), "xlsdash")
	f.routingKey = firstNonEmpty(f.routingKey, os.Getenv("AMQP_ROUTING_KEY"), "workbook.loaded")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

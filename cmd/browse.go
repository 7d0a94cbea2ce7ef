package cmd

import (
	"context"
	"time"

	"github.com/alexalbu001/ecs-graphql/internal/aws"
	"github.com/alexalbu001/ecs-graphql/internal/ui"
	"github.com/alexalbu001/ecs-graphql/pkg"
	"github.com/rivo/tview"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	browseFlags     queryFlags
	refreshInterval time.Duration
	browseLogFile   string
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "opens a terminal browser over the resolved services",
	RunE: func(cmd *cobra.Command, args []string) error {
		// The terminal belongs to the UI, so logs only go to a file when asked.
		logger := zap.NewNop()
		if browseLogFile != "" {
			var err error
			logger, err = newLogger(browseLogFile)
			if err != nil {
				return err
			}
		}
		defer logger.Sync() // nolint

		clients := aws.NewClientFactory()
		gw := newGateway(logger, clients)

		fetch := func(ctx context.Context) ([]pkg.ServiceRecord, error) {
			return gw.Resolve(ctx, browseFlags.services, browseFlags.cluster, browseFlags.region)
		}
		metrics := func(ctx context.Context, cluster, serviceName string) (*aws.ServiceMetrics, error) {
			cwClient, err := clients.CloudWatch(ctx, browseFlags.region)
			if err != nil {
				return nil, err
			}
			return aws.GetServiceMetrics(ctx, cwClient, cluster, serviceName)
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		services, err := fetch(ctx)
		if err != nil {
			return err
		}

		app := tview.NewApplication()
		ui.DisplayServices(app, ctx, logger, fetch, metrics, services, refreshInterval)
		return app.Run()
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
	browseFlags.register(browseCmd)
	browseCmd.Flags().DurationVar(&refreshInterval, "refresh-interval", 10*time.Second, "how often the services are queried again, 0 to disable")
	browseCmd.Flags().StringVar(&browseLogFile, "log-file", "", "write logs to this file while browsing")
}

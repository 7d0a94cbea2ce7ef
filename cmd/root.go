package cmd

import (
	"strings"
	"time"

	"github.com/alexalbu001/ecs-graphql/internal/aws"
	"github.com/alexalbu001/ecs-graphql/internal/gateway"
	"github.com/alexalbu001/ecs-graphql/internal/logging"
	"github.com/alexalbu001/ecs-graphql/internal/resolution"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const envPrefix = "ECSGQL"

var rootCmd = &cobra.Command{
	Use:          "ecs-graphql",
	Short:        "GraphQL API describing ECS services of a cluster",
	SilenceUsage: true,
}

// Execute runs the command line.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("log-level", logging.DefaultLevel, "log verbosity: debug, info, warn or error")
	flags.Duration("upstream-timeout", 10*time.Second, "timeout of a single ECS API call, 0 to disable")
	flags.Duration("query-timeout", 30*time.Second, "deadline for resolving one query, 0 to disable")
	flags.Int("batch-concurrency", 0, "maximum concurrent DescribeServices batches, 0 for no limit")
	_ = viper.BindPFlags(flags)
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Bare names kept from the first deployment.
	_ = viper.BindEnv("log-level", envPrefix+"_LOG_LEVEL", "LOG_LEVEL")
	_ = viper.BindEnv("port", envPrefix+"_PORT", "PORT")
}

func newLogger(outputPaths ...string) (*zap.Logger, error) {
	return logging.New(viper.GetString("log-level"), outputPaths...)
}

func newGateway(logger *zap.Logger, clients aws.ClientProvider) *gateway.Gateway {
	engine := resolution.NewEngine(clients, logger,
		resolution.WithUpstreamTimeout(viper.GetDuration("upstream-timeout")),
		resolution.WithBatchConcurrency(viper.GetInt("batch-concurrency")),
	)
	return gateway.New(engine, logger, viper.GetDuration("query-timeout"))
}

// queryFlags are the arguments of getServicesInfo on the command line.
type queryFlags struct {
	services string
	cluster  string
	region   string
}

func (q *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&q.services, "services", "s", "", "comma separated service names")
	cmd.Flags().StringVarP(&q.cluster, "cluster", "c", "", "cluster name")
	cmd.Flags().StringVarP(&q.region, "region", "r", "", "AWS region of the cluster")
	_ = cmd.MarkFlagRequired("services")
	_ = cmd.MarkFlagRequired("cluster")
	_ = cmd.MarkFlagRequired("region")
}

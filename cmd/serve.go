package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexalbu001/ecs-graphql/internal/aws"
	"github.com/alexalbu001/ecs-graphql/internal/graph"
	"github.com/alexalbu001/ecs-graphql/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/graph-gophers/graphql-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultPort = 3000

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "starts the GraphQL server",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer logger.Sync() // nolint

		gw := newGateway(logger, aws.NewClientFactory())
		schema, err := graph.NewSchema(graph.NewResolver(gw), graphql.MaxParallelism(20))
		if err != nil {
			return err
		}

		gin.SetMode(gin.ReleaseMode)
		srv := server.New(schema, logger, viper.GetInt("port"))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx, viper.GetDuration("shutdown-timeout"))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", defaultPort, "port to listen on")
	serveCmd.Flags().Duration("shutdown-timeout", 10*time.Second, "time allowed for in-flight requests on shutdown")
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("shutdown-timeout", serveCmd.Flags().Lookup("shutdown-timeout"))
}

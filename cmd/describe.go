package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/alexalbu001/ecs-graphql/internal/aws"
	"github.com/alexalbu001/ecs-graphql/internal/graph"
	"github.com/spf13/cobra"
)

var describeFlags queryFlags

// describeCmd prints the getServicesInfo response for the given arguments without starting a server.
var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "runs getServicesInfo once and prints the GraphQL response",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer logger.Sync() // nolint

		schema, err := graph.NewSchema(graph.NewResolver(newGateway(logger, aws.NewClientFactory())))
		if err != nil {
			return err
		}

		response := graph.QueryServicesInfo(cmd.Context(), schema, describeFlags.services, describeFlags.cluster, describeFlags.region)
		out, err := json.MarshalIndent(response, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))

		if len(response.Errors) > 0 {
			return fmt.Errorf("query failed: %s", response.Errors[0].Message)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeFlags.register(describeCmd)
}

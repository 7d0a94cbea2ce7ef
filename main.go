package main

import (
	"os"

	"github.com/alexalbu001/ecs-graphql/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

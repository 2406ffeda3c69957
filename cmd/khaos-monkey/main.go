// Package main implements the khaos-monkey CLI
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/khaosmonkey/khaos-monkey/cmd/khaos-monkey/commands"
	"github.com/khaosmonkey/khaos-monkey/pkg/runtime"
)

func main() {
	env := runtime.DefaultEnvironment()

	rootCmd := commands.BuildRootCmd(env, commands.DefaultClusterFactory)
	rootCmd.SetArgs(env.Args()[1:])

	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

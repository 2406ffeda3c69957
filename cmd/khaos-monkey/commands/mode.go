package commands

import (
	"fmt"
	"strconv"

	"github.com/khaosmonkey/khaos-monkey/pkg/khaos"
	"github.com/khaosmonkey/khaos-monkey/pkg/runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// BuildModeCmd returns the command that runs the monkey in the given mode.
// The value of the mode is the single positional argument of the command.
func BuildModeCmd(
	o *options,
	env runtime.Environment,
	factory ClusterFactory,
	log *logrus.Logger,
	kind khaos.ModeKind,
	argName string,
	short string,
) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("%s <%s>", kind, argName),
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: %s must be a non negative integer: %q", khaos.ErrInvalidConfig, argName, args[0])
			}

			return o.run(cmd.Context(), env, factory, khaos.Mode{Kind: kind, Value: value}, log)
		},
	}
}

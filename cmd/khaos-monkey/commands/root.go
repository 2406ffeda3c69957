// Package commands implements the command tree of the khaos-monkey CLI
package commands

import (
	"fmt"
	"io"

	"github.com/khaosmonkey/khaos-monkey/internal/version"
	"github.com/khaosmonkey/khaos-monkey/pkg/config"
	"github.com/khaosmonkey/khaos-monkey/pkg/khaos"
	"github.com/khaosmonkey/khaos-monkey/pkg/kubernetes"
	"github.com/khaosmonkey/khaos-monkey/pkg/runtime"
	"github.com/khaosmonkey/khaos-monkey/pkg/utils"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Names of the flags that are not read from the configuration file
const (
	flagLogFormat      = "log-format"
	flagMetricsAddress = "metrics-address"
	flagKubeconfig     = "kubeconfig"
	flagSeed           = "seed"
	flagConfig         = "config"
)

// annotationEnv marks the flags that can also be set from environment variables and the configuration file
const annotationEnv = "khaos-monkey/env"

// ClusterFactory returns the Kubernetes instance the monkey attacks.
// kubeconfig is the path given with the --kubeconfig flag, if any.
type ClusterFactory func(env runtime.Environment, kubeconfig string) (kubernetes.Kubernetes, error)

// DefaultClusterFactory uses the given kubeconfig or, if empty, the in-cluster or user configuration
func DefaultClusterFactory(env runtime.Environment, kubeconfig string) (kubernetes.Kubernetes, error) {
	if kubeconfig != "" {
		return kubernetes.NewFromKubeconfig(kubeconfig)
	}
	return kubernetes.New(env.Vars())
}

// options holds the values of the persistent flags
type options struct {
	config         khaos.Config
	gracePeriod    optionalDuration
	logLevel       string
	logFormat      string
	metricsAddress string
	kubeconfig     string
	seed           int64
	configFile     string
	// mode defined in the configuration file, used when no mode subcommand is given
	fileMode *khaos.Mode
}

// BuildRootCmd builds the root command of the monkey with all the persistent flags and the mode subcommands
func BuildRootCmd(env runtime.Environment, factory ClusterFactory) *cobra.Command {
	o := &options{
		config: khaos.DefaultConfig(khaos.Mode{}),
	}
	log := logrus.New()

	rootCmd := &cobra.Command{
		Use:   "khaos-monkey",
		Short: "Randomly delete pods in a Kubernetes cluster",
		Long: "A chaos monkey that periodically deletes a share of the pods of the workloads\n" +
			"running in the target namespaces of a Kubernetes cluster",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := o.bind(cmd.Flags(), env.Vars()); err != nil {
				return err
			}
			return o.setupLogger(log, cmd.OutOrStdout())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if o.fileMode == nil {
				return fmt.Errorf("%w: a mode command or a mode in the config file is required", khaos.ErrInvalidConfig)
			}
			return o.run(cmd.Context(), env, factory, *o.fileMode, log)
		},
		Args:          cobra.NoArgs,
		Version:       version.Get(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addFlags(rootCmd.PersistentFlags(), o)

	rootCmd.AddCommand(
		BuildModeCmd(o, env, factory, log, khaos.Fixed, "number-of-pods",
			"Kill a fixed number of pods in each attacked group"),
		BuildModeCmd(o, env, factory, log, khaos.FixedLeft, "number-of-pods-left-after-chaos",
			"Kill pods until the given number of pods is left in each attacked group"),
		BuildModeCmd(o, env, factory, log, khaos.Percentage, "percentage-of-pods",
			"Kill a percentage of the pods in each attacked group"),
	)

	return rootCmd
}

// addFlags defines the flags of the monkey in the flag set, storing their values in the options
func addFlags(flags *pflag.FlagSet, o *options) {
	defined := map[string]bool{}
	flags.VisitAll(func(f *pflag.Flag) {
		defined[f.Name] = true
	})

	flags.StringVar(&o.config.TargetNamespaces, config.FlagTargetNamespaces, o.config.TargetNamespaces,
		"comma separated list of namespaces whose pods are attacked unless they opt out")
	flags.StringVar(&o.config.BlacklistedNamespaces, config.FlagBlacklistedNamespaces, o.config.BlacklistedNamespaces,
		"comma separated list of namespaces that can't be targeted")
	flags.IntVar(&o.config.AttacksPerInterval, config.FlagAttacksPerInterval, o.config.AttacksPerInterval,
		"number of groups attacked in each cycle. Negative values attack all groups")
	flags.BoolVar(&o.config.RandomKillCount, config.FlagRandomKillCount, o.config.RandomKillCount,
		"scale the number of pods killed in each group by a random factor")
	flags.Var(newDurationValue(o.config.MinTimeBetweenChaos, &o.config.MinTimeBetweenChaos),
		config.FlagMinTimeBetweenChaos, "minimum time between cycles (e.g. \"1m 30s\")")
	flags.Var(newDurationValue(o.config.RandomExtraTimeBetweenChaos, &o.config.RandomExtraTimeBetweenChaos),
		config.FlagRandomExtraTimeBetweenChaos, "maximum random time added to the minimum time between cycles")
	flags.Float64Var(&o.config.DeleteRate, config.FlagDeleteRate, o.config.DeleteRate,
		"maximum pod deletions per second. Zero means no limit")
	flags.Var(&o.gracePeriod, config.FlagGracePeriod,
		"termination grace period of deleted pods. Uses the pod's setting if not specified")
	flags.StringVar(&o.logLevel, config.FlagLogLevel, "info", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&o.logFormat, flagLogFormat, "text", "log format (text, json)")
	flags.StringVar(&o.metricsAddress, flagMetricsAddress, "",
		"address for serving Prometheus metrics (e.g. \":9090\"). Disabled if empty")
	flags.StringVar(&o.kubeconfig, flagKubeconfig, "", "path to the kubeconfig file")
	flags.Int64Var(&o.seed, flagSeed, 0, "seed for the random choices. Zero uses a time based seed")
	flags.StringVar(&o.configFile, flagConfig, "", "path to a YAML configuration file")

	// the kubeconfig variable is handled when loading the cluster configuration
	flags.VisitAll(func(f *pflag.Flag) {
		if defined[f.Name] || f.Name == flagConfig || f.Name == flagKubeconfig {
			return
		}
		_ = flags.SetAnnotation(f.Name, annotationEnv, []string{utils.EnvVarName(f.Name)})
	})
}

// bind sets the flags defined by addFlags not given in the command line from the environment
// variables or the configuration file, in this order of precedence. Other flags in the set,
// such as help and version, are ignored.
func (o *options) bind(flags *pflag.FlagSet, vars map[string]string) error {
	configFile := o.configFile
	if !flags.Changed(flagConfig) {
		configFile = utils.GetStringEnvVar(vars, utils.EnvVarName(flagConfig), "")
	}

	fileFlags := map[string]string{}
	if configFile != "" {
		fileConfig, err := config.LoadFile(configFile)
		if err != nil {
			return err
		}

		fileFlags = fileConfig.Flags()
		if mode, found, _ := fileConfig.KhaosMode(); found {
			o.fileMode = &mode
		}
	}

	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		envVars, bindable := f.Annotations[annotationEnv]
		if bindErr != nil || f.Changed || !bindable || len(envVars) == 0 {
			return
		}

		envVar := envVars[0]
		value, source := utils.GetStringEnvVar(vars, envVar, ""), envVar
		if value == "" {
			value, source = fileFlags[f.Name], configFile
		}
		if value == "" {
			return
		}

		if err := f.Value.Set(value); err != nil {
			bindErr = fmt.Errorf("%w: invalid value %q for %s from %s: %w", khaos.ErrInvalidConfig, value, f.Name, source, err)
		}
	})

	return bindErr
}

// setupLogger configures the level and format of the logger
func (o *options) setupLogger(log *logrus.Logger, out io.Writer) error {
	level, err := logrus.ParseLevel(o.logLevel)
	if err != nil {
		return fmt.Errorf("%w: %w", khaos.ErrInvalidConfig, err)
	}
	log.SetLevel(level)
	log.SetOutput(out)

	switch o.logFormat {
	case "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("%w: unknown log format %q", khaos.ErrInvalidConfig, o.logFormat)
	}

	return nil
}

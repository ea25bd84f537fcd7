package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errReported is returned by commands that already printed their failure,
// such as diagnostics, so main only needs to set the exit status.
var errReported = errors.New("reported")

func newRootCmd() *cobra.Command {
	var cfgFile string
	cmd := &cobra.Command{
		Use:   "quill [file]",
		Short: "Compile and run Quill programs",
		Long: `Quill is a small statically typed language with a compiler front end
and a tree-walking evaluator.

Run a file, evaluate code with -c or --stdin, or start the REPL by running
quill with no arguments in a terminal.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(cfgFile); err != nil {
				return err
			}
			processGlobalFlags()
			return nil
		},
		RunE: rootHandler,
	}

	pflags := cmd.PersistentFlags()
	pflags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.quill.yaml)")
	pflags.Bool("no-color", false, "Disable colored output")
	pflags.String("log-level", "warn", "Log level (trace, debug, info, warn, error)")
	pflags.StringP("output", "o", "", "Output format (text, json)")
	for _, name := range []string{"no-color", "log-level", "output"} {
		viper.BindPFlag(name, pflags.Lookup(name))
	}
	cmd.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp
	})

	addCodeFlags(cmd)
	cmd.Flags().Bool("no-repl", false, "Disable the REPL")

	cmd.AddCommand(
		newRunCmd(),
		newEvalCmd(),
		newReplCmd(),
		newTreeCmd(),
		newLowerCmd(),
		newCfgCmd(),
		newHighlightCmd(),
		newVersionCmd(),
	)
	return cmd
}

// initConfig reads the config file and QUILL_* environment variables. A
// missing default config file is not an error.
func initConfig(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := homedir.Dir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".quill")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("quill")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func rootHandler(cmd *cobra.Command, args []string) error {
	if shouldRunRepl(cmd, args) {
		return replHandler(cmd, args)
	}
	if len(args) > 0 {
		return runHandler(cmd, args)
	}
	return evalHandler(cmd, args)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if strings.ToLower(viper.GetString("output")) == "json" {
				info, err := json.MarshalIndent(map[string]string{
					"version": version,
					"commit":  commit,
					"date":    date,
				}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(info))
				return nil
			}
			fmt.Fprintln(out, version)
			return nil
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if errors.Is(err, errReported) {
		os.Exit(1)
	}
	if err != nil {
		fatal("%s", err)
	}
}

package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// newRootCommand creates the command that runs the server, logging to the writer.
func newRootCommand(out io.Writer, loadEnvFunc func(filenames ...string) error) *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "mexican-train",
		Short: "Runs the Mexican Train dominoes server",
		Long: `Runs the Mexican Train dominoes server.
Players create accounts, connect to the lobby with a websocket, and play games against each other.
Flags can also be set with environment variables, such as HTTPS_PORT for https-port, or in a .env file.`,
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(v, cmd.Flags(), loadEnvFunc)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			m := newMainFlags(v)
			return run(cmd.Context(), m, out)
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(out)
	addFlags(cmd.Flags())
	return cmd
}

// loadConfig binds the flags, environment variables, and config file to viper.
// Flags take precedence over environment variables, which take precedence over the config file.
// Environment variables in a .env file are loaded first, if it exists.
func loadConfig(v *viper.Viper, flags *pflag.FlagSet, loadEnvFunc func(filenames ...string) error) error {
	if err := loadEnvFunc(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env file: %w", err)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	if configFile := v.GetString(flagConfig); len(configFile) != 0 {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	return nil
}

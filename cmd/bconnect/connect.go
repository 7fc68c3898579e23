package main

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/srg/bconnect/internal/alias"
	"github.com/srg/bconnect/internal/controllerfactory"
	"github.com/srg/bconnect/internal/shortcut"
	"github.com/srg/bconnect/pkg/config"
)

var (
	disconnectAll  bool
	configPath     string
	controllerName string
	relayMode      string
	keepGoing      bool
	verbose        bool
)

func validateArgs(_ *cobra.Command, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("%w: accepts at most one DEVICE, received %d", ErrUsage, len(args))
	}
	return nil
}

// selectAction enforces that exactly one of DEVICE and --disconnect is given.
func selectAction(args []string, disconnect bool) (shortcut.Action, error) {
	switch {
	case len(args) == 1 && disconnect:
		return shortcut.Action{}, fmt.Errorf("%w: DEVICE cannot be used with --disconnect", ErrUsage)
	case len(args) == 1:
		return shortcut.Connect(args[0]), nil
	case disconnect:
		return shortcut.Disconnect(), nil
	}
	return shortcut.Action{}, fmt.Errorf("%w: one of DEVICE or --disconnect is required", ErrUsage)
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	explicit := cmd.Flags().Changed("config")
	if !explicit {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path, explicit)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("controller") {
		cfg.Controller = controllerName
	}
	if cmd.Flags().Changed("relay") {
		cfg.Relay = relayMode
	}
	if cmd.Flags().Changed("keep-going") {
		cfg.KeepGoing = keepGoing
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runConnect(cmd *cobra.Command, args []string) error {
	action, err := selectAction(args, disconnectAll)
	if err != nil {
		return err
	}

	// Configure logger based on --log-level and --verbose flags
	logger, err := configureLogger(cmd, "verbose")
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	table, err := alias.NewTable(cfg.Devices)
	if err != nil {
		return err
	}

	if action.Kind == shortcut.ConnectAlias {
		if _, err := table.Resolve(action.Alias); err != nil {
			return fmt.Errorf("%w: invalid value %q for DEVICE (possible values: %s)",
				ErrUsage, action.Alias, strings.Join(table.Aliases(), ", "))
		}
	}

	// All arguments validated - don't show usage on runtime errors
	cmd.SilenceUsage = true

	logger.WithFields(logrus.Fields{
		"controller": cfg.Controller,
		"devices":    table.Len(),
	}).Debug("Configuration loaded")

	out := cmd.OutOrStdout()
	ctrl, err := controllerfactory.Factory(cfg, out, logger)
	if err != nil {
		return err
	}

	policy := shortcut.FailFast
	if cfg.KeepGoing {
		policy = shortcut.KeepGoing
	}

	resolver := shortcut.NewResolver(table, ctrl, shortcut.Options{
		Policy: policy,
		Output: out,
		Logger: logger,
	})
	return resolver.Run(cmd.Context(), action)
}

// completeAliases offers the configured aliases for shell completion.
func completeAliases(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 || disconnectAll {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	names := make([]string, 0, len(cfg.Devices))
	for _, d := range cfg.Devices {
		names = append(names, d.Alias)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/srg/bconnect/pkg/config"
)

// configureLogger creates a logger with the appropriate log level based on flags.
// It respects both --log-level and --verbose flags, with --log-level taking precedence.
// Returns a configured logger or error if the log-level is invalid.
func configureLogger(cmd *cobra.Command, verboseFlagName string) (*logrus.Logger, error) {
	// Default to panic level (essentially silent for normal operations)
	cfg := config.Config{LogLevel: logrus.PanicLevel}

	if logLevelStr, _ := cmd.Flags().GetString("log-level"); logLevelStr != "" {
		level, err := config.ParseLogLevel(logLevelStr)
		if err != nil {
			return nil, err
		}
		cfg.LogLevel = level
	} else if v, _ := cmd.Flags().GetBool(verboseFlagName); v {
		cfg.LogLevel = logrus.DebugLevel
	}

	return cfg.NewLoggerTo(cmd.ErrOrStderr()), nil
}

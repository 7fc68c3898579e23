package main

import (
	"fmt"
	"os"
	"unicode"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// formatVersion adds 'v' prefix if version starts with a digit
func formatVersion(ver string) string {
	if len(ver) > 0 && unicode.IsDigit(rune(ver[0])) {
		return "v" + ver
	}
	return ver
}

// rootCmd represents the bconnect command
var rootCmd = &cobra.Command{
	Use:   "bconnect [DEVICE]",
	Short: "Bluetooth connection shortcuts",
	Long: `Bluetooth connection shortcuts.

Connects a device by its short alias, or disconnects every connected device.
The currently connected devices are always listed first. A device that is
already connected is disconnected and connected again.

Examples:
  # Connect (or reconnect) the device aliased "buds"
  bconnect buds

  # Disconnect everything
  bconnect --disconnect

Aliases are read from $XDG_CONFIG_HOME/bconnect/config.yaml:

  controller: bluetoothctl   # or dbus
  devices:
    - alias: buds
      address: B0:4A:6A:C9:DF:0C

Without a config file a built-in table is used.`,
	Args:              validateArgs,
	RunE:              runConnect,
	ValidArgsFunction: completeAliases,
	Version:           formatVersion(version),
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print user-friendly error message
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", FormatUserError(err))
		os.Exit(1)
	}
}

func init() {
	// Silence Cobra's "Error:" prefix - main() prints clean errors
	rootCmd.SilenceErrors = true
	rootCmd.SetVersionTemplate(fmt.Sprintf("bconnect {{.Version}} (commit %s, built %s)\n", commit, date))

	registerFlags(rootCmd)
}

func registerFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&disconnectAll, "disconnect", "d", false, "Disconnect all connected devices")
	cmd.Flags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/bconnect/config.yaml)")
	cmd.Flags().StringVar(&controllerName, "controller", "", "Controller backend (bluetoothctl, dbus)")
	cmd.Flags().StringVar(&relayMode, "relay", "", "Controller output relay for bluetoothctl (auto, pipe, pty)")
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "Keep disconnecting remaining devices after a failure")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	cmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	// Add -v as a short flag for --version
	cmd.Flags().BoolP("version", "v", false, "Show version information")
}

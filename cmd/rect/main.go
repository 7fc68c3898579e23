package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/srg/bconnect/internal/geometry"
)

var (
	width  uint32
	height uint32
)

var rootCmd = &cobra.Command{
	Use:   "rect",
	Short: "Print the area of a rectangle",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		r := geometry.Rect{Width: width, Height: height}
		fmt.Fprintln(cmd.OutOrStdout(), r.Area())
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Uint32Var(&width, "width", 4, "Rectangle width")
	rootCmd.Flags().Uint32Var(&height, "height", 6, "Rectangle height")
}

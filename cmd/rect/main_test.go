package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRect(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{name: "defaults", args: []string{}, expected: "24\n"},
		{name: "custom", args: []string{"--width", "3", "--height", "5"}, expected: "15\n"},
		{name: "beyond 32 bits", args: []string{"--width", "100000", "--height", "100000"}, expected: "10000000000\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			width, height = 4, 6
			buf := new(bytes.Buffer)
			rootCmd.SetOut(buf)
			rootCmd.SetArgs(tt.args)

			require.NoError(t, rootCmd.Execute())
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

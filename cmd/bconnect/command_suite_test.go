package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/srg/bconnect/internal/controller"
	"github.com/srg/bconnect/internal/controllerfactory"
	"github.com/srg/bconnect/internal/testutils/mocks"
	"github.com/srg/bconnect/pkg/config"
	"github.com/stretchr/testify/suite"
)

// CommandTestSuite runs rootCmd against a mock controller and an isolated config directory.
type CommandTestSuite struct {
	suite.Suite
	originalFactory func(*config.Config, io.Writer, *logrus.Logger) (controller.Controller, error)

	Ctrl          *mocks.MockController
	FactoryConfig *config.Config // config the factory was called with, nil if never called
	ConfigDir     string
}

// SetupSuite swaps the controller factory for the mock.
func (s *CommandTestSuite) SetupSuite() {
	s.originalFactory = controllerfactory.Factory
	controllerfactory.Factory = func(cfg *config.Config, _ io.Writer, _ *logrus.Logger) (controller.Controller, error) {
		s.FactoryConfig = cfg
		return s.Ctrl, nil
	}
}

// TearDownSuite restores the real factory.
func (s *CommandTestSuite) TearDownSuite() {
	controllerfactory.Factory = s.originalFactory
}

// SetupTest resets flags and points XDG_CONFIG_HOME at an empty directory.
func (s *CommandTestSuite) SetupTest() {
	s.Ctrl = mocks.NewMockController(s.T())
	s.FactoryConfig = nil
	s.ConfigDir = s.T().TempDir()
	s.T().Setenv("XDG_CONFIG_HOME", s.ConfigDir)
	s.T().Setenv(config.EnvController, "")

	disconnectAll = false
	configPath = ""
	controllerName = ""
	relayMode = ""
	keepGoing = false
	verbose = false

	// Re-create flags so Changed() state does not leak between tests
	rootCmd.ResetFlags()
	registerFlags(rootCmd)
	rootCmd.SilenceUsage = false
}

// WriteConfig writes the default-location config file.
func (s *CommandTestSuite) WriteConfig(content string) string {
	dir := filepath.Join(s.ConfigDir, "bconnect")
	s.Require().NoError(os.MkdirAll(dir, 0o755), "config dir MUST be created")
	path := filepath.Join(dir, "config.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600), "config MUST be written")
	return path
}

// ExecuteCommand runs a cobra command with args, returns output and error.
func (s *CommandTestSuite) ExecuteCommand(cmd *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

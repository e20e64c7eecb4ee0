// Package cli implements the ctregistry command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/ctregistry/internal/logger"
	"github.com/mesh-intelligence/ctregistry/internal/paths"
	"github.com/mesh-intelligence/ctregistry/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir  string
	root       string
	suite      string
	document   string
	journalDir string
	logLevel   string
	logJSON    bool
	jsonMode   bool
}

var flags rootFlags

// settings and log are set by the root PersistentPreRunE.
var (
	settings *viper.Viper
	log      logger.Logger = logger.Nop()
)

// NewRootCmd creates the top-level "ctregistry" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ctregistry",
		Short: "Inspect and exercise a site's content type registry",
		Long: "ctregistry loads a contentTypes.yml document describing entity types,\n" +
			"bundles and fields, and lists, validates or dry-run fills them.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.root, "root", "", "project directory holding tests/ (default: current directory)")
	root.PersistentFlags().StringVar(&flags.suite, "suite", "", "suite whose contentTypes.yml takes precedence")
	root.PersistentFlags().StringVar(&flags.document, "document", "", "explicit document path, bypassing suite lookup")
	root.PersistentFlags().StringVar(&flags.journalDir, "journal-dir", "", "journal directory (default: $(CWD)/.ctregistry-journal)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&flags.logJSON, "log-json", false, "log in JSON format")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newFillCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ctregistry:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// exitCode maps configuration and lookup errors to a user error and
// everything else to a system error.
func exitCode(err error) int {
	if errors.Is(err, types.ErrConfiguration) || errors.Is(err, types.ErrNotFound) {
		return exitUserError
	}
	return exitSysError
}

func setup(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	settings = v

	level := flags.logLevel
	if level == "" {
		level = v.GetString(cfgKeyLogLevel)
	}
	log = logger.NewLogger(&logger.Config{
		Level:      logger.Level(level),
		Output:     cmd.ErrOrStderr(),
		JSON:       flags.logJSON,
		TimeFormat: "15:04:05",
	})
	log.Debug("configuration loaded", "config_dir", configDir)
	return nil
}

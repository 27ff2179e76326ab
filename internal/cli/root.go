package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gophvault/internal/config"
	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// lenientConfig marks commands that must still run when the config file
// cannot be loaded, so a broken file can be repaired from the CLI.
const lenientConfig = "lenient-config"

type rootFlags struct {
	configPath string
	logLevel   string
	verbose    bool
}

func (f *rootFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.configPath, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/gophvault/config.yaml)")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "enable debug logging")
}

// NewRootCommand builds the gophvault command tree. The App is created in
// PersistentPreRunE, once flags are parsed.
func NewRootCommand() *cobra.Command {
	var (
		flags rootFlags
		app   *App
	)

	root := &cobra.Command{
		Use:   "gophvault",
		Short: "Encrypted local password vault",
		Long: `gophvault keeps named secrets in a single password-protected file.

Examples:
  # Create a new vault in the current directory
  gophvault create personal

  # Open it and manage records interactively
  gophvault open personal.vault

  # Make new vaults slower to brute-force
  gophvault config set kdf.iterations 4`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			app = a
			return nil
		},
	}

	flags.register(root.PersistentFlags())

	dispatch := func(cmd *cobra.Command, c Command) error {
		return app.Dispatch(cmd.Context(), c)
	}

	var createDir string
	create := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a new empty vault",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, CommandCreate{Name: args[0], Dir: createDir})
		},
	}
	create.Flags().StringVar(&createDir, "dir", "", "directory to create the vault in")

	open := &cobra.Command{
		Use:   "open PATH",
		Short: "Open a vault and start an interactive session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, CommandOpen{Path: args[0]})
		},
	}

	root.AddCommand(create, open, newConfigCommand(dispatch))
	return root
}

func newConfigCommand(dispatch func(*cobra.Command, Command) error) *cobra.Command {
	cfg := &cobra.Command{
		Use:   "config",
		Short: "Manage gophvault configuration",
	}

	var asJSON bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return dispatch(cmd, CommandConfigShow{JSON: asJSON})
		},
	}
	show.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	set := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Store a setting in the config file",
		Long:  "Store a setting in the config file. Keys: " + strings.Join(config.Keys(), ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, CommandConfigSet{Key: args[0], Value: args[1]})
		},
	}

	reset := &cobra.Command{
		Use:         "reset",
		Short:       "Write the default configuration",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{lenientConfig: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return dispatch(cmd, CommandConfigReset{})
		},
	}

	path := &cobra.Command{
		Use:         "path",
		Short:       "Print the config file location",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{lenientConfig: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return dispatch(cmd, CommandConfigPath{})
		},
	}

	cfg.AddCommand(show, set, reset, path)
	return cfg
}

// setup loads configuration, applies flag overrides and builds the App.
func setup(cmd *cobra.Command, flags rootFlags) (*App, error) {
	cfg, path, err := config.Load(flags.configPath)
	if err != nil {
		if cmd.Annotations[lenientConfig] == "" || path == "" {
			return nil, err
		}
		cfg = &config.Config{}
		cfg.LoadDefaults()
	}

	if flags.logLevel != "" {
		if err := cfg.Set("log.level", flags.logLevel); err != nil {
			return nil, err
		}
	}
	if flags.verbose {
		_ = cfg.Set("log.level", "debug")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	log := base.With("session", uuid.NewString())
	log.Debug(context.Background(), "config loaded", "path", path, "command", cmd.CommandPath())

	return NewApp(cfg, path, log, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()), nil
}

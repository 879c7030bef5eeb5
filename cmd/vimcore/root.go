package main

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/vimcore/internal/app"
	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/input/vim"
)

// globalOptions are the flags every subcommand shares.
type globalOptions struct {
	configPaths []string
	logFile     string
	logLevel    string
}

func newRootCmd(version string) *cobra.Command {
	var opts globalOptions

	root := &cobra.Command{
		Use:   "vimcore [files...]",
		Short: "A Vim-style modal editing engine",
		Long: `vimcore is a modal editing engine with Vim keys: counts, operators,
motions, text objects, registers, search and ex commands.

Without a subcommand it opens the given files in the terminal editor.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, &opts, args, true)
		},
	}

	flags := root.PersistentFlags()
	flags.StringSliceVarP(&opts.configPaths, "config", "c", nil,
		"config files to load in order (default: the user config directory)")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newRunCmd(&opts),
		newKeysCmd(),
		newEditCmd(&opts),
		newConfigCmd(&opts),
	)
	return root
}

// loadConfig reads the configuration and applies command line overrides.
func (o *globalOptions) loadConfig() (*config.Config, []string, error) {
	paths := o.configPaths
	if len(paths) == 0 {
		paths = config.DefaultPaths()
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		return nil, nil, err
	}
	if o.logFile != "" {
		cfg.Logging.File = o.logFile
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	return cfg, paths, nil
}

// session is an application with the resources opened for it.
type session struct {
	app    *app.Application
	paths  []string
	closer io.Closer
}

// openSession loads the configuration and builds an application with its
// logger. A nil clipboard uses the system clipboard.
func (o *globalOptions) openSession(clipboard vim.ClipboardProvider) (*session, error) {
	cfg, paths, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, closer, err := app.OpenLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}
	application := app.New(app.Options{Config: cfg, Logger: logger, Clipboard: clipboard})
	return &session{app: application, paths: paths, closer: closer}, nil
}

// Close closes the application and the log file.
func (s *session) Close() error {
	return errors.Join(s.app.Close(), s.closer.Close())
}

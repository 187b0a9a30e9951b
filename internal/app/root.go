package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	jsonschema "github.com/andyballingall/json-schema-validator"
	"github.com/andyballingall/json-schema-validator/internal/backend"
	"github.com/andyballingall/json-schema-validator/internal/config"
	"github.com/andyballingall/json-schema-validator/internal/crosscheck"
	"github.com/andyballingall/json-schema-validator/internal/drafts"
	"github.com/andyballingall/json-schema-validator/internal/fs"
	"github.com/andyballingall/json-schema-validator/internal/loader"
	"github.com/andyballingall/json-schema-validator/internal/uri"
)

// Version is the current version of jsv, set at build time.
var Version = "dev"

// Banner with colour codes.
var Banner = "\033[32m" + `
    _           
   (_)______  __
  / / ___/ | / /
 / (__  )| |/ / 
/ /____/ |___/  
/___/           
` + "\033[0m"

var LongDescription = `
jsv validates JSON documents against JSON Schemas written for drafts 1 to 4
and draft 6. Schemas and data may be local files, http(s) or ftp URIs, or
inline JSON, and schemas may reference each other across documents.
`

// remoteSchemes are refused when the configuration disables network access.
var remoteSchemes = []string{"http", "https", "ftp"}

// NewRootCmd creates the root command and wires up dependencies.
func NewRootCmd(lazy *LazyManager, ll *slog.LevelVar, stdout, stderr io.Writer, env fs.EnvProvider) *cobra.Command {
	var debug bool
	var noColour bool
	var configPath pathValue

	rootCmd := &cobra.Command{
		Use:           "jsv",
		Short:         "A JSON Schema validator for drafts 1 to 6",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Long:          Banner + "\n" + LongDescription,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for help and completion commands
			if cmd.Name() == "help" || isCompletionCommand(cmd) {
				return nil
			}
			if debug {
				ll.Set(slog.LevelDebug)
			}
			// Skip if already initialised (e.g., in tests)
			if lazy.HasInner() {
				return nil
			}

			logger, _, err := setupLogger(stderr, ll, env)
			if err != nil {
				logger.Warn("logging to file disabled", "error", err)
			}

			cfg, err := loadConfig(string(configPath), env)
			if err != nil {
				return err
			}
			if cfg.Path != "" {
				logger.Debug("loaded configuration", "path", cfg.Path)
			}

			mgr, err := newManager(logger, cfg, stdout)
			if err != nil {
				return fmt.Errorf("validator initialisation failed: %w", err)
			}
			lazy.SetInner(mgr)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().VarP(&configPath, "config", "C",
		fmt.Sprintf("Configuration file (default $%s or ./%s)", config.EnvVar, config.FileName))
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	rootCmd.PersistentFlags().BoolVarP(&noColour, "nocolour", "c", false, "Disable colour in output")
	// Support alternate spellings
	rootCmd.PersistentFlags().BoolVar(&noColour, "nocolor", false, "")
	rootCmd.PersistentFlags().BoolVar(&noColour, "noColor", false, "")
	rootCmd.PersistentFlags().BoolVar(&noColour, "noColour", false, "")
	_ = rootCmd.PersistentFlags().MarkHidden("nocolor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColour")

	// Subcommands
	rootCmd.AddCommand(NewValidateCmd(lazy))
	rootCmd.AddCommand(NewCheckSchemaCmd(lazy))
	rootCmd.AddCommand(NewDialectsCmd(lazy))

	return rootCmd
}

// loadConfig reads the configuration named by the flag, the environment or
// the working directory, checked against the built-in dialects and backends.
func loadConfig(flag string, env fs.EnvProvider) (*config.Config, error) {
	registry, err := drafts.NewRegistry()
	if err != nil {
		return nil, err
	}
	var supported config.Supported
	for _, d := range registry.All() {
		supported.Versions = append(supported.Versions, d.Names()...)
	}
	supported.Versions = append(supported.Versions, drafts.DefaultName)
	supported.Backends = backend.NewRegistry().Names()

	path, explicit := config.Path(flag, env)
	return config.Load(path, explicit, supported)
}

// newManager builds the validator, the cross-checker and the loader they
// share.
func newManager(logger *slog.Logger, cfg *config.Config, stdout io.Writer) (*CLIManager, error) {
	loaderOpts := []loader.Option{loader.WithLogger(logger)}
	if d := cfg.Timeout(); d > 0 {
		loaderOpts = append(loaderOpts, loader.WithTimeout(d))
	}
	l := loader.New(loaderOpts...)

	opts := []jsonschema.Option{
		jsonschema.WithLogger(logger),
		jsonschema.WithLoader(l),
		jsonschema.WithDefaultVersion(cfg.DefaultVersion),
		jsonschema.WithJSONBackend(cfg.JSONBackend),
	}
	if !cfg.RemoteEnabled() {
		for _, scheme := range remoteSchemes {
			l.Register(scheme, loader.FetcherFunc(refuseRemote))
		}
		opts = append(opts, jsonschema.WithAcceptURI(func(*jsonschema.URI) bool { return false }))
	}

	v, err := jsonschema.New(opts...)
	if err != nil {
		return nil, err
	}
	checker := crosscheck.NewSanthosh(l, v)
	return NewCLIManager(logger, v, checker, cfg, fs.NewPathResolver(), stdout), nil
}

func refuseRemote(_ context.Context, u *uri.URI) ([]byte, error) {
	return nil, fmt.Errorf("remote access to %s is disabled by configuration", u)
}

// isCompletionCommand returns true if the command or any of its parents is the "completion" command.
func isCompletionCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "completion" {
			return true
		}
	}
	return false
}

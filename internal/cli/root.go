package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/vk/metareg/internal/app"
	"github.com/vk/metareg/internal/protocol"
	"github.com/vk/metareg/internal/sanity"
)

var version = "dev"

// NewRootCommand builds the metareg command tree. Results go to out, logs
// and diagnostics to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "metareg",
		Short: "Type registry and tree checker for metamodel chunks",
		Long: `metareg maps application types to metamodel classifiers and primitive
types, prepares JSON serialization engines from those mappings and checks
deserialized node trees for structural consistency.

Languages and mappings are declared in HCL or YAML manifests.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (default: ./metareg.yaml)")
	pf.StringSliceP("manifest", "m", nil, "manifest file or directory (repeatable)")
	pf.String("protocol", protocol.Current().String(), "protocol version, e.g. 2024.1")
	pf.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")

	// newApp is shared by the subcommands.
	newApp := func(cmd *cobra.Command) (*app.App, error) {
		cfg, err := loadConfig(cmd, cfgFile)
		if err != nil {
			return nil, usageError(err)
		}
		return app.NewApp(cmd.Context(), cmd.ErrOrStderr(), cfg)
	}

	root.AddCommand(newCheckCommand(newApp), newMappingsCommand(newApp))
	return root
}

type appFactory func(cmd *cobra.Command) (*app.App, error)

func newCheckCommand(newApp appFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Deserialize JSON chunks and check their trees",
		Long: `Deserialize every FILE as a JSON chunk, using an engine prepared from the
registry, and check each root for structural consistency.

Every failing tree is written to the dump path, so after a run it holds
the last failure.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(context.WithoutCancel(cmd.Context())) }()

			reports, checkErr := a.Check(cmd.Context(), args...)
			if err := printReports(cmd.OutOrStdout(), reports); err != nil {
				return err
			}
			if checkErr != nil {
				failed := 0
				for _, r := range reports {
					if r.Err != nil {
						failed++
					}
				}
				return &ExitError{Code: 1, Message: checkSummary(failed, len(reports))}
			}
			return nil
		},
	}
	cmd.Flags().String("dump-path", sanity.DefaultDumpPath, "where a failing tree is written")
	cmd.Flags().Bool("disable-checks", false, "only deserialize, skip the tree check")
	return cmd
}

func newMappingsCommand(newApp appFactory) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "mappings",
		Short: "List the classifier and primitive type mappings",
		Long: `List the mappings registered for the configured protocol version: the
builtin ones and those declared by the manifests.

Examples:
  metareg mappings -m languages/
  metareg mappings -m calc.hcl --protocol 2023.1 --json | jq '.[].tag'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(context.WithoutCancel(cmd.Context())) }()

			if asJSON {
				return printMappingsJSON(cmd.OutOrStdout(), a.Mappings())
			}
			return printMappings(cmd.OutOrStdout(), a.Mappings())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

// Execute runs the command line args.
func Execute(ctx context.Context, args []string, out, errOut io.Writer) error {
	root := NewRootCommand(out, errOut)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// SetVersion sets the version string reported by --version.
func SetVersion(v string) {
	version = v
}

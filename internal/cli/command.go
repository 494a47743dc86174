// Package cli wires the command-line surface. It only assembles Options and
// chooses between the interactive and summary front ends; all algorithmic
// work lives behind the services and domain packages.
package cli

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"duskfs/internal/app"
	"duskfs/internal/config"
	"duskfs/internal/logging"
)

// New builds the root command for the given version string.
func New(version string) *cobra.Command {
	var (
		opts     config.Options
		countAll bool
		maxNodes uint32
		logLevel string
	)

	cmd := &cobra.Command{
		Use:     "duskfs [path]...",
		Short:   "Interactive disk usage analyzer and reclaimer",
		Version: version,
		Long: heredoc.Doc(`
			duskfs walks one or more directory trees in parallel, aggregates
			sizes bottom-up, and opens an interactive view for drilling into
			the tree and staging deletions.

			Deletions are staged: mark entries, request deletion, then
			confirm. Nothing touches the filesystem before the confirmation.
			Symbolic links are never followed, during scanning or deletion.
		`),
		Example: heredoc.Doc(`
			# analyze the current directory interactively
			duskfs

			# analyze several roots at once
			duskfs /var/log /var/cache

			# print totals without the interactive view
			duskfs --summary ~/Downloads
		`),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Roots = args
			opts.DedupHardLinks = !countAll
			opts.Capacity = maxNodes
			if err := logging.Init(logging.Config{Level: logLevel, OutputPath: opts.LogFile}); err != nil {
				return fmt.Errorf("opening log file: %w", err)
			}
			defer logging.Sync()

			if opts.Summary || !isatty.IsTerminal(os.Stdout.Fd()) {
				return app.RunSummary(cmd.OutOrStdout(), opts)
			}
			return app.Run(opts)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.ApparentSize, "apparent-size", "a", false, "display logical file sizes instead of disk occupancy")
	flags.BoolVar(&countAll, "count-hard-links", false, "count each hard-linked file every time it is seen instead of once per allocation")
	flags.BoolVarP(&opts.Summary, "summary", "s", false, "print aggregated totals and exit without the interactive view")
	flags.StringVar(&opts.LogFile, "log-file", "", "write diagnostics to this file (the interactive view owns the terminal)")
	flags.StringVar(&logLevel, "log-level", "info", "log level when --log-file is set (debug, info, warn, error)")
	flags.IntVar(&opts.Workers, "workers", 0, "traversal worker count (0 = available parallelism)")
	flags.Uint32Var(&maxNodes, "max-nodes", 0, "node arena bound (0 = index maximum)")
	_ = flags.MarkHidden("max-nodes")

	return cmd
}

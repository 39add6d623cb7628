package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/pxget/pkg/cache"
)

// NewCacheCmd creates the cache command with subcommands
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the project cache",
		Long:  "Clean, show information about, and locate the local project cache",
	}

	cmd.AddCommand(
		newCacheCleanCmd(),
		newCacheInfoCmd(),
		newCacheDirCmd(),
	)

	return cmd
}

func newCacheCleanCmd() *cobra.Command {
	var options cache.CleanOptions

	cmd := &cobra.Command{
		Use:   "clean [ID...]",
		Short: "Clean the project cache",
		Long: `Remove cached metadata and listings, downloaded data, or both.
Without flags only the metadata sidecars are removed. Identifiers restrict
cleaning to those projects.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			options.Projects = args
			return runCacheClean(cmd, options)
		},
	}

	cmd.Flags().BoolVar(&options.All, "all", false, "Remove metadata and downloaded data")
	cmd.Flags().BoolVar(&options.Metadata, "metadata", false, "Remove cached metadata and listings")
	cmd.Flags().BoolVar(&options.Data, "data", false, "Remove downloaded project directories")

	return cmd
}

func newCacheInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache information",
		Long:  "Display the size of the cache and of every cached project",
		Args:  cobra.NoArgs,
		RunE:  runCacheInfo,
	}
}

func newCacheDirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dir",
		Short: "Show cache directory path",
		Long:  "Display the path to the cache directory",
		Args:  cobra.NoArgs,
		RunE:  runCacheDir,
	}
}

func cacheManager() (*cache.DefaultManager, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	dir, err := cfg.EnsureDataDir()
	if err != nil {
		return nil, err
	}
	return cache.NewManager(dir), nil
}

func runCacheClean(cmd *cobra.Command, options cache.CleanOptions) error {
	manager, err := cacheManager()
	if err != nil {
		return err
	}

	msg, err := cache.NewOperation(manager).Clean(options)
	if err != nil {
		return err
	}
	printSuccess(cmd.ErrOrStderr(), "%s", msg)
	return nil
}

func runCacheInfo(cmd *cobra.Command, _ []string) error {
	manager, err := cacheManager()
	if err != nil {
		return err
	}

	summary, err := cache.NewOperation(manager).GetInfo()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, summary)

	info, err := manager.GetInfo()
	if err != nil {
		return err
	}
	if len(info.Projects) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(info.Projects))
	for _, p := range info.Projects {
		rows = append(rows, []string{
			p.Identifier,
			cache.FormatBytes(p.DataSize),
			strconv.Itoa(p.DataFiles),
			cache.FormatBytes(p.MetadataSize),
		})
	}
	_, _ = fmt.Fprintln(out)
	return renderTable(out, []string{"Project", "Data", "Files", "Metadata"}, rows)
}

func runCacheDir(cmd *cobra.Command, _ []string) error {
	manager, err := cacheManager()
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), cache.NewOperation(manager).GetDirectory())
	return nil
}

package cli

import (
	"context"

	"github.com/spf13/cobra"
)

type listFlags struct {
	projectFlags
	downloaded bool
}

// NewFilesCmd creates the files command.
func NewFilesCmd() *cobra.Command {
	return newListCmd("files", "List project files",
		`List the files of a project, one per line. The optional glob is matched
against the end of each path, so "*.mzML" also matches "peak/a.mzML".`, false)
}

// NewDirsCmd creates the dirs command.
func NewDirsCmd() *cobra.Command {
	return newListCmd("dirs", "List project directories",
		`List the directories of a project, one per line. The optional glob is
matched against the end of each path.`, true)
}

func newListCmd(use, short, long string, dirs bool) *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   use + " ID [GLOB]",
		Short: short,
		Long:  long,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			glob := ""
			if len(args) > 1 {
				glob = args[1]
			}
			return runList(cmd.Context(), cmd, &flags, args[0], glob, dirs)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.downloaded, "downloaded", false, "List the local copy instead of the remote project")

	return cmd
}

func runList(ctx context.Context, cmd *cobra.Command, flags *listFlags, id, glob string, dirs bool) error {
	s, err := openProject(ctx, cmd, &flags.projectFlags, id)
	if err != nil {
		return err
	}
	defer s.close()

	var entries []string
	switch {
	case flags.downloaded && dirs:
		entries, err = s.handle.LocalDirs(glob)
	case flags.downloaded:
		entries, err = s.handle.LocalFiles(glob)
	case dirs:
		entries, err = s.handle.RemoteDirs(ctx, glob)
	default:
		entries, err = s.handle.RemoteFiles(ctx, glob)
	}
	if err != nil {
		return err
	}

	printLines(cmd.OutOrStdout(), entries)
	return nil
}

package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/pxget/internal/logger"
	"github.com/glorpus-work/pxget/pkg/archive"
	"github.com/glorpus-work/pxget/pkg/errors"
	"github.com/glorpus-work/pxget/pkg/hooks"
	"github.com/glorpus-work/pxget/pkg/transfer"
)

type downloadFlags struct {
	projectFlags
	force   bool
	silent  bool
	extract bool
}

// NewDownloadCmd creates the download command.
func NewDownloadCmd() *cobra.Command {
	var flags downloadFlags

	cmd := &cobra.Command{
		Use:   "download ID [FILE|GLOB...]",
		Short: "Download project files",
		Long: `Download files of a PRIDE or MassIVE project into the local cache.
Arguments after the identifier are remote paths or glob patterns matched against
the end of each path ("*.raw" matches "raw/a.raw"). Without them every remote
file is downloaded. Complete files are skipped and partial files resumed.
The local path of every file is printed on its own line.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd.Context(), cmd, &flags, args[0], args[1:])
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Download again even when the local copy is complete")
	cmd.Flags().BoolVar(&flags.silent, "silent", false, "Hide the progress bars")
	cmd.Flags().BoolVar(&flags.extract, "extract", false, "Unpack downloaded archives and compressed files")

	return cmd
}

func runDownload(ctx context.Context, cmd *cobra.Command, flags *downloadFlags, id string, patterns []string) error {
	s, err := openProject(ctx, cmd, &flags.projectFlags, id)
	if err != nil {
		return err
	}
	defer s.close()

	files, err := s.handle.RemoteFiles(ctx, "")
	if err != nil {
		return err
	}
	if len(patterns) > 0 {
		var missing []string
		files, missing, err = s.handle.Match(ctx, patterns)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			printError(cmd.ErrOrStderr(), notFoundHeader)
			for _, m := range missing {
				printError(cmd.ErrOrStderr(), "  %s", m)
			}
			return &errors.NotFoundError{Names: missing}
		}
	}
	if len(files) == 0 {
		printWarning(cmd.ErrOrStderr(), "Project %s has no files to download", s.handle.ID())
		return nil
	}

	paths, err := s.handle.Download(ctx, files, transfer.DownloadOptions{
		Force:    flags.force,
		Silent:   flags.silent,
		Progress: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	if err := hooks.RunPostDownload(s.hooks, s.handle.ID(), files, paths); err != nil {
		return err
	}

	if flags.extract || s.cfg.Settings.Extract {
		if err := extractAll(ctx, cmd.ErrOrStderr(), paths); err != nil {
			return err
		}
	}

	printLines(cmd.OutOrStdout(), paths)
	printSuccess(cmd.ErrOrStderr(), "Downloaded %d file(s) to %s", len(paths), s.handle.Local())
	return nil
}

func extractAll(ctx context.Context, w io.Writer, paths []string) error {
	am := archive.NewManager()
	for _, path := range paths {
		dest, err := am.Extract(ctx, path)
		if stderrors.Is(err, archive.ErrNotArchive) {
			logger.Debug("not an archive, left as is", logger.Fields{"path": path})
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to extract %s: %w", path, err)
		}
		printSuccess(w, "Extracted %s", dest)
	}
	return nil
}

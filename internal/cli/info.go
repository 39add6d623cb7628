package cli

import (
	"context"

	"github.com/spf13/cobra"
)

type infoFlags struct {
	projectFlags
	fileInfo bool
}

// NewInfoCmd creates the info command.
func NewInfoCmd() *cobra.Command {
	var flags infoFlags

	cmd := &cobra.Command{
		Use:   "info ID",
		Short: "Show project metadata",
		Long: `Show the title, description and protocols a repository publishes for a
project. With --file-info the repository's raw per-file metadata is printed
instead (JSON for PRIDE, CSV for MassIVE).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.Context(), cmd, &flags, args[0])
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.fileInfo, "file-info", false, "Print the raw per-file metadata")

	return cmd
}

func runInfo(ctx context.Context, cmd *cobra.Command, flags *infoFlags, id string) error {
	s, err := openProject(ctx, cmd, &flags.projectFlags, id)
	if err != nil {
		return err
	}
	defer s.close()

	if flags.fileInfo {
		data, err := s.handle.FileInfo(ctx)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	md, err := s.handle.Metadata(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printHeader(out, "%s (%s)", s.handle.ID(), s.handle.Kind())
	rows := [][]string{{fieldTitle, md.Title}, {fieldDescription, md.Description}}
	for _, row := range [][]string{
		{fieldSampleProcessingProtocol, md.SampleProcessingProtocol},
		{fieldDataProcessingProtocol, md.DataProcessingProtocol},
		{fieldDOI, md.DOI},
	} {
		if row[1] != "" {
			rows = append(rows, row)
		}
	}
	return renderTable(out, []string{"Field", "Value"}, rows)
}

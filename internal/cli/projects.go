package cli

import (
	"github.com/spf13/cobra"

	"github.com/glorpus-work/pxget/pkg/config"
	"github.com/glorpus-work/pxget/pkg/http"
	"github.com/glorpus-work/pxget/pkg/repository"
)

// NewProjectsCmd creates the projects command.
func NewProjectsCmd() *cobra.Command {
	var (
		repo    string
		timeout = config.DefaultTimeout
	)

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List all public projects of a repository",
		Long:  "Print every public project accession of PRIDE or MassIVE, sorted, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("timeout") {
				timeout = cfg.Settings.Timeout
			}

			ids, err := repository.ListProjects(cmd.Context(), repo, http.NewClient(timeout))
			if err != nil {
				return err
			}
			printLines(cmd.OutOrStdout(), ids)
			return nil
		},
	}

	cmd.Flags().StringVar(&repo, "repo", "pride", "Repository to list (pride or massive)")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", timeout, "Network timeout, 0 disables it")

	return cmd
}

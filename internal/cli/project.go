package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/pxget/internal/logger"
	"github.com/glorpus-work/pxget/pkg/config"
	"github.com/glorpus-work/pxget/pkg/hooks"
	"github.com/glorpus-work/pxget/pkg/metrics"
	"github.com/glorpus-work/pxget/pkg/project"
	"github.com/glorpus-work/pxget/pkg/repository"
	"github.com/glorpus-work/pxget/pkg/transfer"
)

// projectFlags are shared by every command that opens a project.
type projectFlags struct {
	local    string
	timeout  time.Duration
	repo     string
	fetch    bool
	maxDepth int
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.local, "local", "l", "", "Project directory (default: <data dir>/<ID>)")
	cmd.Flags().DurationVarP(&f.timeout, "timeout", "t", config.DefaultTimeout, "Network timeout, 0 disables it")
	cmd.Flags().StringVar(&f.repo, "repo", "", "Force the repository (pride or massive)")
	cmd.Flags().BoolVar(&f.fetch, "fetch", false, "Refresh cached metadata and listings")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", config.DefaultMaxDepth, "Maximum remote directory depth, -1 for no limit")
}

// apply fills in config values for flags the user did not set.
func (f *projectFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if !cmd.Flags().Changed("timeout") {
		f.timeout = cfg.Settings.Timeout
	}
	if !cmd.Flags().Changed("max-depth") {
		f.maxDepth = cfg.Settings.MaxDepth
	}
}

// session is an opened project together with the per-run collaborators.
type session struct {
	cfg      *config.Config
	handle   *project.Handle
	recorder *metrics.Recorder
	hooks    *hooks.DefaultHookManager
}

// openProject resolves id and opens its project directory.
func openProject(ctx context.Context, cmd *cobra.Command, flags *projectFlags, id string) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	flags.apply(cmd, cfg)

	dataDir, err := cfg.EnsureDataDir()
	if err != nil {
		return nil, err
	}

	manager := hooks.NewHookManager()
	if err := hooks.LoadHookFile(manager, hooks.PostDownload, cfg.Hooks.PostDownload); err != nil {
		return nil, err
	}

	recorder := metrics.New()
	backend, err := repository.Find(ctx, id, repository.FindOptions{
		Repo: flags.repo,
		Options: repository.Options{
			Local:         flags.local,
			CacheRoot:     dataDir,
			Fetch:         flags.fetch,
			Timeout:       flags.timeout,
			MaxReconnects: cfg.Settings.MaxReconnects,
			Connection:    []transfer.Option{transfer.WithHooks(recorder.Hooks())},
		},
	})
	if err != nil {
		return nil, err
	}

	handle, err := project.Open(ctx, backend, project.Options{Fetch: flags.fetch, MaxDepth: flags.maxDepth})
	if err != nil {
		return nil, err
	}
	logger.Debug("opened project", logger.Fields{
		"id":         handle.ID(),
		"repository": handle.Kind(),
		"local":      handle.Local(),
	})
	return &session{cfg: cfg, handle: handle, recorder: recorder, hooks: manager}, nil
}

// close writes the run's metrics when a metrics file is configured.
func (s *session) close() {
	path := s.cfg.Settings.MetricsFile
	if path == "" {
		return
	}
	if err := s.recorder.WriteTextfile(path); err != nil {
		logger.Warn("failed to write metrics", logger.Fields{"path": path, "error": err})
	}
}

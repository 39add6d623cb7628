package hooks

import (
	"os"
	"sync"

	"github.com/glorpus-work/pxget/internal/logger"
	"github.com/glorpus-work/pxget/pkg/errors"
)

// DefaultHookManager is the default implementation of HookManager.
type DefaultHookManager struct {
	executor *TengoExecutor
	mutex    sync.RWMutex
}

// NewHookManager creates a new hook manager.
func NewHookManager() *DefaultHookManager {
	return &DefaultHookManager{
		executor: NewTengoExecutor(),
	}
}

// Execute runs the specified hook type with the given context.
func (m *DefaultHookManager) Execute(hookType HookType, ctx HookContext) error {
	if !m.HasHook(hookType) {
		return nil
	}

	ctxCopy := ctx
	if ctxCopy.Vars == nil {
		ctxCopy.Vars = make(map[string]interface{})
	}

	return m.executor.Execute(hookType, ctxCopy)
}

// AddHook adds a new hook.
func (m *DefaultHookManager) AddHook(hook Hook) error {
	if hook.Type == "" {
		return ErrHookTypeEmpty
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.executor.AddScript(hook.Type, hook.Content)
	return nil
}

// RemoveHook removes a hook of the specified type.
func (m *DefaultHookManager) RemoveHook(hookType HookType) error {
	if hookType == "" {
		return ErrHookTypeEmpty
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.executor.RemoveScript(hookType)
	return nil
}

// HasHook checks if a hook of the specified type exists.
func (m *DefaultHookManager) HasHook(hookType HookType) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.executor.HasScript(hookType)
}

// RunPostDownload executes the post-download hook for each downloaded file.
// remote and local are parallel slices as returned by a download batch.
// The first failing file stops the run.
func RunPostDownload(manager HookManager, identifier string, remote, local []string) error {
	if !manager.HasHook(PostDownload) {
		return nil
	}
	for i, path := range local {
		info, err := os.Stat(path)
		if err != nil {
			return errors.Wrapf(err, "post-download hook for %s", path)
		}
		logger.Debug("running post-download hook", logger.Fields{"path": remote[i]})
		err = manager.Execute(PostDownload, HookContext{
			Identifier: identifier,
			RemotePath: remote[i],
			LocalPath:  path,
			Size:       info.Size(),
		})
		if err != nil {
			return errors.Wrapf(err, "post-download hook for %s", remote[i])
		}
	}
	return nil
}

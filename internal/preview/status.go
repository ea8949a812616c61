package preview

import (
	"sync"

	"git.home.luguber.info/inful/sitebook/internal/build"
)

// buildStatus tracks the latest build result for /healthz.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	lastReport   *build.BuildReport
	hasGoodBuild bool // true if at least one successful build exists
}

func (bs *buildStatus) record(report *build.BuildReport, err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
	if report != nil {
		bs.lastReport = report
	}
	if err == nil {
		bs.hasGoodBuild = true
	}
}

func (bs *buildStatus) get() (report *build.BuildReport, err error, hasGoodBuild bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastReport, bs.lastError, bs.hasGoodBuild
}

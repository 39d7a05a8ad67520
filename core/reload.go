package core

import (
	"sync"

	"go.uber.org/zap"

	"github.com/jdelaire/gymbot/core/policy"
)

// Reloader rebuilds the allow-list when its file changes. The ids from
// configuration are always kept; the file adds to them.
type Reloader struct {
	policy *policy.Policy
	logger *zap.Logger

	mu   sync.Mutex
	base []string
}

// NewReloader creates a reloader for pol. base holds the configured ids.
func NewReloader(pol *policy.Policy, base []string, logger *zap.Logger) *Reloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reloader{
		policy: pol,
		logger: logger,
		base:   append([]string(nil), base...),
	}
}

// ReloadAllowlist reads path and replaces the policy's ids with the
// configured ids plus those in the file. A file that cannot be read leaves
// the current list untouched.
func (r *Reloader) ReloadAllowlist(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids, err := policy.LoadFile(path)
	if err != nil {
		r.logger.Error("reload allow-list failed", zap.String("path", path), zap.Error(err))
		return
	}

	merged := make([]string, 0, len(r.base)+len(ids))
	merged = append(merged, r.base...)
	merged = append(merged, ids...)
	r.policy.Replace(merged)

	r.logger.Info("allow-list reloaded", zap.String("path", path), zap.Int("count", r.policy.Len()))
}

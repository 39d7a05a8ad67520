package policy

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Policy authorizes senders against an allow-list of canonical ids.
// An empty allow-list rejects everyone.
type Policy struct {
	mu      sync.RWMutex
	allowed map[string]bool
	logger  *zap.Logger
}

// New creates a Policy that authorizes only the given ids. Ids are
// canonicalized, so "628123@c.us" and "628123" are equivalent.
func New(ids []string, logger *zap.Logger) *Policy {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Policy{logger: logger}
	p.Replace(ids)
	return p
}

// Replace swaps the allow-list. Safe to call while messages are handled.
func (p *Policy) Replace(ids []string) {
	allowed := make(map[string]bool, len(ids))
	for _, id := range ids {
		if c := CanonicalID(id); c != "" {
			allowed[c] = true
		}
	}

	p.mu.Lock()
	p.allowed = allowed
	p.mu.Unlock()
}

// Len returns the number of allowed ids.
func (p *Policy) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.allowed)
}

// IsAllowed reports whether the sender may use the bot.
func (p *Policy) IsAllowed(senderID string) bool {
	id := CanonicalID(senderID)

	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(p.allowed) == 0 {
		p.logger.Warn("allow-list is empty, rejecting sender", zap.String("sender", senderID))
		return false
	}

	ok := p.allowed[id]
	p.logger.Debug("checked sender", zap.String("sender", senderID), zap.String("id", id), zap.Bool("allowed", ok))
	return ok
}

// CanonicalID strips everything from the first "@" onward and trims spaces.
func CanonicalID(raw string) string {
	if at := strings.IndexByte(raw, '@'); at != -1 {
		raw = raw[:at]
	}
	return strings.TrimSpace(raw)
}

// ParseList splits a comma or newline separated list of ids, dropping blanks
// and "#" comment lines.
func ParseList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})

	ids := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" || strings.HasPrefix(f, "#") {
			continue
		}
		ids = append(ids, f)
	}
	return ids
}

// LoadFile reads ids from an allow-list file in ParseList format.
func LoadFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read allow-list %s: %w", path, err)
	}
	return ParseList(string(data)), nil
}

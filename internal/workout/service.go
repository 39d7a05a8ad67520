package workout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jdelaire/gymbot/internal/localtime"
)

// DefaultListLimit is used when no limit is configured.
const DefaultListLimit = 10

var (
	ErrMissingField  = errors.New("missing required field")
	ErrInvalidNumber = errors.New("invalid number")
)

// Entry is a validated workout before it is stored.
type Entry struct {
	Type   string
	Reps   int
	Sets   int
	Weight int
}

// ParseEntry validates the key/value fields of a #workout command.
// type, reps and sets are required; weight defaults to 0 (bodyweight).
func ParseEntry(fields map[string]string) (Entry, error) {
	for _, key := range []string{"type", "reps", "sets"} {
		if fields[key] == "" {
			return Entry{}, fmt.Errorf("%w: %s", ErrMissingField, key)
		}
	}

	reps, err := positive(fields["reps"])
	if err != nil {
		return Entry{}, fmt.Errorf("reps: %w", err)
	}
	sets, err := positive(fields["sets"])
	if err != nil {
		return Entry{}, fmt.Errorf("sets: %w", err)
	}

	weight := 0
	if raw, ok := fields["weight"]; ok {
		raw = strings.TrimSpace(strings.TrimSuffix(strings.ToLower(raw), "kg"))
		weight, err = strconv.Atoi(raw)
		if err != nil || weight < 0 {
			return Entry{}, fmt.Errorf("weight: %w", ErrInvalidNumber)
		}
	}

	return Entry{
		Type:   fields["type"],
		Reps:   reps,
		Sets:   sets,
		Weight: weight,
	}, nil
}

func positive(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, ErrInvalidNumber
	}
	return n, nil
}

// Service logs and lists workouts.
type Service struct {
	store     *Store
	clock     *localtime.Clock
	listLimit int
}

func NewService(store *Store, clock *localtime.Clock, listLimit int) *Service {
	if listLimit <= 0 {
		listLimit = DefaultListLimit
	}
	return &Service{store: store, clock: clock, listLimit: listLimit}
}

// Clock returns the service's clock.
func (s *Service) Clock() *localtime.Clock {
	return s.clock
}

// Log stores e for user, stamped with the current UTC time.
func (s *Service) Log(ctx context.Context, user string, e Entry) (Record, error) {
	return s.store.Insert(ctx, Record{
		User:      user,
		Type:      e.Type,
		Reps:      e.Reps,
		Sets:      e.Sets,
		Weight:    e.Weight,
		CreatedAt: s.clock.Now(),
	})
}

// Recent returns the user's latest workouts, newest first.
func (s *Service) Recent(ctx context.Context, user string) ([]Record, error) {
	return s.store.Recent(ctx, user, s.listLimit)
}

package workout

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdelaire/gymbot/internal/db"
	"github.com/jdelaire/gymbot/internal/localtime"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Open(ctx, filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.Migrate(ctx, conn, Schema))
	return NewStore(conn)
}

func clockAt(now *time.Time) *localtime.Clock {
	return localtime.New(420).WithClock(func() time.Time { return *now })
}

func TestParseEntry(t *testing.T) {
	e, err := ParseEntry(map[string]string{"type": "push up", "reps": "20", "sets": "4", "weight": "10"})
	require.NoError(t, err)
	assert.Equal(t, Entry{Type: "push up", Reps: 20, Sets: 4, Weight: 10}, e)

	e, err = ParseEntry(map[string]string{"type": "pull up", "reps": "8", "sets": "3"})
	require.NoError(t, err)
	assert.Equal(t, 0, e.Weight)

	e, err = ParseEntry(map[string]string{"type": "squat", "reps": "5", "sets": "5", "weight": "60 KG"})
	require.NoError(t, err)
	assert.Equal(t, 60, e.Weight)
}

func TestParseEntryRejects(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		want   error
	}{
		{"missing type", map[string]string{"reps": "1", "sets": "1"}, ErrMissingField},
		{"missing reps", map[string]string{"type": "x", "sets": "1"}, ErrMissingField},
		{"missing sets", map[string]string{"type": "x", "reps": "1"}, ErrMissingField},
		{"zero reps", map[string]string{"type": "x", "reps": "0", "sets": "1"}, ErrInvalidNumber},
		{"negative sets", map[string]string{"type": "x", "reps": "1", "sets": "-2"}, ErrInvalidNumber},
		{"text reps", map[string]string{"type": "x", "reps": "ten", "sets": "1"}, ErrInvalidNumber},
		{"negative weight", map[string]string{"type": "x", "reps": "1", "sets": "1", "weight": "-5"}, ErrInvalidNumber},
		{"text weight", map[string]string{"type": "x", "reps": "1", "sets": "1", "weight": "heavy"}, ErrInvalidNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEntry(tt.fields)
			assert.True(t, errors.Is(err, tt.want), "err = %v, want %v", err, tt.want)
		})
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC)
	svc := NewService(newTestStore(t), clockAt(&now), 10)

	rec, err := svc.Log(ctx, "628111@c.us", Entry{Type: "push up", Reps: 20, Sets: 4, Weight: 10})
	require.NoError(t, err)
	assert.Positive(t, rec.ID)

	got, err := svc.Recent(ctx, "628111@c.us")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rec.ID, got[0].ID)
	assert.Equal(t, "push up", got[0].Type)
	assert.Equal(t, 20, got[0].Reps)
	assert.Equal(t, 4, got[0].Sets)
	assert.Equal(t, 10, got[0].Weight)
	assert.True(t, now.Equal(got[0].CreatedAt))
}

func TestRecentNewestFirstLimitedPerUser(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC)
	svc := NewService(newTestStore(t), clockAt(&now), 3)

	for i := 1; i <= 5; i++ {
		_, err := svc.Log(ctx, "628111", Entry{Type: "set", Reps: i, Sets: 1})
		require.NoError(t, err)
		now = now.Add(time.Minute)
	}
	_, err := svc.Log(ctx, "628222", Entry{Type: "other", Reps: 1, Sets: 1})
	require.NoError(t, err)

	got, err := svc.Recent(ctx, "628111")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int{5, 4, 3}, []int{got[0].Reps, got[1].Reps, got[2].Reps})

	ids := []int64{got[0].ID, got[1].ID, got[2].ID}
	assert.Greater(t, ids[0], ids[1])
	assert.Greater(t, ids[1], ids[2])
}

func TestRecentEmpty(t *testing.T) {
	now := time.Now()
	svc := NewService(newTestStore(t), clockAt(&now), 0)

	got, err := svc.Recent(context.Background(), "628111")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, DefaultListLimit, svc.listLimit)
}

func TestFormatList(t *testing.T) {
	now := time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC) // 10:00 local
	clock := clockAt(&now)

	assert.Equal(t, EmptyListMessage, FormatList(nil, clock))

	out := FormatList([]Record{
		{Type: "push up", Reps: 20, Sets: 4, Weight: 10, CreatedAt: now},
		{Type: "pull up", Reps: 8, Sets: 3, Weight: 0, CreatedAt: now.Add(-24 * time.Hour)},
		{Type: "squat", Reps: 5, Sets: 5, Weight: 60, CreatedAt: now.Add(-72 * time.Hour)},
	}, clock)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Recent work 💪", lines[0])
	assert.Equal(t, "• Today – push up | 20 × 4 @ 10kg", lines[2])
	assert.Equal(t, "• Yesterday – pull up | 8 × 3 @ bodyweight", lines[3])
	assert.Equal(t, "• 2025/03/07 – squat | 5 × 5 @ 60kg", lines[4])
}

func TestFormatLogged(t *testing.T) {
	out := FormatLogged(Record{Type: "push up", Reps: 20, Sets: 4, Weight: 10}, localtime.BandMidday)

	assert.Contains(t, out, "20 × 4")
	assert.Contains(t, out, "10kg")
	assert.Contains(t, out, "push up")
	assert.True(t, strings.HasSuffix(out, BandMessage(localtime.BandMidday)))
}

func TestBandMessagesDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, b := range []localtime.Band{localtime.BandEarly, localtime.BandMidday, localtime.BandAfterHours, localtime.BandLate} {
		msg := BandMessage(b)
		require.NotEmpty(t, msg)
		assert.False(t, seen[msg])
		seen[msg] = true
	}
}

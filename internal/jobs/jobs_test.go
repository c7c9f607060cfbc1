package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"quezon.gov.ph/portal/internal/metrics"
)

type fakeCleaner struct {
	removed int
	err     error
	calls   int
}

func (f *fakeCleaner) CleanupOrphanUploads(ctx context.Context) (int, error) {
	f.calls++
	return f.removed, f.err
}

type fakeReindexer struct{ calls int }

func (f *fakeReindexer) Reindex(ctx context.Context) error {
	f.calls++
	return nil
}

func TestRegisterAndRunNow(t *testing.T) {
	cleaner := &fakeCleaner{removed: 3}
	reindexer := &fakeReindexer{}

	s := NewScheduler()
	require.NoError(t, s.Register(CleanupJob(cleaner)))
	require.NoError(t, s.Register(ReindexJob(reindexer)))
	assert.Equal(t, []string{"orphan-upload-cleanup", "search-reindex"}, s.Names())

	require.NoError(t, s.RunNow(context.Background(), "orphan-upload-cleanup"))
	require.NoError(t, s.RunNow(context.Background(), "search-reindex"))
	assert.Equal(t, 1, cleaner.calls)
	assert.Equal(t, 1, reindexer.calls)

	assert.Error(t, s.RunNow(context.Background(), "unknown"))
}

func TestCleanupJobLeavesCountingToCleaner(t *testing.T) {
	before := testutil.ToFloat64(metrics.OrphanUploadsRemoved)
	require.NoError(t, CleanupJob(&fakeCleaner{removed: 2}).Run(context.Background()))
	assert.Equal(t, before, testutil.ToFloat64(metrics.OrphanUploadsRemoved))
}

func TestCleanupErrorPropagates(t *testing.T) {
	cleaner := &fakeCleaner{err: errors.New("db down")}
	err := CleanupJob(cleaner).Run(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestRegisterRejectsBadSchedule(t *testing.T) {
	s := NewScheduler()
	err := s.Register(Job{Name: "broken", Schedule: "every tuesday", Run: func(context.Context) error { return nil }})
	assert.Error(t, err)
	assert.Empty(t, s.Names())
}

func TestStartStop(t *testing.T) {
	s := NewScheduler()
	require.NoError(t, s.Register(ReindexJob(&fakeReindexer{})))
	s.Start()
	s.Stop(context.Background())
}

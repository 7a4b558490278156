package scheduler

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/acca-engine/internal/config"
)

func testScheduler() *Scheduler {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewScheduler(nil, config.SchedulerConfig{TimeoutMins: 15}, log)
}

func TestSchedulePipeline(t *testing.T) {
	s := testScheduler()

	err := s.SchedulePipeline(config.SchedulerConfig{
		RefreshCron: "0 6 * * *",
		PicksCron:   "30 6 * * *",
		CombosCron:  "0 7 * * *",
	})
	require.NoError(t, err)

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.True(t, s.IsRunning())
	assert.Len(t, s.Entries(), 3)
	assert.False(t, s.GetNextRun().IsZero())
}

func TestSchedulePipelineInvalidCron(t *testing.T) {
	s := testScheduler()

	err := s.SchedulePipeline(config.SchedulerConfig{
		RefreshCron: "every day at six",
		PicksCron:   "30 6 * * *",
		CombosCron:  "0 7 * * *",
	})
	assert.Error(t, err)
}

func TestStartWithoutJobs(t *testing.T) {
	s := testScheduler()

	assert.Error(t, s.Start())
	assert.False(t, s.IsRunning())
}

func TestCannotScheduleWhileRunning(t *testing.T) {
	s := testScheduler()

	cfg := config.SchedulerConfig{
		RefreshCron: "0 6 * * *",
		PicksCron:   "30 6 * * *",
		CombosCron:  "0 7 * * *",
	}
	require.NoError(t, s.SchedulePipeline(cfg))
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Error(t, s.SchedulePipeline(cfg))
}

func TestStopIdempotent(t *testing.T) {
	s := testScheduler()

	assert.NoError(t, s.Stop())
	assert.NoError(t, s.Stop())
}

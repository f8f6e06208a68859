package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/dr-readiness/pkg/models/domain"
	"github.com/de-tools/dr-readiness/pkg/services/readiness"
)

type mockController struct{ mock.Mock }

func (m *mockController) GetSupportedChecks() []domain.CheckName {
	return domain.CheckOrder
}

func (m *mockController) CollectAll(ctx context.Context) readiness.Input {
	args := m.Called(ctx)
	return args.Get(0).(readiness.Input)
}

type mockHistory struct{ mock.Mock }

func (m *mockHistory) Add(ctx context.Context, report domain.Report) error {
	return m.Called(ctx, report).Error(0)
}

func (m *mockHistory) Get(ctx context.Context, id string) (*domain.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *mockHistory) List(ctx context.Context, limit int) ([]domain.Report, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Report), args.Error(1)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Notify(ctx context.Context, report domain.Report) error {
	return m.Called(ctx, report).Error(0)
}

var (
	testNow      = time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	testSettings = readiness.Settings{
		PrimaryRegion: "us-east-1",
		DRRegion:      "us-west-2",
		Thresholds:    domain.Thresholds{RPOMinutes: 60, ReplicaLagSeconds: 60},
	}
)

func testEvaluator() *readiness.Evaluator {
	return readiness.NewEvaluator(readiness.WithIDGenerator(func() string { return "run-1" }))
}

func TestRunner_RunOnce(t *testing.T) {
	ctx := zerolog.Nop().WithContext(context.Background())

	ctrl := new(mockController)
	ctrl.On("CollectAll", mock.Anything).Return(readiness.Input{
		domain.CheckAlarms: {Facts: []domain.FactResult{
			domain.FactOK(domain.ResourceFact{Type: domain.ResourceTypeAlarm, ID: "dr-health", State: domain.StateAlarm}),
		}},
	})

	hist := new(mockHistory)
	hist.On("Add", mock.Anything, mock.MatchedBy(func(r domain.Report) bool { return r.ID == "run-1" })).Return(nil)
	notifier := new(mockNotifier)
	notifier.On("Notify", mock.Anything, mock.Anything).Return(errors.New("topic missing"))

	runner := NewRunner(ctrl, testEvaluator(), testSettings,
		WithHistory(hist),
		WithNotifier(notifier),
		WithClock(func() time.Time { return testNow }),
	)

	res, err := runner.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.VerdictFail, res.Report.Verdict)
	assert.Equal(t, testNow, res.Report.GeneratedAt)
	assert.Equal(t, "us-west-2", res.Report.DRRegion)
	assert.Len(t, res.Input, 1)

	ctrl.AssertExpectations(t)
	hist.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestRunner_RunOnce_WithoutOptionalServices(t *testing.T) {
	ctrl := new(mockController)
	ctrl.On("CollectAll", mock.Anything).Return(readiness.Input{})

	res, err := NewRunner(ctrl, testEvaluator(), testSettings).RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.VerdictWarning, res.Report.Verdict)
	assert.Equal(t, 6, res.Report.WarningCount)
}

func TestScheduler_KeepsLatestReport(t *testing.T) {
	ctrl := new(mockController)
	ctrl.On("CollectAll", mock.Anything).Return(readiness.Input{})

	runner := NewRunner(ctrl, testEvaluator(), testSettings, WithClock(func() time.Time { return testNow }))
	scheduler := NewScheduler(runner, time.Hour)

	_, ok := scheduler.Latest()
	assert.False(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	go scheduler.Run(ctx)

	require.Eventually(t, func() bool {
		_, ok := scheduler.Latest()
		return ok
	}, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case <-scheduler.Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}

	latest, ok := scheduler.Latest()
	require.True(t, ok)
	assert.Equal(t, "run-1", latest.ID)
}

package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/dr-readiness/pkg/models/domain"
)

type mockCollector struct {
	mock.Mock
	check domain.CheckName
}

func (m *mockCollector) GetCheck() domain.CheckName {
	return m.check
}

func (m *mockCollector) Collect(ctx context.Context) ([]domain.FactResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FactResult), args.Error(1)
}

func TestNewController_Validation(t *testing.T) {
	_, err := NewController()
	assert.Error(t, err)

	_, err = NewController(&mockCollector{check: domain.CheckAlarms}, &mockCollector{check: domain.CheckAlarms})
	assert.ErrorContains(t, err, "duplicate collector")
}

func TestController_GetSupportedChecks(t *testing.T) {
	ctrl, err := NewController(
		&mockCollector{check: domain.CheckAlarms},
		&mockCollector{check: domain.CheckVolumes},
		&mockCollector{check: domain.CheckTables},
	)
	require.NoError(t, err)
	assert.Equal(t, []domain.CheckName{domain.CheckVolumes, domain.CheckTables, domain.CheckAlarms}, ctrl.GetSupportedChecks())
}

func TestController_CollectAll(t *testing.T) {
	ctx := zerolog.Nop().WithContext(context.Background())

	volumes := &mockCollector{check: domain.CheckVolumes}
	volumes.On("Collect", mock.Anything).Return([]domain.FactResult{
		domain.FactOK(domain.ResourceFact{Type: domain.ResourceTypeVolume, ID: "vol-1"}),
	}, nil)

	buckets := &mockCollector{check: domain.CheckBuckets}
	buckets.On("Collect", mock.Anything).Return(nil, errors.New("access denied"))

	ctrl, err := NewController(volumes, buckets)
	require.NoError(t, err)

	input := ctrl.CollectAll(ctx)
	require.Len(t, input, 2)

	assert.NoError(t, input[domain.CheckVolumes].Err)
	require.Len(t, input[domain.CheckVolumes].Facts, 1)
	assert.Equal(t, "vol-1", input[domain.CheckVolumes].Facts[0].Fact.ID)

	assert.ErrorContains(t, input[domain.CheckBuckets].Err, "access denied")
	assert.Empty(t, input[domain.CheckBuckets].Facts)

	volumes.AssertExpectations(t)
	buckets.AssertExpectations(t)
}

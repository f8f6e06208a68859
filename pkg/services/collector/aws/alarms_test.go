package aws

import (
	"context"
	"errors"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/dr-readiness/pkg/models/domain"
)

func TestAlarmCollector_Collect(t *testing.T) {
	client := new(mockCloudWatch)
	client.On("DescribeAlarms", mock.Anything, &cloudwatch.DescribeAlarmsInput{AlarmNamePrefix: awssdk.String("prod-dr-")}).
		Return(&cloudwatch.DescribeAlarmsOutput{
			MetricAlarms: []types.MetricAlarm{
				{AlarmName: awssdk.String("prod-dr-replica-lag"), StateValue: types.StateValueAlarm, MetricName: awssdk.String("ReplicaLag")},
			},
			NextToken: awssdk.String("next"),
		}, nil)
	client.On("DescribeAlarms", mock.Anything, &cloudwatch.DescribeAlarmsInput{AlarmNamePrefix: awssdk.String("prod-dr-"), NextToken: awssdk.String("next")}).
		Return(&cloudwatch.DescribeAlarmsOutput{
			MetricAlarms: []types.MetricAlarm{
				{AlarmName: awssdk.String("prod-dr-health"), StateValue: types.StateValueInsufficientData},
			},
		}, nil)

	c := newAlarmCollector(client, "prod-dr-")
	assert.Equal(t, domain.CheckAlarms, c.GetCheck())

	facts, err := c.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, facts, 2)
	assert.Equal(t, domain.StateAlarm, facts[0].Fact.State)
	assert.Equal(t, "ReplicaLag", facts[0].Fact.Artifact)
	assert.Equal(t, domain.StateInsufficientData, facts[1].Fact.State)
	client.AssertExpectations(t)
}

func TestAlarmCollector_NoPrefix(t *testing.T) {
	client := new(mockCloudWatch)
	client.On("DescribeAlarms", mock.Anything, &cloudwatch.DescribeAlarmsInput{}).
		Return(&cloudwatch.DescribeAlarmsOutput{}, nil)

	facts, err := newAlarmCollector(client, "").Collect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, facts)
	client.AssertExpectations(t)
}

func TestAlarmCollector_DescribeFails(t *testing.T) {
	client := new(mockCloudWatch)
	client.On("DescribeAlarms", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	_, err := newAlarmCollector(client, "dr-").Collect(context.Background())
	assert.Error(t, err)
}

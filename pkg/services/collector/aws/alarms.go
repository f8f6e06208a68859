package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"

	"github.com/de-tools/dr-readiness/pkg/models/domain"
)

type AlarmsAPI interface {
	DescribeAlarms(ctx context.Context, params *cloudwatch.DescribeAlarmsInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.DescribeAlarmsOutput, error)
}

type alarmCollector struct {
	client AlarmsAPI
	prefix string
}

func NewAlarmCollector(cfg awssdk.Config, prefix string) *alarmCollector {
	return newAlarmCollector(cloudwatch.NewFromConfig(cfg), prefix)
}

func newAlarmCollector(client AlarmsAPI, prefix string) *alarmCollector {
	return &alarmCollector{client: client, prefix: prefix}
}

func (c *alarmCollector) GetCheck() domain.CheckName {
	return domain.CheckAlarms
}

// Collect reports the metric alarms whose names start with the configured
// prefix, or all metric alarms when there is none.
func (c *alarmCollector) Collect(ctx context.Context) ([]domain.FactResult, error) {
	var facts []domain.FactResult
	var token *string
	for {
		resp, err := c.client.DescribeAlarms(ctx, &cloudwatch.DescribeAlarmsInput{
			AlarmNamePrefix: prefixOrNil(c.prefix),
			NextToken:       token,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to describe CloudWatch alarms: %w", err)
		}
		for _, alarm := range resp.MetricAlarms {
			facts = append(facts, domain.FactOK(domain.ResourceFact{
				Type:      domain.ResourceTypeAlarm,
				ID:        awssdk.ToString(alarm.AlarmName),
				Timestamp: alarm.StateUpdatedTimestamp,
				State:     string(alarm.StateValue),
				Artifact:  awssdk.ToString(alarm.MetricName),
			}))
		}
		if awssdk.ToString(resp.NextToken) == "" {
			break
		}
		token = resp.NextToken
	}
	return facts, nil
}

func prefixOrNil(prefix string) *string {
	if prefix == "" {
		return nil
	}
	return awssdk.String(prefix)
}

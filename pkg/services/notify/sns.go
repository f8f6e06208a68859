package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/rs/zerolog"

	"github.com/de-tools/dr-readiness/pkg/models/domain"
)

// SNS subjects are limited to 100 characters.
const maxSubjectLength = 100

type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Notifier publishes readiness reports that need operator attention.
type Notifier interface {
	Notify(ctx context.Context, report domain.Report) error
}

type snsNotifier struct {
	client   SNSAPI
	topicARN string
}

func NewSNSNotifier(cfg awssdk.Config, topicARN string) Notifier {
	return newSNSNotifier(sns.NewFromConfig(cfg), topicARN)
}

func newSNSNotifier(client SNSAPI, topicARN string) *snsNotifier {
	return &snsNotifier{client: client, topicARN: topicARN}
}

// Notify publishes the report summary unless the report passed.
func (n *snsNotifier) Notify(ctx context.Context, report domain.Report) error {
	logger := zerolog.Ctx(ctx)
	if report.Verdict == domain.VerdictPass {
		logger.Debug().Str("report_id", report.ID).Msg("report passed, skipping notification")
		return nil
	}

	out, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: awssdk.String(n.topicARN),
		Subject:  awssdk.String(Subject(report)),
		Message:  awssdk.String(Message(report)),
	})
	if err != nil {
		return fmt.Errorf("failed to publish readiness report: %w", err)
	}

	logger.Info().
		Str("report_id", report.ID).
		Str("message_id", awssdk.ToString(out.MessageId)).
		Msg("published readiness report")
	return nil
}

func Subject(report domain.Report) string {
	subject := fmt.Sprintf("DR Readiness %s: %s -> %s", report.Verdict, report.PrimaryRegion, report.DRRegion)
	if len(subject) > maxSubjectLength {
		subject = subject[:maxSubjectLength]
	}
	return subject
}

func Message(report domain.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "DR readiness check %s completed at %s\n", report.ID, report.GeneratedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Verdict: %s (critical: %d, warnings: %d)\n", report.Verdict, report.CriticalCount, report.WarningCount)

	if len(report.Critical) > 0 {
		b.WriteString("\nCritical issues:\n")
		for _, issue := range report.Critical {
			fmt.Fprintf(&b, "  - %s\n", issue.Message)
		}
	}
	if len(report.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, issue := range report.Warnings {
			fmt.Fprintf(&b, "  - %s\n", issue.Message)
		}
	}
	return b.String()
}

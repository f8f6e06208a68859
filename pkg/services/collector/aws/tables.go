package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"

	"github.com/de-tools/dr-readiness/pkg/models/domain"
)

type DynamoDBAPI interface {
	ListGlobalTables(ctx context.Context, params *dynamodb.ListGlobalTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListGlobalTablesOutput, error)
	ListTables(ctx context.Context, params *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

type tableCollector struct {
	client DynamoDBAPI
}

func NewTableCollector(cfg awssdk.Config) *tableCollector {
	return newTableCollector(dynamodb.NewFromConfig(cfg))
}

func newTableCollector(client DynamoDBAPI) *tableCollector {
	return &tableCollector{client: client}
}

func (c *tableCollector) GetCheck() domain.CheckName {
	return domain.CheckTables
}

// Collect prefers legacy (2017.11.29) global tables and falls back to
// describing every table's replicas when there are none.
func (c *tableCollector) Collect(ctx context.Context) ([]domain.FactResult, error) {
	global, err := c.client.ListGlobalTables(ctx, &dynamodb.ListGlobalTablesInput{})
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("global tables unavailable, falling back to table replicas")
	} else if len(global.GlobalTables) > 0 {
		return globalTableFacts(global.GlobalTables), nil
	}

	var names []string
	var start *string
	for {
		resp, err := c.client.ListTables(ctx, &dynamodb.ListTablesInput{ExclusiveStartTableName: start})
		if err != nil {
			return nil, fmt.Errorf("failed to list DynamoDB tables: %w", err)
		}
		names = append(names, resp.TableNames...)
		if awssdk.ToString(resp.LastEvaluatedTableName) == "" {
			break
		}
		start = resp.LastEvaluatedTableName
	}

	facts := make([]domain.FactResult, 0, len(names))
	for _, name := range names {
		resp, err := c.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: awssdk.String(name)})
		if err != nil {
			facts = append(facts, domain.FactErr(domain.ResourceTypeTable, name, err))
			continue
		}

		fact := domain.ResourceFact{Type: domain.ResourceTypeTable, ID: name}
		if resp.Table != nil {
			for _, r := range resp.Table.Replicas {
				status := string(r.ReplicaStatus)
				if status == "" {
					status = "UNKNOWN"
				}
				// DescribeTable reports no replica update time, so UpdatedAt stays empty
				fact.Replicas = append(fact.Replicas, domain.ReplicaStatus{
					Region: awssdk.ToString(r.RegionName),
					Status: status,
				})
			}
		}
		facts = append(facts, domain.FactOK(fact))
	}
	return facts, nil
}

// Legacy global table replicas report no status and are treated as active.
func globalTableFacts(tables []types.GlobalTable) []domain.FactResult {
	facts := make([]domain.FactResult, 0, len(tables))
	for _, gt := range tables {
		fact := domain.ResourceFact{
			Type: domain.ResourceTypeTable,
			ID:   awssdk.ToString(gt.GlobalTableName),
		}
		for _, r := range gt.ReplicationGroup {
			region := awssdk.ToString(r.RegionName)
			fact.ReplicaRegions = append(fact.ReplicaRegions, region)
			fact.Replicas = append(fact.Replicas, domain.ReplicaStatus{Region: region, Status: domain.StateActive})
		}
		facts = append(facts, domain.FactOK(fact))
	}
	return facts
}

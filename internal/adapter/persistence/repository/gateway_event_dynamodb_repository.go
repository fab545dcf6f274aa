package repository

import (
	"context"

	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
	"github.com/NMHx2005/lms-backend-sub006/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
)

type gatewayEventItem struct {
	ID         string `dynamodbav:"id"`
	Gateway    string `dynamodbav:"gateway"`
	Kind       string `dynamodbav:"kind"`
	TxnRef     string `dynamodbav:"txn_ref"`
	Outcome    string `dynamodbav:"outcome"`
	Reason     string `dynamodbav:"reason,omitempty"`
	RawQuery   string `dynamodbav:"raw_query"`
	ReceivedAt string `dynamodbav:"received_at"`
}

// GatewayEventDynamoRepository appends inbound gateway deliveries (PK: id).
type GatewayEventDynamoRepository struct {
	ddb       dynamoAPI
	tableName string
}

var _ interfaces.IGatewayEventRepository = (*GatewayEventDynamoRepository)(nil)

func NewGatewayEventDynamoRepository(ddb dynamoAPI, tableName string) *GatewayEventDynamoRepository {
	return &GatewayEventDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *GatewayEventDynamoRepository) Create(ctx context.Context, e entities.GatewayEvent) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	av, err := attributevalue.MarshalMap(gatewayEventItem{
		ID:         e.ID,
		Gateway:    string(e.Gateway),
		Kind:       string(e.Kind),
		TxnRef:     e.TxnRef,
		Outcome:    e.Outcome,
		Reason:     e.Reason,
		RawQuery:   e.RawQuery,
		ReceivedAt: formatTime(e.ReceivedAt),
	})
	if err != nil {
		return err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	return err
}

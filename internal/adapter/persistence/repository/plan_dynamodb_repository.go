package repository

import (
	"context"

	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
	"github.com/NMHx2005/lms-backend-sub006/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type planItem struct {
	ID           string                `dynamodbav:"id"`
	Name         string                `dynamodbav:"name"`
	Price        int64                 `dynamodbav:"price"`
	Currency     string                `dynamodbav:"currency"`
	Entitlements []string              `dynamodbav:"entitlements,omitempty"`
	BillingCycle entities.BillingCycle `dynamodbav:"billing_cycle"`
	Active       bool                  `dynamodbav:"active"`
}

// PlanDynamoRepository reads the plan catalog (PK: id). Writes belong to the
// catalog owner.
type PlanDynamoRepository struct {
	ddb       dynamoAPI
	tableName string
}

var _ interfaces.IPlanRepository = (*PlanDynamoRepository)(nil)

func NewPlanDynamoRepository(ddb dynamoAPI, tableName string) *PlanDynamoRepository {
	return &PlanDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *PlanDynamoRepository) GetByID(ctx context.Context, id string) (entities.Plan, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": stringAttr(id),
		},
	})
	if err != nil {
		return entities.Plan{}, err
	}
	if len(out.Item) == 0 {
		return entities.Plan{}, nil
	}

	var it planItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Plan{}, err
	}
	return entities.Plan{
		ID:           it.ID,
		Name:         it.Name,
		Price:        it.Price,
		Currency:     it.Currency,
		Entitlements: it.Entitlements,
		BillingCycle: it.BillingCycle,
		Active:       it.Active,
	}, nil
}

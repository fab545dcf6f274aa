package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
	"github.com/NMHx2005/lms-backend-sub006/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type subscriptionItem struct {
	ID        string                `dynamodbav:"id"`
	UserID    string                `dynamodbav:"user_id"`
	PlanID    string                `dynamodbav:"plan_id"`
	Status    string                `dynamodbav:"status"`
	StartAt   string                `dynamodbav:"start_at,omitempty"`
	EndAt     string                `dynamodbav:"end_at,omitempty"`
	Snapshot  entities.PlanSnapshot `dynamodbav:"snapshot"`
	CreatedAt string                `dynamodbav:"created_at"`
	UpdatedAt string                `dynamodbav:"updated_at"`
}

// SubscriptionDynamoRepository persists Subscription entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
type SubscriptionDynamoRepository struct {
	ddb       dynamoAPI
	tableName string
}

var _ interfaces.ISubscriptionRepository = (*SubscriptionDynamoRepository)(nil)

func NewSubscriptionDynamoRepository(ddb dynamoAPI, tableName string) *SubscriptionDynamoRepository {
	return &SubscriptionDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *SubscriptionDynamoRepository) Create(ctx context.Context, s entities.Subscription) (entities.Subscription, error) {
	av, err := attributevalue.MarshalMap(toSubscriptionItem(s))
	if err != nil {
		return entities.Subscription{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return entities.Subscription{}, fmt.Errorf("subscription %s: %w", s.ID, interfaces.ErrDuplicateKey)
		}
		return entities.Subscription{}, err
	}
	return s, nil
}

func (r *SubscriptionDynamoRepository) GetByID(ctx context.Context, id string) (entities.Subscription, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": stringAttr(id),
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Subscription{}, err
	}
	if len(out.Item) == 0 {
		return entities.Subscription{}, nil
	}

	var it subscriptionItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Subscription{}, err
	}
	return fromSubscriptionItem(it), nil
}

// ActivateIfPending sets the active window on a pending subscription. applied
// is false when it was already activated or cancelled.
func (r *SubscriptionDynamoRepository) ActivateIfPending(ctx context.Context, id string, startAt, endAt, at time.Time) (entities.Subscription, bool, error) {
	if at.IsZero() {
		at = time.Now()
	}
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": stringAttr(id),
		},
		ConditionExpression: aws.String("attribute_exists(#id) AND #status = :pending"),
		UpdateExpression:    aws.String("SET #status = :active, #start_at = :start_at, #end_at = :end_at, #updated_at = :updated_at"),
		ExpressionAttributeNames: map[string]string{
			"#id":         "id",
			"#status":     "status",
			"#start_at":   "start_at",
			"#end_at":     "end_at",
			"#updated_at": "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pending":    stringAttr(string(entities.SubscriptionStatusPending)),
			":active":     stringAttr(string(entities.SubscriptionStatusActive)),
			":start_at":   stringAttr(formatTime(startAt)),
			":end_at":     stringAttr(formatTime(endAt)),
			":updated_at": stringAttr(formatTime(at)),
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return entities.Subscription{}, false, nil
		}
		return entities.Subscription{}, false, err
	}

	var it subscriptionItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Subscription{}, true, err
	}
	return fromSubscriptionItem(it), true, nil
}

func toSubscriptionItem(s entities.Subscription) subscriptionItem {
	return subscriptionItem{
		ID:        s.ID,
		UserID:    s.UserID,
		PlanID:    s.PlanID,
		Status:    string(s.Status),
		StartAt:   formatTimePtr(s.StartAt),
		EndAt:     formatTimePtr(s.EndAt),
		Snapshot:  s.Snapshot,
		CreatedAt: formatTime(s.CreatedAt),
		UpdatedAt: formatTime(s.UpdatedAt),
	}
}

func fromSubscriptionItem(it subscriptionItem) entities.Subscription {
	return entities.Subscription{
		ID:        it.ID,
		UserID:    it.UserID,
		PlanID:    it.PlanID,
		Status:    entities.SubscriptionStatus(it.Status),
		StartAt:   parseTimePtr(it.StartAt),
		EndAt:     parseTimePtr(it.EndAt),
		Snapshot:  it.Snapshot,
		CreatedAt: parseTime(it.CreatedAt),
		UpdatedAt: parseTime(it.UpdatedAt),
	}
}

package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
	"github.com/NMHx2005/lms-backend-sub006/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const billsCorrelationKeyIndex = "correlation_key-index"

type billItem struct {
	ID             string            `dynamodbav:"id"`
	CorrelationKey string            `dynamodbav:"correlation_key"`
	UserID         string            `dynamodbav:"user_id"`
	Amount         int64             `dynamodbav:"amount"`
	Currency       string            `dynamodbav:"currency"`
	Description    string            `dynamodbav:"description"`
	Status         string            `dynamodbav:"status"`
	Metadata       map[string]string `dynamodbav:"metadata"`
	CompletedAt    string            `dynamodbav:"completed_at,omitempty"`
	CreatedAt      string            `dynamodbav:"created_at"`
	UpdatedAt      string            `dynamodbav:"updated_at"`
}

// BillDynamoRepository persists Bill entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: correlation_key-index (PK: correlation_key)
type BillDynamoRepository struct {
	ddb       dynamoAPI
	tableName string
}

var _ interfaces.IBillRepository = (*BillDynamoRepository)(nil)

func NewBillDynamoRepository(ddb dynamoAPI, tableName string) *BillDynamoRepository {
	return &BillDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *BillDynamoRepository) Create(ctx context.Context, b entities.Bill) (entities.Bill, error) {
	av, err := attributevalue.MarshalMap(toBillItem(b))
	if err != nil {
		return entities.Bill{}, err
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
			return entities.Bill{}, fmt.Errorf("bill %s: %w", b.ID, interfaces.ErrDuplicateKey)
		}
		return entities.Bill{}, err
	}
	return b, nil
}

// GetByCorrelationKey returns the single bill carrying key. More than one
// match is reported as ErrDuplicateKey rather than guessed at.
func (r *BillDynamoRepository) GetByCorrelationKey(ctx context.Context, key string) (entities.Bill, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(billsCorrelationKeyIndex),
		KeyConditionExpression: aws.String("correlation_key = :key"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":key": stringAttr(key),
		},
		Limit: aws.Int32(2),
	})
	if err != nil {
		return entities.Bill{}, err
	}
	switch len(out.Items) {
	case 0:
		return entities.Bill{}, nil
	case 1:
	default:
		return entities.Bill{}, fmt.Errorf("bill correlation %s: %w", key, interfaces.ErrDuplicateKey)
	}

	var it billItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &it); err != nil {
		return entities.Bill{}, err
	}
	return fromBillItem(it), nil
}

func (r *BillDynamoRepository) CompleteIfPending(ctx context.Context, id string, metadata map[string]string, at time.Time) (entities.Bill, bool, error) {
	return r.settle(ctx, id, entities.BillStatusCompleted, metadata, at)
}

func (r *BillDynamoRepository) FailIfPending(ctx context.Context, id string, metadata map[string]string, at time.Time) (entities.Bill, bool, error) {
	return r.settle(ctx, id, entities.BillStatusFailed, metadata, at)
}

// settle moves a pending bill to status and merges metadata into the existing
// map key by key.
func (r *BillDynamoRepository) settle(
	ctx context.Context,
	id string,
	status entities.BillStatus,
	metadata map[string]string,
	at time.Time,
) (entities.Bill, bool, error) {
	if at.IsZero() {
		at = time.Now()
	}

	expr := "SET #status = :status, #updated_at = :updated_at"
	names := map[string]string{
		"#id":         "id",
		"#status":     "status",
		"#updated_at": "updated_at",
	}
	values := map[string]types.AttributeValue{
		":pending":    stringAttr(string(entities.BillStatusPending)),
		":status":     stringAttr(string(status)),
		":updated_at": stringAttr(formatTime(at)),
	}
	if status == entities.BillStatusCompleted {
		expr += ", #completed_at = :updated_at"
		names["#completed_at"] = "completed_at"
	}

	if len(metadata) > 0 {
		names["#metadata"] = "metadata"
		keys := make([]string, 0, len(metadata))
		for k := range metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			nk, vk := fmt.Sprintf("#mk%d", i), fmt.Sprintf(":mv%d", i)
			expr += fmt.Sprintf(", #metadata.%s = %s", nk, vk)
			names[nk] = k
			values[vk] = stringAttr(metadata[k])
		}
	}

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": stringAttr(id),
		},
		ConditionExpression:       aws.String("attribute_exists(#id) AND #status = :pending"),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return entities.Bill{}, false, nil
		}
		return entities.Bill{}, false, err
	}

	var it billItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Bill{}, true, err
	}
	return fromBillItem(it), true, nil
}

func toBillItem(b entities.Bill) billItem {
	md := b.Metadata
	if md == nil {
		// nested metadata paths need an existing map
		md = map[string]string{}
	}
	return billItem{
		ID:             b.ID,
		CorrelationKey: b.CorrelationKey,
		UserID:         b.UserID,
		Amount:         b.Amount,
		Currency:       b.Currency,
		Description:    b.Description,
		Status:         string(b.Status),
		Metadata:       md,
		CompletedAt:    formatTimePtr(b.CompletedAt),
		CreatedAt:      formatTime(b.CreatedAt),
		UpdatedAt:      formatTime(b.UpdatedAt),
	}
}

func fromBillItem(it billItem) entities.Bill {
	return entities.Bill{
		ID:             it.ID,
		CorrelationKey: it.CorrelationKey,
		UserID:         it.UserID,
		Amount:         it.Amount,
		Currency:       it.Currency,
		Description:    it.Description,
		Status:         entities.BillStatus(it.Status),
		Metadata:       it.Metadata,
		CompletedAt:    parseTimePtr(it.CompletedAt),
		CreatedAt:      parseTime(it.CreatedAt),
		UpdatedAt:      parseTime(it.UpdatedAt),
	}
}

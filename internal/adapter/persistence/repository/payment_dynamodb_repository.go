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

const paymentsStatusExpireIndex = "status-expire_at-index"

type paymentItem struct {
	TxnRef        string `dynamodbav:"txn_ref"`
	OrderID       string `dynamodbav:"order_id"`
	UserID        string `dynamodbav:"user_id"`
	Gateway       string `dynamodbav:"gateway"`
	Amount        int64  `dynamodbav:"amount"`
	Currency      string `dynamodbav:"currency"`
	Status        string `dynamodbav:"status"`
	TransactionNo string `dynamodbav:"transaction_no,omitempty"`
	BankCode      string `dynamodbav:"bank_code,omitempty"`
	ResponseCode  string `dynamodbav:"response_code,omitempty"`
	RawReturn     string `dynamodbav:"raw_return,omitempty"`
	RawIPN        string `dynamodbav:"raw_ipn,omitempty"`
	ClientIP      string `dynamodbav:"client_ip,omitempty"`
	OrderInfo     string `dynamodbav:"order_info,omitempty"`
	CreatedAt     string `dynamodbav:"created_at"`
	ExpireAt      string `dynamodbav:"expire_at"`
	PaidAt        string `dynamodbav:"paid_at,omitempty"`
	RefundedAt    string `dynamodbav:"refunded_at,omitempty"`
	UpdatedAt     string `dynamodbav:"updated_at"`
}

// PaymentDynamoRepository persists Payment entities in DynamoDB.
//
// Table requirements:
//   - PK: txn_ref (string)
//   - GSI: status-expire_at-index (PK: status, SK: expire_at)
type PaymentDynamoRepository struct {
	ddb       dynamoAPI
	tableName string
}

var _ interfaces.IPaymentRepository = (*PaymentDynamoRepository)(nil)

func NewPaymentDynamoRepository(ddb dynamoAPI, tableName string) *PaymentDynamoRepository {
	return &PaymentDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *PaymentDynamoRepository) Create(ctx context.Context, p entities.Payment) (entities.Payment, error) {
	av, err := attributevalue.MarshalMap(toPaymentItem(p))
	if err != nil {
		return entities.Payment{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#txn_ref)"),
		ExpressionAttributeNames: map[string]string{
			"#txn_ref": "txn_ref",
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return entities.Payment{}, fmt.Errorf("payment %s: %w", p.TxnRef, interfaces.ErrDuplicateKey)
		}
		return entities.Payment{}, err
	}
	return p, nil
}

func (r *PaymentDynamoRepository) GetByTxnRef(ctx context.Context, txnRef string) (entities.Payment, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"txn_ref": stringAttr(txnRef),
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Payment{}, err
	}
	if len(out.Item) == 0 {
		return entities.Payment{}, nil
	}

	var it paymentItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Payment{}, err
	}
	return fromPaymentItem(it), nil
}

// Transition writes t only if the stored status still equals from.
func (r *PaymentDynamoRepository) Transition(
	ctx context.Context,
	txnRef string,
	from entities.PaymentStatus,
	t entities.PaymentTransition,
) (entities.Payment, bool, error) {
	if !from.CanTransitionTo(t.To) {
		return entities.Payment{}, false, fmt.Errorf("%w: %s -> %s", entities.ErrIllegalTransition, from, t.To)
	}
	at := t.At
	if at.IsZero() {
		at = time.Now()
	}

	expr := "SET #status = :to, #updated_at = :updated_at"
	names := map[string]string{
		"#txn_ref":    "txn_ref",
		"#status":     "status",
		"#updated_at": "updated_at",
	}
	values := map[string]types.AttributeValue{
		":from":       stringAttr(string(from)),
		":to":         stringAttr(string(t.To)),
		":updated_at": stringAttr(formatTime(at)),
	}
	set := func(attr, value string) {
		if value == "" {
			return
		}
		expr += fmt.Sprintf(", #%s = :%s", attr, attr)
		names["#"+attr] = attr
		values[":"+attr] = stringAttr(value)
	}
	set("transaction_no", t.TransactionNo)
	set("bank_code", t.BankCode)
	set("response_code", t.ResponseCode)
	set("raw_ipn", t.RawIPN)
	set("paid_at", formatTimePtr(t.PaidAt))
	set("refunded_at", formatTimePtr(t.RefundedAt))

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"txn_ref": stringAttr(txnRef),
		},
		ConditionExpression:       aws.String("attribute_exists(#txn_ref) AND #status = :from"),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return entities.Payment{}, false, nil
		}
		return entities.Payment{}, false, err
	}

	var it paymentItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Payment{}, true, err
	}
	return fromPaymentItem(it), true, nil
}

// AttachRawReturn stores the first browser return payload; later ones are
// ignored.
func (r *PaymentDynamoRepository) AttachRawReturn(ctx context.Context, txnRef string, raw string) error {
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"txn_ref": stringAttr(txnRef),
		},
		ConditionExpression: aws.String("attribute_exists(#txn_ref) AND attribute_not_exists(#raw_return)"),
		UpdateExpression:    aws.String("SET #raw_return = :raw"),
		ExpressionAttributeNames: map[string]string{
			"#txn_ref":    "txn_ref",
			"#raw_return": "raw_return",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":raw": stringAttr(raw),
		},
	})
	if err != nil && !isConditionalCheckFailed(err) {
		return err
	}
	return nil
}

func (r *PaymentDynamoRepository) ListPendingExpiredBefore(ctx context.Context, before time.Time, limit int32) ([]entities.Payment, error) {
	if limit <= 0 {
		limit = 50
	}

	var (
		items []entities.Payment
		start map[string]types.AttributeValue
	)
	for {
		out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String(paymentsStatusExpireIndex),
			KeyConditionExpression: aws.String("#status = :pending AND #expire_at < :before"),
			ExpressionAttributeNames: map[string]string{
				"#status":    "status",
				"#expire_at": "expire_at",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pending": stringAttr(string(entities.PaymentStatusPending)),
				":before":  stringAttr(formatTime(before)),
			},
			Limit:             aws.Int32(limit - int32(len(items))),
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, err
		}

		for _, raw := range out.Items {
			var it paymentItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, err
			}
			items = append(items, fromPaymentItem(it))
		}

		if len(out.LastEvaluatedKey) == 0 || int32(len(items)) >= limit {
			return items, nil
		}
		start = out.LastEvaluatedKey
	}
}

func toPaymentItem(p entities.Payment) paymentItem {
	return paymentItem{
		TxnRef:        p.TxnRef,
		OrderID:       p.OrderID,
		UserID:        p.UserID,
		Gateway:       string(p.Gateway),
		Amount:        p.Amount,
		Currency:      p.Currency,
		Status:        string(p.Status),
		TransactionNo: p.TransactionNo,
		BankCode:      p.BankCode,
		ResponseCode:  p.ResponseCode,
		RawReturn:     p.RawReturn,
		RawIPN:        p.RawIPN,
		ClientIP:      p.ClientIP,
		OrderInfo:     p.OrderInfo,
		CreatedAt:     formatTime(p.CreatedAt),
		ExpireAt:      formatTime(p.ExpireAt),
		PaidAt:        formatTimePtr(p.PaidAt),
		RefundedAt:    formatTimePtr(p.RefundedAt),
		UpdatedAt:     formatTime(p.UpdatedAt),
	}
}

func fromPaymentItem(it paymentItem) entities.Payment {
	return entities.Payment{
		TxnRef:        it.TxnRef,
		OrderID:       it.OrderID,
		UserID:        it.UserID,
		Gateway:       entities.Gateway(it.Gateway),
		Amount:        it.Amount,
		Currency:      it.Currency,
		Status:        entities.PaymentStatus(it.Status),
		TransactionNo: it.TransactionNo,
		BankCode:      it.BankCode,
		ResponseCode:  it.ResponseCode,
		RawReturn:     it.RawReturn,
		RawIPN:        it.RawIPN,
		ClientIP:      it.ClientIP,
		OrderInfo:     it.OrderInfo,
		CreatedAt:     parseTime(it.CreatedAt),
		ExpireAt:      parseTime(it.ExpireAt),
		PaidAt:        parseTimePtr(it.PaidAt),
		RefundedAt:    parseTimePtr(it.RefundedAt),
		UpdatedAt:     parseTime(it.UpdatedAt),
	}
}

package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
	"github.com/NMHx2005/lms-backend-sub006/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func pendingBill() entities.Bill {
	return entities.Bill{
		ID:             "bill-1",
		CorrelationKey: testTxnRef,
		UserID:         "teacher123",
		Amount:         499000,
		Currency:       "VND",
		Status:         entities.BillStatusPending,
	}
}

func TestBillDynamoRepository_Create_WritesEmptyMetadataMap(t *testing.T) {
	ddb := &stubDynamo{}
	repo := NewBillDynamoRepository(ddb, "bills")

	if _, err := repo.Create(context.Background(), pendingBill()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := ddb.puts[0].Item["metadata"].(*types.AttributeValueMemberM); !ok {
		t.Fatalf("expected metadata map, got %#v", ddb.puts[0].Item["metadata"])
	}
}

func TestBillDynamoRepository_GetByCorrelationKey(t *testing.T) {
	item := func() map[string]types.AttributeValue {
		av, _ := attributevalue.MarshalMap(toBillItem(pendingBill()))
		return av
	}

	t.Run("single match", func(t *testing.T) {
		ddb := &stubDynamo{queryFn: func(in *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			return &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{item()}}, nil
		}}
		repo := NewBillDynamoRepository(ddb, "bills")

		b, err := repo.GetByCorrelationKey(context.Background(), testTxnRef)
		if err != nil || b.ID != "bill-1" {
			t.Fatalf("unexpected result: %+v err=%v", b, err)
		}
		if aws.ToString(ddb.queries[0].IndexName) != billsCorrelationKeyIndex {
			t.Fatalf("unexpected index")
		}
	})

	t.Run("no match", func(t *testing.T) {
		repo := NewBillDynamoRepository(&stubDynamo{}, "bills")
		b, err := repo.GetByCorrelationKey(context.Background(), testTxnRef)
		if err != nil || b.ID != "" {
			t.Fatalf("expected zero bill, got %+v err=%v", b, err)
		}
	})

	t.Run("ambiguous correlation", func(t *testing.T) {
		ddb := &stubDynamo{queryFn: func(*dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			return &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{item(), item()}}, nil
		}}
		repo := NewBillDynamoRepository(ddb, "bills")

		_, err := repo.GetByCorrelationKey(context.Background(), testTxnRef)
		if !errors.Is(err, interfaces.ErrDuplicateKey) {
			t.Fatalf("expected ErrDuplicateKey, got %v", err)
		}
	})
}

func TestBillDynamoRepository_CompleteIfPending(t *testing.T) {
	at := time.Date(2023, 11, 14, 22, 20, 0, 0, time.UTC)

	t.Run("merges metadata and stamps completion", func(t *testing.T) {
		ddb := &stubDynamo{updateFn: func(*dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error) {
			b := pendingBill()
			b.Status = entities.BillStatusCompleted
			b.CompletedAt = &at
			av, _ := attributevalue.MarshalMap(toBillItem(b))
			return &dynamodb.UpdateItemOutput{Attributes: av}, nil
		}}
		repo := NewBillDynamoRepository(ddb, "bills")

		b, applied, err := repo.CompleteIfPending(context.Background(), "bill-1", map[string]string{
			"vnp_TransactionNo": "14226112",
			"vnp_BankCode":      "NCB",
		}, at)
		if err != nil || !applied || b.Status != entities.BillStatusCompleted {
			t.Fatalf("unexpected result: %+v applied=%v err=%v", b, applied, err)
		}

		in := ddb.updates[0]
		expr := aws.ToString(in.UpdateExpression)
		if !strings.Contains(expr, "#completed_at") || !strings.Contains(expr, "#metadata.#mk0 = :mv0") {
			t.Fatalf("unexpected update expression: %s", expr)
		}
		if in.ExpressionAttributeNames["#mk0"] != "vnp_BankCode" {
			t.Fatalf("metadata keys must be written in sorted order")
		}
		if aws.ToString(in.ConditionExpression) != "attribute_exists(#id) AND #status = :pending" {
			t.Fatalf("unexpected condition: %s", aws.ToString(in.ConditionExpression))
		}
	})

	t.Run("already settled", func(t *testing.T) {
		ddb := &stubDynamo{updateFn: func(*dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error) {
			return nil, &types.ConditionalCheckFailedException{}
		}}
		repo := NewBillDynamoRepository(ddb, "bills")

		_, applied, err := repo.FailIfPending(context.Background(), "bill-1", nil, at)
		if err != nil || applied {
			t.Fatalf("expected no-op, got applied=%v err=%v", applied, err)
		}
		if strings.Contains(aws.ToString(ddb.updates[0].UpdateExpression), "#completed_at") {
			t.Fatalf("failed bills have no completion time")
		}
	})
}

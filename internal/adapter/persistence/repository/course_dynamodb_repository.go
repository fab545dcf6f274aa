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

type courseItem struct {
	ID        string `dynamodbav:"id"`
	Title     string `dynamodbav:"title"`
	Price     int64  `dynamodbav:"price"`
	Currency  string `dynamodbav:"currency"`
	Published bool   `dynamodbav:"published"`
}

type CourseDynamoRepository struct {
	ddb       dynamoAPI
	tableName string
}

var _ interfaces.ICourseRepository = (*CourseDynamoRepository)(nil)

func NewCourseDynamoRepository(ddb dynamoAPI, tableName string) *CourseDynamoRepository {
	return &CourseDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *CourseDynamoRepository) GetByID(ctx context.Context, id string) (entities.Course, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": stringAttr(id),
		},
		ProjectionExpression: aws.String("#id, #title, #price, #currency, #published"),
		ExpressionAttributeNames: map[string]string{
			"#id":        "id",
			"#title":     "title",
			"#price":     "price",
			"#currency":  "currency",
			"#published": "published",
		},
	})
	if err != nil {
		return entities.Course{}, err
	}
	if len(out.Item) == 0 {
		return entities.Course{}, nil
	}

	var it courseItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Course{}, err
	}
	return entities.Course(it), nil
}

package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dealer-api/internal/domain"
)

// TeamRepo provides typed DynamoDB operations for the team_members table.
type TeamRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewTeamRepo(client *dynamodb.Client, tableName string) *TeamRepo {
	return &TeamRepo{client: client, tableName: tableName}
}

func (r *TeamRepo) Put(ctx context.Context, m *domain.TeamMember) error {
	item, err := attributevalue.MarshalMap(m)
	if err != nil {
		return fmt.Errorf("marshal team member: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *TeamRepo) Get(ctx context.Context, memberID string) (*domain.TeamMember, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("member_id", memberID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("team member %s: %w", memberID, domain.ErrNotFound)
	}
	var m domain.TeamMember
	if err := attributevalue.UnmarshalMap(out.Item, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *TeamRepo) GetByEmail(ctx context.Context, email string) (*domain.TeamMember, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("email-index"),
		KeyConditionExpression: aws.String("#e = :email"),
		ExpressionAttributeNames: map[string]string{
			"#e": "email",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: email},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("team member with email %s: %w", email, domain.ErrNotFound)
	}
	var m domain.TeamMember
	if err := attributevalue.UnmarshalMap(out.Items[0], &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *TeamRepo) Scan(ctx context.Context) ([]domain.TeamMember, error) {
	var members []domain.TeamMember
	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var page []domain.TeamMember
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		members = append(members, page...)
	}
	return members, nil
}

func (r *TeamRepo) Delete(ctx context.Context, memberID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("member_id", memberID),
	})
	return err
}

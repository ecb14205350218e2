package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-event-tickets/internal/domain"
)

// ParticipantRepo provides typed DynamoDB operations for the participants table.
// PK: participant_id, GSI email-index on email.
type ParticipantRepo struct {
	client    API
	tableName string
}

func NewParticipantRepo(client API, tableName string) *ParticipantRepo {
	return &ParticipantRepo{client: client, tableName: tableName}
}

func (r *ParticipantRepo) Put(ctx context.Context, p *domain.Participant) error {
	p.NameLower = strings.ToLower(p.Name)
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal participant: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// GetByEmail returns the first participant registered under email.
func (r *ParticipantRepo) GetByEmail(ctx context.Context, email string) (*domain.Participant, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(indexEmail),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": fieldEmail},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: email}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("participant not found: %w", domain.ErrNotFound)
	}
	var p domain.Participant
	if err := attributevalue.UnmarshalMap(out.Items[0], &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkPaid flips payment_status to paid, records the ticket URL and stamps
// updated_at with paidAt.
// The write is conditional on the item existing so a racing delete cannot
// resurrect a partial record.
func (r *ParticipantRepo) MarkPaid(ctx context.Context, participantID, ticketURL string, paidAt time.Time) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldPaymentStatus: domain.PaymentPaid,
		fieldTicketURL:     ticketURL,
		fieldUpdatedAt:     paidAt.UTC(),
	})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldParticipantID, participantID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(" + fieldParticipantID + ")"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("participant %s: %w", participantID, domain.ErrNotFound)
		}
		return err
	}
	return nil
}

// SearchByName scans the table for participants whose lower-cased name
// contains query. An empty query returns every participant.
func (r *ParticipantRepo) SearchByName(ctx context.Context, query string) ([]domain.Participant, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(r.tableName)}
	if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
		input.FilterExpression = aws.String("contains(#n, :q)")
		input.ExpressionAttributeNames = map[string]string{"#n": fieldNameLower}
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":q": &types.AttributeValueMemberS{Value: q},
		}
	}

	participants := []domain.Participant{}
	for {
		out, err := r.client.Scan(ctx, input)
		if err != nil {
			return nil, err
		}
		var page []domain.Participant
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		participants = append(participants, page...)
		if len(out.LastEvaluatedKey) == 0 {
			return participants, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

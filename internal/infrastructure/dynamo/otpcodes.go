package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-event-tickets/internal/domain"
)

// otpItem is the stored shape of an OTP record.
// ExpiresAtMs keeps millisecond precision for the validity check; TTL is the
// coarse Unix-seconds attribute DynamoDB uses to purge stale items.
type otpItem struct {
	Email       string `dynamodbav:"email"`
	Code        string `dynamodbav:"code"`
	ExpiresAtMs int64  `dynamodbav:"expires_at_ms"`
	TTL         int64  `dynamodbav:"ttl"`
}

// OTPRepo stores one verification code per email.
// PK: email. TTL attribute: ttl.
type OTPRepo struct {
	client    API
	tableName string
	// retain keeps items past expiry so verify can still report them as expired.
	retain time.Duration
}

func NewOTPRepo(client API, tableName string, retain time.Duration) *OTPRepo {
	return &OTPRepo{client: client, tableName: tableName, retain: retain}
}

func (r *OTPRepo) Put(ctx context.Context, rec *domain.OTPRecord) error {
	item, err := attributevalue.MarshalMap(otpItem{
		Email:       rec.Email,
		Code:        rec.Code,
		ExpiresAtMs: rec.ExpiresAt.UnixMilli(),
		TTL:         rec.ExpiresAt.Add(r.retain).Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal otp: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *OTPRepo) Get(ctx context.Context, email string) (*domain.OTPRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldEmail, email),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("otp not found: %w", domain.ErrNotFound)
	}
	var it otpItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, err
	}
	return &domain.OTPRecord{
		Email:     it.Email,
		Code:      it.Code,
		ExpiresAt: time.UnixMilli(it.ExpiresAtMs).UTC(),
	}, nil
}

// Delete removes the record if it still holds code and reports whether this
// call removed it. The conditional delete fails when the item is gone or was
// replaced by a newer code.
func (r *OTPRepo) Delete(ctx context.Context, email, code string) (bool, error) {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldEmail, email),
		ConditionExpression:       aws.String("#c = :c"),
		ExpressionAttributeNames:  map[string]string{"#c": fieldCode},
		ExpressionAttributeValues: map[string]types.AttributeValue{":c": &types.AttributeValueMemberS{Value: code}},
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

package s3infra

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/go-event-tickets/internal/domain"
)

type mockAPI struct{ mock.Mock }

func (m *mockAPI) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.PutObjectOutput)
	return out, args.Error(1)
}

func (m *mockAPI) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.GetObjectOutput)
	return out, args.Error(1)
}

func TestStore_PublicURL_DefaultsToBucketHost(t *testing.T) {
	s := NewStore(nil, "tix", "eu-west-1", "")
	assert.Equal(t, "https://tix.s3.eu-west-1.amazonaws.com/tickets/ada@x.com_ticket.pdf",
		s.PublicURL("tickets/ada@x.com_ticket.pdf"))
}

func TestStore_PublicURL_EscapesSegments(t *testing.T) {
	s := NewStore(nil, "tix", "eu-west-1", "https://cdn.example.com/")
	assert.Equal(t, "https://cdn.example.com/tickets/a%20b_ticket.pdf", s.PublicURL("tickets/a b_ticket.pdf"))
}

func TestStore_Upload_ReturnsPublicURL(t *testing.T) {
	api := &mockAPI{}
	api.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "tix" && *in.Key == "tickets/a_ticket.pdf" && *in.ContentType == "application/pdf"
	})).Return(&s3.PutObjectOutput{}, nil)

	s := NewStore(api, "tix", "us-east-1", "https://cdn.example.com")
	u, err := s.Upload(context.Background(), "tickets/a_ticket.pdf", bytes.NewReader([]byte("%PDF")), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/tickets/a_ticket.pdf", u)
}

func TestStore_Upload_WrapsError(t *testing.T) {
	api := &mockAPI{}
	api.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))
	s := NewStore(api, "tix", "us-east-1", "")
	_, err := s.Upload(context.Background(), "k", bytes.NewReader(nil), "application/pdf")
	assert.ErrorContains(t, err, "s3 put object: boom")
}

func TestStore_Download(t *testing.T) {
	api := &mockAPI{}
	api.On("GetObject", mock.Anything, mock.Anything).
		Return(&s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader([]byte("pdf-bytes")))}, nil)
	s := NewStore(api, "tix", "us-east-1", "")
	rc, err := s.Download(context.Background(), "k")
	require.NoError(t, err)
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	assert.Equal(t, "pdf-bytes", string(b))
}

func TestStore_Download_MissingKeyIsNotFound(t *testing.T) {
	api := &mockAPI{}
	api.On("GetObject", mock.Anything, mock.Anything).Return(nil, &types.NoSuchKey{})
	s := NewStore(api, "tix", "us-east-1", "")
	_, err := s.Download(context.Background(), "tickets/none.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

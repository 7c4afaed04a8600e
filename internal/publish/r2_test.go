package publish

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/bilgisen/feedview/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (r *recordingPutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	r.input = params
	r.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, r.err
}

func TestPublish(t *testing.T) {
	putter := &recordingPutter{}
	p := NewPublisher(putter, "feeds")

	require.NoError(t, p.Publish(context.Background(), "index.html", []byte("<html></html>")))

	assert.Equal(t, "feeds", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "index.html", aws.ToString(putter.input.Key))
	assert.Equal(t, "text/html; charset=utf-8", aws.ToString(putter.input.ContentType))
	assert.Equal(t, "<html></html>", string(putter.body))
}

func TestPublishError(t *testing.T) {
	p := NewPublisher(&recordingPutter{err: errors.New("denied")}, "feeds")

	err := p.Publish(context.Background(), "index.html", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")
}

func TestNewR2PublisherRequiresCredentials(t *testing.T) {
	_, err := NewR2Publisher(context.Background(), &config.Config{R2Bucket: "feeds"})
	assert.Error(t, err)
}

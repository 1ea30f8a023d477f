package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// s3API is the slice of the S3 client the store uses. Narrowed so tests
// can run against a fake instead of a bucket.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, opts ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// S3Store archives frames as objects under bucket/prefix, one object per
// sequence. Keys are zero-padded so lexical order equals sequence order.
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	store := archive.NewS3Store(s3.NewFromConfig(cfg), "my-bucket", "frames/")
type S3Store struct {
	client s3API
	bucket string
	prefix string
}

// NewS3Store creates an S3-backed store. prefix may be empty; a trailing
// slash is added when missing.
func NewS3Store(client *s3.Client, bucket, prefix string) *S3Store {
	return newS3Store(client, bucket, prefix)
}

func newS3Store(client s3API, bucket, prefix string) *S3Store {
	if prefix != "" && prefix[len(prefix)-1] != '/' {
		prefix += "/"
	}
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Store) key(seq uint64) string {
	return fmt.Sprintf("%s%020d", s.prefix, seq)
}

// Put archives the frame for seq.
func (s *S3Store) Put(ctx context.Context, seq uint64, frame []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(seq)),
		Body:        bytes.NewReader(frame),
		ContentType: aws.String("application/octet-stream"),
	})
	if err != nil {
		return fmt.Errorf("archive: put seq %d: %w", seq, err)
	}
	return nil
}

// Get returns the frame for seq, or ErrNotFound.
func (s *S3Store) Get(ctx context.Context, seq uint64) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(seq)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("archive: get seq %d: %w", seq, err)
	}
	defer out.Body.Close()
	frame, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("archive: read seq %d: %w", seq, err)
	}
	return frame, nil
}

// Range fetches [fromSeq, toSeq] one object at a time. A missing
// sequence anywhere is ErrNotFound.
func (s *S3Store) Range(ctx context.Context, fromSeq, toSeq uint64) ([][]byte, error) {
	if fromSeq > toSeq {
		return nil, nil
	}
	frames := make([][]byte, 0, toSeq-fromSeq+1)
	for seq := fromSeq; seq <= toSeq; seq++ {
		frame, err := s.Get(ctx, seq)
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}
	return frames, nil
}

// Prune deletes every archived frame below beforeSeq, in list-page
// batches.
func (s *S3Store) Prune(ctx context.Context, beforeSeq uint64) error {
	cutoff := s.key(beforeSeq)
	var token *string

	for {
		page, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(s.prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return fmt.Errorf("archive: prune list: %w", err)
		}

		var doomed []types.ObjectIdentifier
		for _, obj := range page.Contents {
			// Zero-padded keys compare lexically.
			if obj.Key != nil && *obj.Key < cutoff {
				doomed = append(doomed, types.ObjectIdentifier{Key: obj.Key})
			}
		}
		if len(doomed) > 0 {
			_, err = s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
				Bucket: aws.String(s.bucket),
				Delete: &types.Delete{Objects: doomed, Quiet: aws.Bool(true)},
			})
			if err != nil {
				return fmt.Errorf("archive: prune delete: %w", err)
			}
		}

		if page.IsTruncated == nil || !*page.IsTruncated {
			return nil
		}
		token = page.NextContinuationToken
	}
}

// Close is a no-op; the S3 client is owned by the caller.
func (s *S3Store) Close() error { return nil }

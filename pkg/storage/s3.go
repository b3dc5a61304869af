package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Options configures an S3Disk. Endpoint is only set for S3-compatible
// stores (MinIO, R2, Spaces) and switches to path-style addressing.
type S3Options struct {
	Bucket   string
	Region   string
	Key      string
	Secret   string
	Endpoint string
	BaseURL  string
}

// S3Disk stores files as objects in one bucket.
type S3Disk struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewS3Disk(o S3Options) (*S3Disk, error) {
	if o.Bucket == "" {
		return nil, fmt.Errorf("storage/s3: bucket is not configured")
	}
	if o.Region == "" {
		o.Region = "us-east-1"
	}

	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(o.Region)}
	if o.Key != "" && o.Secret != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.Key, o.Secret, ""),
		))
	}

	cfg, err := awscfg.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("storage/s3: load config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if o.Endpoint != "" {
		clientOpts = append(clientOpts, func(so *s3.Options) {
			so.BaseEndpoint = aws.String(o.Endpoint)
			so.UsePathStyle = true
		})
	}

	baseURL := strings.TrimRight(o.BaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", o.Bucket, o.Region)
	}

	return &S3Disk{
		client:  s3.NewFromConfig(cfg, clientOpts...),
		bucket:  o.Bucket,
		baseURL: baseURL,
	}, nil
}

func key(p string) string { return strings.TrimLeft(p, "/") }

func (d *S3Disk) Put(ctx context.Context, p string, r io.Reader) error {
	body, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("storage/s3: read: %w", err)
		}
		body = bytes.NewReader(data)
	}
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key(p)),
		Body:   body,
	})
	if err != nil {
		return fmt.Errorf("storage/s3: put %s: %w", p, err)
	}
	return nil
}

func (d *S3Disk) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	out, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key(p)),
	})
	var missing *types.NoSuchKey
	if errors.As(err, &missing) {
		return nil, fmt.Errorf("storage/s3: get %s: %w", p, ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("storage/s3: get %s: %w", p, err)
	}
	return out.Body, nil
}

func (d *S3Disk) Exists(ctx context.Context, p string) (bool, error) {
	_, err := d.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key(p)),
	})
	var missing *types.NotFound
	if errors.As(err, &missing) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage/s3: head %s: %w", p, err)
	}
	return true, nil
}

func (d *S3Disk) Delete(ctx context.Context, p string) error {
	_, err := d.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key(p)),
	})
	if err != nil {
		return fmt.Errorf("storage/s3: delete %s: %w", p, err)
	}
	return nil
}

func (d *S3Disk) Files(ctx context.Context, directory string) ([]string, error) {
	prefix := key(directory)
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	out := []string{}
	paginator := s3.NewListObjectsV2Paginator(d.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(d.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("storage/s3: list %s: %w", directory, err)
		}
		for _, obj := range page.Contents {
			out = append(out, aws.ToString(obj.Key))
		}
	}
	sort.Strings(out)
	return out, nil
}

func (d *S3Disk) URL(p string) string {
	return d.baseURL + "/" + key(p)
}

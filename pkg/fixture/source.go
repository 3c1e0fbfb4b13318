package fixture

import (
	"context"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vango-dev/syringe/internal/errors"
)

// Source reads raw fixture documents.
type Source interface {
	Read(ctx context.Context, location string) ([]byte, error)
}

// FileSource reads fixtures from the local filesystem. Relative locations
// are resolved against Dir.
type FileSource struct {
	Dir string
}

// Read implements Source.
func (f FileSource) Read(_ context.Context, location string) ([]byte, error) {
	path := location
	if !filepath.IsAbs(path) && f.Dir != "" {
		path = filepath.Join(f.Dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.New("E200").WithDetailf("%s does not exist", path)
		}
		return nil, errors.New("E205").Wrap(err)
	}
	return data, nil
}

// S3API is the subset of the S3 client used by S3Source.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config configures NewS3Source.
type S3Config struct {
	Region string

	// Endpoint overrides the service endpoint (MinIO, LocalStack).
	Endpoint string

	// PathStyle forces path-style addressing.
	PathStyle bool
}

// S3Source reads fixtures addressed as s3://bucket/key.
type S3Source struct {
	Client S3API
}

// NewS3Source creates an S3Source backed by the AWS SDK. Credentials are
// read from AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN.
func NewS3Source(cfg S3Config) *S3Source {
	opts := s3.Options{
		Region:       cfg.Region,
		UsePathStyle: cfg.PathStyle,
		Credentials:  aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return &S3Source{Client: s3.New(opts)}
}

func envCredentials(context.Context) (aws.Credentials, error) {
	id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, stderrors.New("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "environment",
	}, nil
}

// Read implements Source.
func (s *S3Source) Read(ctx context.Context, location string) ([]byte, error) {
	bucket, key, ok := ParseS3Location(location)
	if !ok {
		return nil, errors.New("E205").WithDetailf("%q is not an s3://bucket/key location", location)
	}

	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if stderrors.As(err, &missing) {
			return nil, errors.New("E200").WithDetailf("%s does not exist", location)
		}
		return nil, errors.New("E205").Wrap(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.New("E205").Wrap(err)
	}
	return data, nil
}

// ParseS3Location splits s3://bucket/key.
func ParseS3Location(location string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(location, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// Loader reads and parses fixtures, dispatching s3:// locations to S3 and
// everything else to Files.
type Loader struct {
	Files FileSource
	S3    Source
}

// Load reads and parses the fixture at location.
func (l *Loader) Load(ctx context.Context, location string) (*Document, error) {
	src := Source(l.Files)
	if strings.HasPrefix(location, "s3://") {
		if l.S3 == nil {
			return nil, errors.New("E205").WithDetail("no S3 source configured")
		}
		src = l.S3
	}

	data, err := src.Read(ctx, location)
	if err != nil {
		return nil, err
	}
	return Parse(data, location)
}

package destination

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"photo-archive/internal/archive"
)

const (
	// EncryptedSuffix is appended to the key of every encrypted object.
	EncryptedSuffix = ".age"

	mtimeMetadataKey = "mtime"
)

// HeadObjectAPI is the part of the S3 client used for existence checks.
type HeadObjectAPI interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// UploadAPI is the part of the upload manager used to store objects.
type UploadAPI interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Destination stores archived copies as objects in an S3 bucket.
// Keys are slash-joined below an optional prefix. Directories are implicit,
// so EnsureDir does nothing. When an Encryptor is set, objects are
// encrypted and stored under key + ".age".
type S3Destination struct {
	ctx       context.Context
	bucket    string
	prefix    string
	client    HeadObjectAPI
	uploader  UploadAPI
	encryptor archive.Encryptor
}

// NewS3Destination creates a destination writing to bucket below prefix.
// encryptor may be nil to store plaintext objects.
func NewS3Destination(ctx context.Context, bucket, prefix string, client HeadObjectAPI, uploader UploadAPI, encryptor archive.Encryptor) *S3Destination {
	return &S3Destination{
		ctx:       ctx,
		bucket:    bucket,
		prefix:    strings.Trim(prefix, "/"),
		client:    client,
		uploader:  uploader,
		encryptor: encryptor,
	}
}

// ParseS3URL splits s3://bucket/prefix into bucket and prefix.
func ParseS3URL(raw string) (bucket, prefix string, err error) {
	rest, ok := strings.CutPrefix(raw, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 url: %s", raw)
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("s3 url has no bucket: %s", raw)
	}
	return bucket, strings.Trim(prefix, "/"), nil
}

// IsS3URL reports whether raw names an S3 destination.
func IsS3URL(raw string) bool {
	return strings.HasPrefix(raw, "s3://")
}

// Root returns the key prefix.
func (d *S3Destination) Root() string { return d.prefix }

// URL returns the destination as s3://bucket/prefix.
func (d *S3Destination) URL() string {
	if d.prefix == "" {
		return "s3://" + d.bucket
	}
	return "s3://" + d.bucket + "/" + d.prefix
}

func (d *S3Destination) Join(elem ...string) string {
	return strings.TrimPrefix(path.Join(elem...), "/")
}

func (d *S3Destination) Dir(key string) string { return path.Dir(key) }

// objectKey returns the key a logical path is stored under.
func (d *S3Destination) objectKey(key string) string {
	if d.encryptor != nil {
		return key + EncryptedSuffix
	}
	return key
}

// Exists reports whether the object for key is present.
func (d *S3Destination) Exists(key string) (bool, error) {
	_, err := d.client.HeadObject(d.ctx, &s3.HeadObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(d.objectKey(key)),
	})
	if err == nil {
		return true, nil
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return false, nil
	}
	return false, fmt.Errorf("head object %s: %w", d.objectKey(key), err)
}

// EnsureDir is a no-op: object stores have no directories.
func (d *S3Destination) EnsureDir(dir string) error {
	return nil
}

// Copy uploads src to key. The upload is conditional on the key being
// absent, so an existing object is never replaced. The source modification
// time is kept in the object metadata.
func (d *S3Destination) Copy(src, key string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	var body io.Reader = f
	if d.encryptor != nil {
		pr, pw := io.Pipe()
		go func() {
			pw.CloseWithError(d.encryptor.Encrypt(f, pw))
		}()
		defer pr.Close()
		body = pr
	}

	objectKey := d.objectKey(key)
	_, err = d.uploader.Upload(d.ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.bucket),
		Key:         aws.String(objectKey),
		Body:        body,
		IfNoneMatch: aws.String("*"),
		Metadata: map[string]string{
			mtimeMetadataKey: info.ModTime().UTC().Format(time.RFC3339Nano),
		},
	})
	if err != nil {
		return fmt.Errorf("uploading %s: %w", objectKey, err)
	}
	return nil
}

// Compile-time check that S3Destination implements archive.Destination interface
var _ archive.Destination = (*S3Destination)(nil)

package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rs/zerolog/log"
)

// StoredObject is the reference returned for an uploaded file. URL is what gets saved on the
// entity; Key is what Delete needs later.
type StoredObject struct {
	Key string `json:"publicId"`
	URL string `json:"url"`
}

// ObjectStore keeps uploaded thumbnails and resumes
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (StoredObject, error)
	Delete(ctx context.Context, key string) error
}

// ObjectKey builds a collision-free key under folder that keeps the extension of filename
func ObjectKey(folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(folder, uuid.NewString()+ext)
}

// S3API is the part of the S3 client the store needs
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store writes objects to one bucket and serves them from publicBaseURL
type S3Store struct {
	client        S3API
	bucket        string
	publicBaseURL string
}

// NewS3Client builds an S3 client from the default AWS credential chain
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errs.NewConfigError("AWS", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// NewS3Store falls back to the virtual-hosted bucket URL when publicBaseURL is empty
func NewS3Store(client S3API, bucket, region, publicBaseURL string) *S3Store {
	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return &S3Store{client: client, bucket: bucket, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

func (s *S3Store) Put(ctx context.Context, key string, body io.Reader, contentType string) (StoredObject, error) {
	// The SDK needs a seekable body to sign the payload.
	data, err := io.ReadAll(body)
	if err != nil {
		return StoredObject{}, errs.NewStorageError("read", key, err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return StoredObject{}, errs.NewStorageError("put", key, err)
	}
	log.Debug().Str("bucket", s.bucket).Str("key", key).Int("bytes", len(data)).Msg("Stored object")
	return StoredObject{Key: key, URL: s.publicBaseURL + "/" + key}, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errs.NewStorageError("delete", key, err)
	}
	return nil
}

// DiskStore writes objects below a local directory; used when no bucket is configured
type DiskStore struct {
	root          string
	publicBaseURL string
}

func NewDiskStore(root, publicBaseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errs.NewConfigError("UPLOAD_DIR", err)
	}
	return &DiskStore{root: root, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

// Root is the directory served under the public base URL
func (s *DiskStore) Root() string {
	return s.root
}

func (s *DiskStore) Put(ctx context.Context, key string, body io.Reader, contentType string) (StoredObject, error) {
	full, key, err := s.resolve(key)
	if err != nil {
		return StoredObject{}, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return StoredObject{}, errs.NewStorageError("mkdir", key, err)
	}
	f, err := os.Create(full)
	if err != nil {
		return StoredObject{}, errs.NewStorageError("create", key, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, body); err != nil {
		return StoredObject{}, errs.NewStorageError("write", key, err)
	}
	return StoredObject{Key: key, URL: s.publicBaseURL + "/" + key}, nil
}

func (s *DiskStore) Delete(ctx context.Context, key string) error {
	full, _, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return errs.NewStorageError("delete", key, err)
	}
	return nil
}

// resolve maps key to a file below the root; ".." segments cannot climb out of it
func (s *DiskStore) resolve(key string) (full, clean string, err error) {
	clean = strings.TrimPrefix(path.Clean("/"+key), "/")
	if clean == "" {
		return "", "", errs.NewInvalidFieldError("key", "object key is empty")
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), clean, nil
}

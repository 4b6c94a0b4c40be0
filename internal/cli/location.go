package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/winnow/blobstore"
	miniostore "github.com/hupe1980/winnow/blobstore/minio"
	s3store "github.com/hupe1980/winnow/blobstore/s3"
)

// Location is a parsed -out / -in value.
type Location struct {
	Scheme   string // "file", "s3" or "minio"
	Endpoint string // minio only
	Bucket   string
	Prefix   string
	Path     string // file only
}

// ParseLocation accepts a local directory, s3://bucket[/prefix] or
// minio://endpoint/bucket[/prefix].
func ParseLocation(s string) (Location, error) {
	scheme, rest, ok := strings.Cut(s, "://")
	if !ok {
		if s == "" {
			return Location{}, fmt.Errorf("empty location")
		}
		return Location{Scheme: "file", Path: s}, nil
	}

	switch scheme {
	case "file":
		if rest == "" {
			return Location{}, fmt.Errorf("%s: missing path", s)
		}
		return Location{Scheme: "file", Path: rest}, nil
	case "s3":
		bucket, prefix, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return Location{}, fmt.Errorf("%s: missing bucket", s)
		}
		return Location{Scheme: "s3", Bucket: bucket, Prefix: strings.Trim(prefix, "/")}, nil
	case "minio":
		parts := strings.SplitN(rest, "/", 3)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return Location{}, fmt.Errorf("%s: want minio://endpoint/bucket[/prefix]", s)
		}
		loc := Location{Scheme: "minio", Endpoint: parts[0], Bucket: parts[1]}
		if len(parts) == 3 {
			loc.Prefix = strings.Trim(parts[2], "/")
		}
		return loc, nil
	default:
		return Location{}, fmt.Errorf("%s: unsupported scheme %q", s, scheme)
	}
}

func (l Location) String() string {
	switch l.Scheme {
	case "s3":
		return "s3://" + strings.TrimSuffix(l.Bucket+"/"+l.Prefix, "/")
	case "minio":
		return "minio://" + strings.TrimSuffix(l.Endpoint+"/"+l.Bucket+"/"+l.Prefix, "/")
	default:
		return l.Path
	}
}

// storeConfig carries the flags that affect how a location is opened.
type storeConfig struct {
	ddbTable string
	create   bool
	getenv   func(string) string
}

func openStore(ctx context.Context, loc Location, sc storeConfig) (blobstore.BlobStore, error) {
	switch loc.Scheme {
	case "s3":
		awsCfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		store := s3store.NewStore(awss3.NewFromConfig(awsCfg), loc.Bucket, loc.Prefix)
		if sc.ddbTable == "" {
			return store, nil
		}
		return s3store.NewCommitStore(store, dynamodb.NewFromConfig(awsCfg), sc.ddbTable, loc.String()), nil
	case "minio":
		getenv := sc.getenv
		if getenv == nil {
			getenv = os.Getenv
		}
		return miniostore.Dial(ctx, miniostore.Config{
			Endpoint:     loc.Endpoint,
			AccessKey:    getenv("MINIO_ACCESS_KEY"),
			SecretKey:    getenv("MINIO_SECRET_KEY"),
			Region:       getenv("MINIO_REGION"),
			Secure:       getenv("MINIO_SECURE") == "true",
			CreateBucket: sc.create,
		}, loc.Bucket, loc.Prefix)
	default:
		if sc.create {
			if err := os.MkdirAll(loc.Path, 0o755); err != nil {
				return nil, err
			}
		}
		return blobstore.NewLocalStore(loc.Path), nil
	}
}

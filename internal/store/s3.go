package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"codetutor/internal/model"
	"codetutor/internal/tutor"
)

const ownerMetadataKey = "owner-id"

// S3Store implements the ProjectStore interface on top of an S3 bucket.
// Each project is one JSON object at "<prefix><id>.json"; the owner rides
// along as object metadata.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
	clock    tutor.Clock
	idgen    tutor.IDGenerator
}

// S3Options configures an S3Store. AccessKeyID and SecretAccessKey are
// optional; when empty the default AWS credential chain applies.
type S3Options struct {
	Bucket          string
	Prefix          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// NewS3Store creates a project store backed by the given bucket.
func NewS3Store(ctx context.Context, opts S3Options, clock tutor.Clock, idgen tutor.IDGenerator) (*S3Store, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 store requires a bucket")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &S3Store{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   opts.Bucket,
		prefix:   opts.Prefix,
		clock:    clock,
		idgen:    idgen,
	}, nil
}

func (s *S3Store) key(id string) string {
	return s.prefix + id + ".json"
}

func (s *S3Store) idFromKey(key string) string {
	return strings.TrimSuffix(strings.TrimPrefix(key, s.prefix), ".json")
}

// Save persists the project payload. An empty existingID allocates a new
// object key; a non-empty one overwrites the object in place.
func (s *S3Store) Save(ctx context.Context, data model.ProjectData, existingID, ownerID string) (*model.SaveResult, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode project: %w", err)
	}

	id := existingID
	if id == "" {
		id = s.idgen.New()
	} else if existing, err := s.Load(ctx, id); err != nil {
		return nil, err
	} else if existing != nil && existing.OwnerID != "" {
		// Overwriting must not reassign the object to the saving user.
		ownerID = existing.OwnerID
	}

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(id)),
		Body:        strings.NewReader(string(encoded)),
		ContentType: aws.String("application/json"),
		Metadata:    map[string]string{ownerMetadataKey: ownerID},
	})
	if err != nil {
		return nil, fmt.Errorf("uploading project: %w", err)
	}

	return &model.SaveResult{ID: id, UpdatedAt: s.clock.Now()}, nil
}

// Load retrieves a project by id. Returns (nil, nil) when not found.
func (s *S3Store) Load(ctx context.Context, id string) (*model.StoredProject, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("loading project: %w", err)
	}
	defer out.Body.Close()

	encoded, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading project body: %w", err)
	}

	var data model.ProjectData
	if err := json.Unmarshal(encoded, &data); err != nil {
		return nil, fmt.Errorf("failed to decode project %s: %w", id, err)
	}
	return &model.StoredProject{ID: id, OwnerID: out.Metadata[ownerMetadataKey], Data: data}, nil
}

// List returns every stored project, newest first by object modification
// time. Each listed object is fetched individually; project payloads are
// small and listings are an interactive operation.
func (s *S3Store) List(ctx context.Context) ([]*model.StoredProject, error) {
	type entry struct {
		id       string
		modified int64
	}
	var entries []entry

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing projects: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !strings.HasSuffix(key, ".json") {
				continue
			}
			var modified int64
			if obj.LastModified != nil {
				modified = obj.LastModified.UnixNano()
			}
			entries = append(entries, entry{id: s.idFromKey(key), modified: modified})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].modified != entries[j].modified {
			return entries[i].modified > entries[j].modified
		}
		return entries[i].id < entries[j].id
	})

	projects := make([]*model.StoredProject, 0, len(entries))
	for _, e := range entries {
		project, err := s.Load(ctx, e.id)
		if err != nil {
			return nil, err
		}
		if project == nil {
			// Deleted between list and load.
			continue
		}
		projects = append(projects, project)
	}
	return projects, nil
}

// Delete removes a stored project. Unknown ids are a no-op: S3 deletes
// are idempotent.
func (s *S3Store) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

// Close releases nothing; the S3 client holds no persistent connections.
func (s *S3Store) Close() error {
	return nil
}

// Compile-time check that S3Store implements the ProjectStore interface
var _ tutor.ProjectStore = (*S3Store)(nil)

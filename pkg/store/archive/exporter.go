package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/macro-atlas/pkg/models/store"
	"github.com/rs/zerolog"
)

const contentType = "application/json"

// Putter is the subset of the S3 client the exporter needs.
type Putter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config selects the bucket snapshots are exported to. Endpoint and
// PathStyle target S3-compatible services such as MinIO.
type Config struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	PathStyle bool
}

type Exporter struct {
	client Putter
	bucket string
	prefix string
}

type document struct {
	ID          int64         `json:"id"`
	CountryCode string        `json:"country_code"`
	Indicator   string        `json:"indicator"`
	StartDate   string        `json:"start_date"`
	EndDate     string        `json:"end_date"`
	CreatedAt   time.Time     `json:"created_at"`
	Rows        []documentRow `json:"rows"`
}

type documentRow struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// New builds an exporter on the default AWS credential chain.
func New(ctx context.Context, cfg Config, optFns ...func(*s3.Options)) (*Exporter, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		for _, fn := range optFns {
			fn(o)
		}
	})
	return NewWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

func NewWithClient(client Putter, bucket, prefix string) *Exporter {
	return &Exporter{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// Key is the object key a snapshot is written to.
func (e *Exporter) Key(snapshot store.Snapshot) string {
	name := fmt.Sprintf("snapshot-%d.json", snapshot.ID)
	return path.Join(e.prefix, snapshot.CountryCode, slug(snapshot.Indicator), name)
}

// Export uploads the snapshot with its rows as one JSON document and returns
// the object key.
func (e *Exporter) Export(ctx context.Context, snapshot store.Snapshot) (string, error) {
	doc := document{
		ID:          snapshot.ID,
		CountryCode: snapshot.CountryCode,
		Indicator:   snapshot.Indicator,
		StartDate:   snapshot.StartDate,
		EndDate:     snapshot.EndDate,
		CreatedAt:   snapshot.CreatedAt,
		Rows:        make([]documentRow, 0, len(snapshot.Rows)),
	}
	for _, r := range snapshot.Rows {
		doc.Rows = append(doc.Rows, documentRow{Date: r.Date, Value: r.Value})
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	key := e.Key(snapshot)
	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	zerolog.Ctx(ctx).Info().
		Str("bucket", e.bucket).
		Str("key", key).
		Int("rows", len(doc.Rows)).
		Msg("snapshot exported")
	return key, nil
}

// slug lowercases s to ASCII words joined by dashes. Names with no ASCII
// letters or digits get a stable hash token so the path segment never
// collapses.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	if out := strings.TrimSuffix(b.String(), "-"); out != "" {
		return out
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return fmt.Sprintf("indicator-%08x", h.Sum32())
}

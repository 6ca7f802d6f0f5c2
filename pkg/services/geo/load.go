package geo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

const (
	// DefaultSource is the public world country geography.
	DefaultSource = "https://raw.githubusercontent.com/johan/world.geo.json/master/countries.geo.json"
	DefaultRegion = "us-east-1"
)

// ObjectGetter is the subset of the S3 client Load needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type LoadOptions struct {
	HTTPClient *http.Client
	// S3 overrides the client built from the default AWS config chain.
	S3     ObjectGetter
	Region string
}

// Load reads and validates the base geography from a file path, an
// http(s) URL or an s3://bucket/key location.
func Load(ctx context.Context, source string, opts LoadOptions) (*Geography, error) {
	if source == "" {
		source = DefaultSource
	}
	start := time.Now()

	data, err := fetch(ctx, source, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load geography from %s: %w", source, err)
	}

	g, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse geography from %s: %w", source, err)
	}

	zerolog.Ctx(ctx).Info().
		Str("source", source).
		Int("features", g.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("base geography loaded")
	return g, nil
}

func fetch(ctx context.Context, source string, opts LoadOptions) ([]byte, error) {
	u, err := url.Parse(source)
	if err != nil || u.Scheme == "" || u.Scheme == "file" {
		path := source
		if err == nil && u.Scheme == "file" {
			path = u.Path
		}
		return os.ReadFile(path)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return fetchHTTP(ctx, source, opts.HTTPClient)
	case "s3":
		return fetchS3(ctx, u.Host, strings.TrimPrefix(u.Path, "/"), opts)
	}
	return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
}

func fetchHTTP(ctx context.Context, source string, client *http.Client) ([]byte, error) {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func fetchS3(ctx context.Context, bucket, key string, opts LoadOptions) ([]byte, error) {
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("s3 location needs a bucket and a key")
	}

	client := opts.S3
	if client == nil {
		region := opts.Region
		if region == "" {
			region = DefaultRegion
		}
		cfg, err := config.LoadDefaultConfig(ctx, config.WithDefaultRegion(region))
		if err != nil {
			return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
		}
		client = s3.NewFromConfig(cfg)
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

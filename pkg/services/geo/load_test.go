package geo

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockObjectGetter struct {
	mock.Mock
}

func (m *mockObjectGetter) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(aws.ToString(params.Bucket), aws.ToString(params.Key))
	if out := args.Get(0); out != nil {
		return out.(*s3.GetObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "countries.geo.json")
	require.NoError(t, os.WriteFile(path, []byte(worldJSON), 0o600))

	g, err := Load(context.Background(), path, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())

	g, err = Load(context.Background(), "file://"+path, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())
}

func TestLoad_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/countries.geo.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, worldJSON)
	}))
	defer srv.Close()

	g, err := Load(context.Background(), srv.URL+"/countries.geo.json", LoadOptions{HTTPClient: srv.Client()})
	require.NoError(t, err)
	assert.Equal(t, []string{"USA", "DEU", "FRA"}, g.IDs())

	_, err = Load(context.Background(), srv.URL+"/missing.json", LoadOptions{HTTPClient: srv.Client()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestLoad_S3(t *testing.T) {
	getter := new(mockObjectGetter)
	getter.On("GetObject", "atlas-assets", "geo/countries.geo.json").Return(&s3.GetObjectOutput{
		Body: io.NopCloser(strings.NewReader(worldJSON)),
	}, nil)

	g, err := Load(context.Background(), "s3://atlas-assets/geo/countries.geo.json", LoadOptions{S3: getter})
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())
	getter.AssertExpectations(t)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{name: "missing file", source: filepath.Join(t.TempDir(), "nope.json")},
		{name: "unsupported scheme", source: "ftp://example.com/world.json"},
		{name: "s3 without key", source: "s3://atlas-assets"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), tt.source, LoadOptions{S3: new(mockObjectGetter)})
			require.Error(t, err)
		})
	}
}

func TestLoad_InvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.geo.json")
	doc := `{"type":"FeatureCollection","features":[
	  {"type":"Feature","id":"DEU","properties":{},"geometry":{"type":"Point","coordinates":[10,50]}},
	  {"type":"Feature","id":"DEU","properties":{},"geometry":{"type":"Point","coordinates":[10,50]}}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	_, err := Load(context.Background(), path, LoadOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateID)
}

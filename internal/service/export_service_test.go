package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packarma/admin-api/internal/repository"
	"github.com/packarma/admin-api/pkg/export"
	"github.com/packarma/admin-api/pkg/jobs"
	"github.com/packarma/admin-api/pkg/storage"
)

type jsonCacheStub struct {
	values map[string][]byte
}

func newJSONCacheStub() *jsonCacheStub {
	return &jsonCacheStub{values: make(map[string][]byte)}
}

func (c *jsonCacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.values[key]
	if !ok {
		return assert.AnError
	}
	return json.Unmarshal(raw, dest)
}

func (c *jsonCacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = raw
	return nil
}

func (c *jsonCacheStub) Delete(ctx context.Context, key string) error {
	delete(c.values, key)
	return nil
}

func newTestExportService(t *testing.T, cache permissionCache, threshold int) *ExportService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("export-test-secret", time.Hour)
	return NewExportService(store, cache, signer, ExportConfig{
		AsyncRowThreshold: threshold,
		APIPrefix:         "/api/v1",
		ResultTTL:         time.Hour,
	}, nil)
}

func testSource(rows int) DatasetSource {
	return DatasetSource{
		Title: "Categories",
		Count: func(ctx context.Context, q ExportQuery) (int, error) {
			return rows, nil
		},
		Build: func(ctx context.Context, q ExportQuery) (export.Dataset, error) {
			data := export.Dataset{Headers: []string{"Sr. No.", "Name"}}
			for i := 0; i < rows; i++ {
				data.Rows = append(data.Rows, map[string]string{"Sr. No.": "1", "Name": "Boxes"})
			}
			return data, nil
		},
	}
}

func TestExportInlineBelowThreshold(t *testing.T) {
	svc := newTestExportService(t, newJSONCacheStub(), 100)
	svc.Register("category", testSource(3))

	file, job, err := svc.Export(context.Background(), "category", export.FormatCSV, ExportQuery{})
	require.NoError(t, err)
	require.Nil(t, job)
	require.NotNil(t, file)
	assert.True(t, strings.HasPrefix(file.Filename, "category_exported_("))
	assert.True(t, strings.HasSuffix(file.Filename, ").csv"))
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Contains(t, string(file.Data), "Name")
	assert.Contains(t, string(file.Data), "Boxes")
}

func TestExportEnqueuesAboveThreshold(t *testing.T) {
	cache := newJSONCacheStub()
	svc := newTestExportService(t, cache, 2)
	svc.Register("category", testSource(10))

	file, job, err := svc.Export(context.Background(), "category", export.FormatXLSX, ExportQuery{})
	require.NoError(t, err)
	require.Nil(t, file)
	require.NotNil(t, job)
	assert.Equal(t, ExportStatusPending, job.Status)

	status, err := svc.Status(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, ExportStatusPending, status.Status)
	assert.Equal(t, "category", status.Resource)
}

func TestExportStaysInlineWithoutStatusCache(t *testing.T) {
	// Without Redis the cache repository drops every write, so a queued job
	// could never report its status. Large exports render inline instead.
	svc := newTestExportService(t, repository.NewCacheRepository(nil, nil), 2)
	svc.Register("category", testSource(10))

	file, job, err := svc.Export(context.Background(), "category", export.FormatCSV, ExportQuery{})
	require.NoError(t, err)
	require.Nil(t, job)
	require.NotNil(t, file)
	assert.Contains(t, string(file.Data), "Boxes")
}

func TestExportRejectsUnknownResourceAndFormat(t *testing.T) {
	svc := newTestExportService(t, newJSONCacheStub(), 100)
	svc.Register("category", testSource(1))

	_, _, err := svc.Export(context.Background(), "category", export.Format("doc"), ExportQuery{})
	require.Error(t, err)

	_, _, err = svc.Export(context.Background(), "unknown", export.FormatCSV, ExportQuery{})
	require.Error(t, err)
}

func TestBackgroundJobCompletesWithSignedURL(t *testing.T) {
	cache := newJSONCacheStub()
	svc := newTestExportService(t, cache, 2)
	svc.Register("category", testSource(10))

	_, job, err := svc.Export(context.Background(), "category", export.FormatCSV, ExportQuery{})
	require.NoError(t, err)
	require.NotNil(t, job)

	require.NoError(t, svc.handleJob(context.Background(), jobs.Job{
		ID:      job.ID,
		Type:    "export",
		Payload: exportJobPayload{Status: *job, Query: ExportQuery{}},
	}))

	status, err := svc.Status(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, ExportStatusCompleted, status.Status)
	assert.True(t, strings.HasPrefix(status.URL, "/api/v1/exports/download/"))
	assert.NotEmpty(t, status.Filename)

	token := strings.TrimPrefix(status.URL, "/api/v1/exports/download/")
	file, filename, err := svc.Download(token)
	require.NoError(t, err)
	defer file.Close()
	assert.Contains(t, filename, "category_exported_")
}

func TestBackgroundJobFailureIsRecorded(t *testing.T) {
	cache := newJSONCacheStub()
	svc := newTestExportService(t, cache, 2)
	source := testSource(10)
	source.Build = func(ctx context.Context, q ExportQuery) (export.Dataset, error) {
		return export.Dataset{}, assert.AnError
	}
	svc.Register("category", source)

	_, job, err := svc.Export(context.Background(), "category", export.FormatCSV, ExportQuery{})
	require.NoError(t, err)
	require.NotNil(t, job)

	require.Error(t, svc.handleJob(context.Background(), jobs.Job{
		ID:      job.ID,
		Type:    "export",
		Payload: exportJobPayload{Status: *job, Query: ExportQuery{}},
	}))

	status, err := svc.Status(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, ExportStatusFailed, status.Status)
	assert.NotEmpty(t, status.Error)
}

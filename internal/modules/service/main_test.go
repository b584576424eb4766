package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/szigetelo/backoffice/internal/infra/blob"
	"github.com/szigetelo/backoffice/internal/infra/db"
	"github.com/szigetelo/backoffice/internal/modules/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

// pngBytes is the smallest payload mimetype sniffs as image/png.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

// fakeBlob keeps uploads in memory.
type fakeBlob struct {
	mu        sync.Mutex
	uploads   []blob.UploadedMeta
	uploadErr error
}

func (f *fakeBlob) UploadBytes(_ context.Context, prefix, filename string, body []byte, contentType string) (*blob.UploadedMeta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	meta := blob.UploadedMeta{
		Bucket: "test-bucket",
		Key:    prefix + "/" + filename,
		MIME:   contentType,
		SizeB:  int64(len(body)),
		SHA256: "sum",
	}
	f.uploads = append(f.uploads, meta)
	return &meta, nil
}

func (f *fakeBlob) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://s3.test/" + key + "?sig=1", nil
}

// ── Mock: PDFRenderer ──

type MockPDFRenderer struct {
	mock.Mock
}

func (m *MockPDFRenderer) Enabled() bool {
	return m.Called().Bool(0)
}

func (m *MockPDFRenderer) RenderPDF(ctx context.Context, html []byte, filename string) ([]byte, error) {
	args := m.Called(ctx, html, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func ptr[T any](v T) *T { return &v }

func seedCompany(t *testing.T, gdb *gorm.DB, name string) *model.Company {
	t.Helper()
	c := &model.Company{Name: name, TaxNumber: ptr(uuid.NewString())}
	require.NoError(t, gdb.Create(c).Error)
	return c
}

func seedProject(t *testing.T, gdb *gorm.DB, complete bool) *model.Project {
	t.Helper()
	p := &model.Project{Title: "Padlásfödém szigetelés", ClientName: "Kiss Anna"}
	if complete {
		p.ClientBirthPlace = ptr("Győr")
		p.ClientBirthDate = ptr("1970-01-01")
		p.ClientTaxID = ptr("8123456789")
		p.ClientStreet = ptr("Fő utca 1.")
		p.ClientCity = ptr("Győr")
		p.ClientZip = ptr("9021")
		p.PropertyAddressSame = true
		p.AreaSqm = ptr(84.5)
		p.FloorMaterial = ptr("fa")
	}
	require.NoError(t, gdb.Create(p).Error)
	return p
}

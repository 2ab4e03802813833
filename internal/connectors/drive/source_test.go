package drive

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report.csv", "report.csv"},
		{"a/b.csv", "a_b.csv"},
		{"a\\b.csv", "a_b.csv"},
		{"/leading/slashes/", "_leading_slashes_"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeName(tt.in), "input %q", tt.in)
	}
}

func TestExportMimeType(t *testing.T) {
	assert.Equal(t, ExportMimeCSV, ExportMimeType(MimeTypeSpreadsheet))
	assert.Equal(t, ExportMimePDF, ExportMimeType(MimeTypeDocument))
	assert.Equal(t, ExportMimePDF, ExportMimeType(MimeTypeSlides))
	// Unknown native types fall back to PDF.
	assert.Equal(t, ExportMimePDF, ExportMimeType("application/vnd.google-apps.drawing"))
}

func TestIsNative(t *testing.T) {
	assert.True(t, IsNative(MimeTypeDocument))
	assert.True(t, IsNative(MimeTypeFolder))
	assert.False(t, IsNative("text/csv"))
	assert.False(t, IsNative(""))
}

func TestWrapError(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusTooManyRequests, ErrRateLimited},
	}
	for _, tt := range tests {
		err := WrapError(&googleapi.Error{Code: tt.code})
		assert.ErrorIs(t, err, tt.want, "status %d", tt.code)
	}

	// Unmapped codes and nil pass through unchanged.
	raw := &googleapi.Error{Code: http.StatusBadGateway}
	assert.Equal(t, error(raw), WrapError(raw))
	assert.NoError(t, WrapError(nil))
}

func TestErrorPredicates(t *testing.T) {
	assert.True(t, IsNotFound(&googleapi.Error{Code: http.StatusNotFound}))
	assert.True(t, IsNotFound(ErrNotFound))
	assert.False(t, IsNotFound(&googleapi.Error{Code: http.StatusForbidden}))

	assert.True(t, IsRateLimited(&googleapi.Error{Code: http.StatusTooManyRequests}))
	assert.True(t, IsRateLimited(ErrRateLimited))
	assert.False(t, IsRateLimited(nil))
}

func TestToRecord(t *testing.T) {
	rec := toRecord(&gdrive.File{
		Id:           "id-1",
		Name:         "data.csv",
		MimeType:     "text/csv",
		Size:         512,
		ModifiedTime: "2026-08-20T10:30:00Z",
	})

	assert.Equal(t, "id-1", rec.ID)
	assert.Equal(t, "data.csv", rec.Name)
	assert.Equal(t, int64(512), rec.Size)
	assert.Equal(t, time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC), rec.ModifiedTime)

	// Malformed timestamps are tolerated.
	rec = toRecord(&gdrive.File{Id: "id-2", ModifiedTime: "not-a-time"})
	assert.True(t, rec.ModifiedTime.IsZero())
}

func TestRateLimiterBackoffWindow(t *testing.T) {
	rl := NewRateLimiter()
	rl.RecordRateLimitError(20 * time.Millisecond)

	start := time.Now()
	err := rl.Wait(t.Context())
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

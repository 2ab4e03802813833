package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"data.csv", "csv"},
		{"DATA.CSV", "csv"},
		{"archive.tar.gz", "gz"},
		{"README", ""},
		{"trailing.", ""},
	}

	for _, tt := range tests {
		rec := FileRecord{Name: tt.name}
		assert.Equal(t, tt.want, rec.Extension(), "name %q", tt.name)
	}
}

func TestFail(t *testing.T) {
	rec := FileRecord{Status: StatusDownloaded}
	rec.Fail(errors.New("upload refused"))

	assert.Equal(t, StatusFailed, rec.Status)
	assert.Equal(t, "upload refused", rec.ErrorMessage)
}

func TestFinishTalliesCounters(t *testing.T) {
	res := NewCycleResult()
	res.Files = []FileRecord{
		{Name: "a.csv", Status: StatusArchived},
		{Name: "b.csv", Status: StatusUploaded},
		{Name: "c.csv", Status: StatusFailed, ErrorMessage: "boom"},
		{Name: "d.csv", Status: StatusDownloaded},
	}
	res.Finish()

	assert.Equal(t, 2, res.Uploaded)
	assert.Equal(t, 1, res.Failed)
	assert.NotEmpty(t, res.ID)
	assert.False(t, res.EndedAt.IsZero())
}

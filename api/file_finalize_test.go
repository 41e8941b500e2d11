package api_test

import (
	"errors"
	"net/http"
	"testing"

	"sigantara/file-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finalizeBody() map[string]any {
	return map[string]any{
		"fileId":    "9b1c6f2a-0000-0000-0000-000000000000",
		"tempPath":  "temp/2/9b1c6f2a/report.pdf",
		"filename":  "report.pdf",
		"mimeType":  "application/pdf",
		"sizeBytes": 1234,
	}
}

func TestFileFinalize(t *testing.T) {
	router, conn, _, q := newTestAPI(t)

	w := doJSON(t, router, http.MethodPost, "/files/finalize", finalizeBody())
	require.Equal(t, http.StatusOK, w.Code)

	body := parseJSON(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, model.StatusUploaded, body["status"])

	var file model.File
	require.NoError(t, conn.First(&file).Error)

	assert.Equal(t, model.StatusUploaded, file.Status)
	assert.Equal(t, uint(2), file.TeamID)
	assert.Equal(t, uint(1), file.UserID)
	assert.Equal(t, "report.pdf", file.Filename)
	assert.Equal(t, "temp/2/9b1c6f2a/report.pdf", file.OriginalPath)
	assert.Equal(t, int64(1234), file.SizeBytes)

	require.Len(t, q.payloads, 1)
	assert.Equal(t, file.ID, q.payloads[0].FileID)
	assert.Equal(t, file.TeamID, q.payloads[0].TeamID)
	assert.Equal(t, file.OriginalPath, q.payloads[0].TempPath)
	assert.Equal(t, file.MimeType, q.payloads[0].MimeType)
}

func TestFileFinalizeValidation(t *testing.T) {
	router, conn, _, q := newTestAPI(t)

	cases := []struct {
		name  string
		strip string
	}{
		{"missing fileId", "fileId"},
		{"missing tempPath", "tempPath"},
		{"missing filename", "filename"},
		{"missing mimeType", "mimeType"},
		{"missing sizeBytes", "sizeBytes"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			body := finalizeBody()
			delete(body, c.strip)

			w := doJSON(t, router, http.MethodPost, "/files/finalize", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	var count int64
	require.NoError(t, conn.Model(model.File{}).Count(&count).Error)
	assert.Zero(t, count, "rejected finalize must not persist a record")
	assert.Empty(t, q.payloads)
}

func TestFileFinalizeKeepsRecordWhenEnqueueFails(t *testing.T) {
	router, conn, _, q := newTestAPI(t)
	q.err = errors.New("redis down")

	w := doJSON(t, router, http.MethodPost, "/files/finalize", finalizeBody())
	require.Equal(t, http.StatusInternalServerError, w.Code)

	// The record stays in UPLOADED so the reconciliation sweep can
	// re-enqueue it later
	var file model.File
	require.NoError(t, conn.First(&file).Error)
	assert.Equal(t, model.StatusUploaded, file.Status)
}

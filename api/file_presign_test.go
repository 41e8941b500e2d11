package api_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilePresign(t *testing.T) {
	router, _, _, _ := newTestAPI(t)

	w := doJSON(t, router, http.MethodPost, "/files/presign", map[string]any{
		"filename": "report.pdf",
		"mimeType": "application/pdf",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := parseJSON(t, w)

	fileID, _ := body["fileId"].(string)
	assert.NotEmpty(t, fileID)

	tempPath, _ := body["tempPath"].(string)
	assert.True(t, strings.HasPrefix(tempPath, "temp/2/"), "tempPath %q", tempPath)
	assert.True(t, strings.HasSuffix(tempPath, "/report.pdf"), "tempPath %q", tempPath)
	assert.Contains(t, tempPath, fileID)

	uploadURL, _ := body["uploadUrl"].(string)
	assert.Equal(t, "https://bucket.test/upload/"+tempPath, uploadURL)
}

func TestFilePresignTokensDiffer(t *testing.T) {
	router, _, _, _ := newTestAPI(t)

	body := map[string]any{
		"filename": "report.pdf",
		"mimeType": "application/pdf",
	}

	first := parseJSON(t, doJSON(t, router, http.MethodPost, "/files/presign", body))
	second := parseJSON(t, doJSON(t, router, http.MethodPost, "/files/presign", body))

	assert.NotEqual(t, first["fileId"], second["fileId"])
	assert.NotEqual(t, first["tempPath"], second["tempPath"])
}

func TestFilePresignValidation(t *testing.T) {
	router, _, _, _ := newTestAPI(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing filename", map[string]any{"mimeType": "image/png"}},
		{"missing mime type", map[string]any{"filename": "a.png"}},
		{"path separator in filename", map[string]any{"filename": "../a.png", "mimeType": "image/png"}},
		{"backslash in filename", map[string]any{"filename": `a\b.png`, "mimeType": "image/png"}},
		{"name too long", map[string]any{"filename": strings.Repeat("a", 300) + ".png", "mimeType": "image/png"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/files/presign", c.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

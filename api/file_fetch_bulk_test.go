package api_test

import (
	"net/http"
	"testing"

	"sigantara/file-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedTeamFile(t *testing.T, conn *gorm.DB, teamID uint, filename string) {
	t.Helper()

	require.NoError(t, conn.Create(&model.File{
		TeamID:           teamID,
		UserID:           1,
		Filename:         filename,
		OriginalFilename: filename,
		MimeType:         "text/plain",
		SizeBytes:        1,
		OriginalPath:     "temp/x/" + filename,
		Status:           model.StatusUploaded,
	}).Error)
}

func listFilenames(t *testing.T, body map[string]any) []string {
	t.Helper()

	raw, ok := body["files"].([]any)
	require.True(t, ok)

	var names []string
	for _, f := range raw {
		m, ok := f.(map[string]any)
		require.True(t, ok)
		names = append(names, m["filename"].(string))
	}

	return names
}

func TestFileFetchBulkScopedToTeam(t *testing.T) {
	router, conn, _, _ := newTestAPIAs(t, 1, 2, model.RoleTim)

	seedTeamFile(t, conn, 2, "mine.txt")
	seedTeamFile(t, conn, 3, "theirs.txt")

	w := doJSON(t, router, http.MethodGet, "/files", nil)
	require.Equal(t, http.StatusOK, w.Code)

	names := listFilenames(t, parseJSON(t, w))
	assert.Equal(t, []string{"mine.txt"}, names)
}

func TestFileFetchBulkAdminSeesEverything(t *testing.T) {
	router, conn, _, _ := newTestAPIAs(t, 1, 0, model.RoleAdmin)

	seedTeamFile(t, conn, 2, "mine.txt")
	seedTeamFile(t, conn, 3, "theirs.txt")

	w := doJSON(t, router, http.MethodGet, "/files", nil)
	require.Equal(t, http.StatusOK, w.Code)

	names := listFilenames(t, parseJSON(t, w))
	assert.ElementsMatch(t, []string{"mine.txt", "theirs.txt"}, names)
}

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"sigantara/file-api/api"
	"sigantara/file-api/internal/model"
	"sigantara/file-api/queue"
	"sigantara/file-api/storage"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (f *fakeStore) Put(_ context.Context, key string, data []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.objects[key] = data
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.objects[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return data, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.objects, key)
	return nil
}

func (f *fakeStore) PresignPut(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://bucket.test/upload/" + key, nil
}

func (f *fakeStore) DirectLink(key string) string {
	return "https://cdn.test/" + key
}

type stubQueue struct {
	mu       sync.Mutex
	payloads []*queue.ProcessPayload
	err      error
}

func (s *stubQueue) EnqueueProcess(_ context.Context, p *queue.ProcessPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}

	s.payloads = append(s.payloads, p)
	return nil
}

// newTestAPI builds a router with the auth middleware replaced by a stub
// identity, the handlers under test only see context values
func newTestAPI(t *testing.T) (*gin.Engine, *gorm.DB, *fakeStore, *stubQueue) {
	t.Helper()
	return newTestAPIAs(t, 1, 2, model.RoleTim)
}

func newTestAPIAs(t *testing.T, userID, teamID uint, role string) (*gin.Engine, *gorm.DB, *fakeStore, *stubQueue) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	viper.Set("upload.max_name_length", 255)
	viper.Set("upload.presign_ttl", "1h")

	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(model.Team{}, model.User{}, model.File{}, model.ProcessingLog{}))

	store := newFakeStore()
	q := &stubQueue{}

	a := &api.API{
		DB:    conn,
		Store: store,
		Queue: q,
	}

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("requestID", "test-request")
		c.Set("userID", userID)
		c.Set("teamID", teamID)
		c.Set("role", role)
	})

	router.POST("/files/presign", a.FilePresign)
	router.POST("/files/finalize", a.FileFinalize)
	router.GET("/files", a.FileFetchBulk)

	return router, conn, store, q
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func parseJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))

	return out
}

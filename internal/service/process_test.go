package service_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"sigantara/file-api/internal/model"
	"sigantara/file-api/internal/service"
	"sigantara/file-api/queue"
	"sigantara/file-api/storage"
	"sigantara/file-api/transform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeStore struct {
	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
	failDelete   bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		objects:      map[string][]byte{},
		contentTypes: map[string]string{},
	}
}

func (f *fakeStore) Put(_ context.Context, key string, data []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.objects[key] = data
	f.contentTypes[key] = contentType
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

	if f.failDelete {
		return errors.New("delete refused")
	}

	delete(f.objects, key)
	delete(f.contentTypes, key)
	return nil
}

func (f *fakeStore) PresignPut(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://bucket.test/upload/" + key, nil
}

func (f *fakeStore) DirectLink(key string) string {
	return "https://cdn.test/" + key
}

func (f *fakeStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.objects[key]
	return ok
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(model.File{}, model.ProcessingLog{}))

	return conn
}

func makePNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 64, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

func seedFile(t *testing.T, conn *gorm.DB, filename, mimeType, tempPath string) *model.File {
	t.Helper()

	file := model.File{
		TeamID:           2,
		UserID:           1,
		Filename:         filename,
		OriginalFilename: filename,
		MimeType:         mimeType,
		SizeBytes:        1,
		OriginalPath:     tempPath,
		Status:           model.StatusUploaded,
	}
	require.NoError(t, conn.Create(&file).Error)

	return &file
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func logsFor(t *testing.T, conn *gorm.DB, fileID uint) []model.ProcessingLog {
	t.Helper()

	var logs []model.ProcessingLog
	require.NoError(t, conn.Where("file_id = ?", fileID).Order("id").Find(&logs).Error)

	return logs
}

func TestProcessorRecompressesImage(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	store := newFakeStore()
	proc := service.NewProcessor(conn, store, transform.NewRegistry(64, 80))

	tempPath := "temp/2/abc/photo.png"
	original := makePNG(t, 128, 96)
	require.NoError(t, store.Put(ctx, tempPath, original, "image/png"))

	file := seedFile(t, conn, "photo.png", "image/png", tempPath)

	err := proc.HandleProcess(ctx, &queue.ProcessPayload{
		FileID:   file.ID,
		TeamID:   file.TeamID,
		TempPath: tempPath,
		MimeType: file.MimeType,
		Filename: file.Filename,
	}, 1, 3)
	require.NoError(t, err)

	var got model.File
	require.NoError(t, conn.First(&got, file.ID).Error)

	assert.Equal(t, model.StatusDone, got.Status)

	require.NotNil(t, got.FinalPath)
	assert.Equal(t, "files/2/"+itoa(file.ID)+"/photo.webp", *got.FinalPath)

	require.NotNil(t, got.DirectLink)
	assert.Equal(t, "https://cdn.test/"+*got.FinalPath, *got.DirectLink)

	out, err := store.Get(ctx, *got.FinalPath)
	require.NoError(t, err)
	assert.NotEqual(t, original, out)

	require.NotNil(t, got.ProcessedSizeBytes)
	assert.Equal(t, int64(len(out)), *got.ProcessedSizeBytes)

	assert.False(t, store.has(tempPath), "temp object should be gone after success")

	logs := logsFor(t, conn, file.ID)
	require.Len(t, logs, 2)
	assert.Equal(t, model.StatusProcessing, logs[0].Status)
	assert.Equal(t, model.StatusDone, logs[1].Status)
}

func TestProcessorPassesThroughUnknownTypes(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	store := newFakeStore()
	proc := service.NewProcessor(conn, store, transform.NewRegistry(64, 80))

	tempPath := "temp/2/abc/notes.txt"
	original := []byte("plain text survives untouched")
	require.NoError(t, store.Put(ctx, tempPath, original, "text/plain"))

	file := seedFile(t, conn, "notes.txt", "text/plain", tempPath)

	err := proc.HandleProcess(ctx, &queue.ProcessPayload{
		FileID:   file.ID,
		TeamID:   file.TeamID,
		TempPath: tempPath,
		MimeType: file.MimeType,
		Filename: file.Filename,
	}, 1, 3)
	require.NoError(t, err)

	var got model.File
	require.NoError(t, conn.First(&got, file.ID).Error)

	assert.Equal(t, model.StatusDone, got.Status)

	require.NotNil(t, got.FinalPath)
	assert.Equal(t, "files/2/"+itoa(file.ID)+"/notes.txt", *got.FinalPath)

	out, err := store.Get(ctx, *got.FinalPath)
	require.NoError(t, err)
	assert.Equal(t, original, out)

	require.NotNil(t, got.ProcessedSizeBytes)
	assert.Equal(t, int64(len(original)), *got.ProcessedSizeBytes)
}

func TestProcessorMarksFailedAtAttemptCap(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	store := newFakeStore()
	proc := service.NewProcessor(conn, store, transform.NewRegistry(64, 80))

	tempPath := "temp/2/abc/broken.png"
	require.NoError(t, store.Put(ctx, tempPath, []byte("not a png at all"), "image/png"))

	file := seedFile(t, conn, "broken.png", "image/png", tempPath)

	job := &queue.ProcessPayload{
		FileID:   file.ID,
		TeamID:   file.TeamID,
		TempPath: tempPath,
		MimeType: file.MimeType,
		Filename: file.Filename,
	}

	for attempt := 1; attempt <= 3; attempt++ {
		err := proc.HandleProcess(ctx, job, attempt, 3)
		require.Error(t, err, "attempt %d", attempt)
	}

	var got model.File
	require.NoError(t, conn.First(&got, file.ID).Error)

	assert.Equal(t, model.StatusFailed, got.Status)
	assert.Nil(t, got.FinalPath)

	assert.True(t, store.has(tempPath), "temp object must survive a terminal failure")

	logs := logsFor(t, conn, file.ID)
	require.Len(t, logs, 6)

	failed := 0
	for _, l := range logs {
		if l.Status == model.StatusFailed {
			failed++
			require.NotNil(t, l.ErrorMessage)
			assert.NotEmpty(t, *l.ErrorMessage)
		}
	}
	assert.Equal(t, 3, failed)
}

func TestProcessorDuplicateDeliveryConverges(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	store := newFakeStore()
	proc := service.NewProcessor(conn, store, transform.NewRegistry(64, 80))

	tempPath := "temp/2/abc/notes.txt"
	original := []byte("delivered twice")
	require.NoError(t, store.Put(ctx, tempPath, original, "text/plain"))

	file := seedFile(t, conn, "notes.txt", "text/plain", tempPath)

	job := &queue.ProcessPayload{
		FileID:   file.ID,
		TeamID:   file.TeamID,
		TempPath: tempPath,
		MimeType: file.MimeType,
		Filename: file.Filename,
	}

	// First delivery succeeds but the temp cleanup fails, which must not
	// fail the attempt
	store.failDelete = true
	require.NoError(t, proc.HandleProcess(ctx, job, 1, 3))
	assert.True(t, store.has(tempPath))

	// Redelivery of the same job overwrites the same final key and ends
	// in the same state
	store.failDelete = false
	require.NoError(t, proc.HandleProcess(ctx, job, 1, 3))

	var got model.File
	require.NoError(t, conn.First(&got, file.ID).Error)

	assert.Equal(t, model.StatusDone, got.Status)

	require.NotNil(t, got.FinalPath)
	out, err := store.Get(ctx, *got.FinalPath)
	require.NoError(t, err)
	assert.Equal(t, original, out)

	assert.False(t, store.has(tempPath))
}

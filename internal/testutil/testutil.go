// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"
	"sync"
	"testing"

	"recipe-finder/entities"
	"recipe-finder/internal/utils/storage"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory sqlite database with every table migrated.
// The pool is pinned to one connection so all queries see the same memory db.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(entities.Models()...))
	return db
}

// FakeS3 keeps uploaded objects in memory and applies the same type checks
// as the real bucket client.
type FakeS3 struct {
	mu      sync.Mutex
	Objects map[string][]byte
}

func NewFakeS3() *FakeS3 {
	return &FakeS3{Objects: map[string][]byte{}}
}

const fakeBase = "https://test-bucket.s3.local"

func (f *FakeS3) UploadFile(ctx context.Context, fileName string, file *multipart.FileHeader, dir string, allowTypes ...string) (string, error) {
	data, err := read(file)
	if err != nil {
		return "", err
	}
	return f.UploadBytes(ctx, fileName, data, dir, allowTypes...)
}

func (f *FakeS3) UploadBytes(_ context.Context, fileName string, data []byte, dir string, allowTypes ...string) (string, error) {
	mtype, err := storage.DetectType(data, allowTypes...)
	if err != nil {
		return "", err
	}

	key := path.Join(dir, fileName+mtype.Extension())
	f.put(key, data)
	return key, nil
}

func (f *FakeS3) DeleteFile(_ context.Context, objectKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Objects, objectKey)
	return nil
}

func (f *FakeS3) GetPublicLinkKey(objectKey string) string {
	return fmt.Sprintf("%s/%s", fakeBase, objectKey)
}

func (f *FakeS3) GetObjectKeyFromLink(link string) string {
	if !strings.HasPrefix(link, fakeBase+"/") {
		return ""
	}
	return strings.TrimPrefix(link, fakeBase+"/")
}

func (f *FakeS3) Has(objectKey string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.Objects[objectKey]
	return ok
}

func (f *FakeS3) put(key string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Objects[key] = data
}

func read(file *multipart.FileHeader) ([]byte, error) {
	if file == nil {
		return nil, storage.ErrEmptyFile
	}
	r, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// PNG is a minimal valid image for upload tests.
var PNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0a, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

// JPEG is a JFIF header, enough for type sniffing.
var JPEG = []byte{
	0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 0x4a, 0x46,
	0x49, 0x46, 0x00, 0x01, 0x01, 0x00, 0x00, 0x01,
	0x00, 0x01, 0x00, 0x00, 0xff, 0xd9,
}

var _ storage.AwsS3 = (*FakeS3)(nil)

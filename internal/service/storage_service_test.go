package service

import (
	"testing"

	"coursehub_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStorageServiceLocal(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Type = "local"
	cfg.Storage.LocalPath = t.TempDir()

	svc := NewStorageService(cfg)

	_, ok := svc.Provider.(*LocalStorageProvider)
	assert.True(t, ok)
}

func TestNewStorageServiceMinioFallsBackToLocal(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Type = "minio"
	cfg.Storage.MinioEndpoint = "://not an endpoint"
	cfg.Storage.LocalPath = t.TempDir()

	svc := NewStorageService(cfg)

	require.NotNil(t, svc.Provider)
	_, ok := svc.Provider.(*LocalStorageProvider)
	assert.True(t, ok, "a broken minio config degrades to local storage instead of failing startup")
}

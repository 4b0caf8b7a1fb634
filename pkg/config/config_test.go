package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, []string{"pdf", "doc", "docx", "txt"}, cfg.Upload.AllowedExts)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:8080"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_CORSOriginsFromEnv(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://careers.example.com, https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://careers.example.com",
		"https://admin.example.com",
	}, cfg.CORS.AllowedOrigins)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList("a, b"))
	assert.Equal(t, []string{"a"}, splitList("a,,"))
	assert.Empty(t, splitList(""))
}

func TestSplitExts(t *testing.T) {
	assert.Equal(t, []string{"pdf", "docx"}, splitExts(".PDF, docx"))
	assert.Empty(t, splitExts(""))
}

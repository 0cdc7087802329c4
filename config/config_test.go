package config

import (
	"context"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/jmgilman/gitview/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(context.Background(), []byte("path: /srv/content\n"))
	require.NoError(t, err)

	assert.Equal(t, &Config{
		Backend: BackendNative,
		Path:    "/srv/content",
		Log:     Log{Level: "info", Format: "text"},
	}, cfg)
}

func TestParse_Hosted(t *testing.T) {
	data := `
backend: hosted
branch: main
hosted:
  owner: jmgilman
  repo: content
  base_url: https://github.example.com/api/v3/
user:
  name: Jane Doe
  email: jane@example.com
log:
  level: debug
  format: json
`
	cfg, err := Parse(context.Background(), []byte(data))
	require.NoError(t, err)

	assert.Equal(t, BackendHosted, cfg.Backend)
	assert.Equal(t, "main", cfg.Branch)
	require.NotNil(t, cfg.Hosted)
	assert.Equal(t, Hosted{
		Owner:     "jmgilman",
		Repo:      "content",
		BaseURL:   "https://github.example.com/api/v3/",
		TokenEnv:  "GITHUB_TOKEN",
		CacheSize: 1024,
	}, *cfg.Hosted)
	assert.Equal(t, &User{Name: "Jane Doe", Email: "jane@example.com"}, cfg.User)
	assert.Equal(t, Log{Level: "debug", Format: "json"}, cfg.Log)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not yaml", data: "backend: [native"},
		{name: "unknown backend", data: "backend: svn\npath: /x"},
		{name: "unknown field", data: "path: /x\ncolour: blue"},
		{name: "bad log level", data: "path: /x\nlog:\n  level: loud"},
		{name: "bad email", data: "path: /x\nuser:\n  name: Jane\n  email: nope"},
		{name: "hosted without owner", data: "backend: hosted\nhosted:\n  repo: content"},
		{name: "hosted without section", data: "backend: hosted"},
		{name: "native without path", data: "backend: native"},
		{name: "negative cache", data: "backend: hosted\nhosted:\n  owner: a\n  repo: b\n  cache_size: -1"},
		{name: "empty document", data: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(context.Background(), []byte(tt.data))
			require.Error(t, err)
			assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
		})
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "/etc/gitview.yaml", []byte("backend: cli\npath: /srv/content\n"), 0o644))

	cfg, err := Load(ctx, fs, "/etc/gitview.yaml")
	require.NoError(t, err)
	assert.Equal(t, BackendCLI, cfg.Backend)
	assert.Equal(t, "/srv/content", cfg.Path)

	_, err = Load(ctx, fs, "/etc/missing.yaml")
	assert.True(t, errors.IsNotFound(err))
}

func TestPath(t *testing.T) {
	t.Setenv(EnvPath, "")
	assert.Equal(t, DefaultPath, Path())

	t.Setenv(EnvPath, "/etc/gitview.yaml")
	assert.Equal(t, "/etc/gitview.yaml", Path())
}

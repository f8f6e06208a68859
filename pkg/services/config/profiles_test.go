package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/dr-readiness/pkg/models/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRegistry_GetProfiles(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "config", `[default]
region = us-east-1

[profile prod]
region = eu-west-1
output = json
`)
	credentialsPath := writeFile(t, dir, "credentials", `[default]
aws_access_key_id = AKIDEXAMPLE
aws_secret_access_key = secret

[ci]
aws_access_key_id = AKIDCI
aws_secret_access_key = secret
`)

	profiles, err := NewRegistry(configPath, credentialsPath).GetProfiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.ConfigProfile{
		{Name: "default", Source: domain.ProfileSourceConfig, Region: "us-east-1"},
		{Name: "prod", Source: domain.ProfileSourceConfig, Region: "eu-west-1"},
		{Name: "ci", Source: domain.ProfileSourceCredentials},
	}, profiles)
}

func TestRegistry_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	profiles, err := NewRegistry(filepath.Join(dir, "nope"), "").GetProfiles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestRegistry_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "config", "[default\nregion")

	_, err := NewRegistry(configPath, "").GetProfiles(context.Background())
	assert.Error(t, err)
}

func TestConfigProfile_String(t *testing.T) {
	p := domain.ConfigProfile{Name: "prod", Source: domain.ProfileSourceConfig}
	assert.Equal(t, "config:prod", p.String())
}

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/de-tools/dr-readiness/pkg/models/domain"
)

type Registry interface {
	GetProfiles(ctx context.Context) ([]domain.ConfigProfile, error)
}

type profileRegistry struct {
	configPath      string
	credentialsPath string
}

// NewRegistry lists the profiles of the AWS shared config and credentials
// files. Missing files are treated as empty.
func NewRegistry(configPath, credentialsPath string) Registry {
	return &profileRegistry{configPath: configPath, credentialsPath: credentialsPath}
}

// NewDefaultRegistry uses AWS_CONFIG_FILE and AWS_SHARED_CREDENTIALS_FILE,
// falling back to ~/.aws.
func NewDefaultRegistry() (Registry, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	configPath := os.Getenv("AWS_CONFIG_FILE")
	if configPath == "" {
		configPath = filepath.Join(home, ".aws", "config")
	}
	credentialsPath := os.Getenv("AWS_SHARED_CREDENTIALS_FILE")
	if credentialsPath == "" {
		credentialsPath = filepath.Join(home, ".aws", "credentials")
	}
	return NewRegistry(configPath, credentialsPath), nil
}

// GetProfiles returns config file profiles first. A profile present in both
// files is reported once, from the config file.
func (r *profileRegistry) GetProfiles(_ context.Context) ([]domain.ConfigProfile, error) {
	var profiles []domain.ConfigProfile
	seen := make(map[string]bool)

	sources := []struct {
		path   string
		source domain.ProfileSource
	}{
		{r.configPath, domain.ProfileSourceConfig},
		{r.credentialsPath, domain.ProfileSourceCredentials},
	}
	for _, src := range sources {
		cfg, err := loadIni(src.path)
		if err != nil {
			return nil, err
		}
		if cfg == nil {
			continue
		}

		for _, section := range cfg.Sections() {
			if len(section.Keys()) == 0 {
				continue
			}
			name := section.Name()
			if src.source == domain.ProfileSourceConfig {
				name = strings.TrimPrefix(name, "profile ")
			}
			if seen[name] {
				continue
			}
			seen[name] = true
			profiles = append(profiles, domain.ConfigProfile{
				Name:   name,
				Source: src.source,
				Region: section.Key("region").String(),
			})
		}
	}
	return profiles, nil
}

func loadIni(path string) (*ini.File, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

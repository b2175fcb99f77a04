package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrSiteFileNotFound is returned when the site file does not exist.
var ErrSiteFileNotFound = errors.New("site file not found")

// SiteFile describes the featured work and the origins allowed to embed it.
//
//	title: Tide Lines
//	document: ./public/tide-lines.pdf
//	allowed_origins:
//	  - https://author.example
type SiteFile struct {
	Title          string   `yaml:"title"`
	Document       string   `yaml:"document"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LoadSiteFile reads a YAML site file.
func LoadSiteFile(path string) (*SiteFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-provided path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSiteFileNotFound
		}
		return nil, err
	}

	var sf SiteFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, err
	}
	return &sf, nil
}

func (s *SiteFile) apply(cfg *AppConfig) {
	if s.Title != "" {
		cfg.DocumentTitle = s.Title
	}
	if s.Document != "" {
		cfg.DocumentPath = s.Document
	}
	if len(s.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = s.AllowedOrigins
	}
}

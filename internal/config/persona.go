package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fenloai/jobscout/internal/types"
)

// File names looked up inside ConfigDir.
const (
	userProfileFile = "user_profile.yaml"
	projectsFile    = "projects.yaml"
	guidelinesFile  = "proposal_guidelines.yaml"
)

type userProfileDoc struct {
	Profile types.UserProfile `yaml:"profile"`
}

type projectsDoc struct {
	Projects []types.Project `yaml:"projects"`
}

type guidelinesDoc struct {
	Guidelines types.Guidelines `yaml:"guidelines"`
}

// LoadUserProfile reads the operator's pitch material. An empty bio is
// allowed; the proposal prompt falls back to a generic line.
func LoadUserProfile(dir string) (*types.UserProfile, error) {
	var doc userProfileDoc
	if err := loadYAML(filepath.Join(dir, userProfileFile), &doc); err != nil {
		return nil, err
	}
	return &doc.Profile, nil
}

// LoadProjects reads the portfolio entries used for proposal context.
func LoadProjects(dir string) ([]types.Project, error) {
	var doc projectsDoc
	if err := loadYAML(filepath.Join(dir, projectsFile), &doc); err != nil {
		return nil, err
	}
	return doc.Projects, nil
}

// LoadGuidelines reads the proposal style guidelines. Missing file is
// not an error: generation works with the built-in defaults.
func LoadGuidelines(dir string) (*types.Guidelines, error) {
	path := filepath.Join(dir, guidelinesFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &types.Guidelines{}, nil
	}
	var doc guidelinesDoc
	if err := loadYAML(path, &doc); err != nil {
		return nil, err
	}
	return &doc.Guidelines, nil
}

func loadYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoadUserProfile(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, userProfileFile, `
profile:
  bio: Backend engineer focused on data pipelines.
  specializations:
    - Web Scraping
  unique_value: Ships production crawlers.
`)

	profile, err := LoadUserProfile(dir)
	require.NoError(t, err)
	assert.Equal(t, "Backend engineer focused on data pipelines.", profile.Bio)
	assert.Equal(t, []string{"Web Scraping"}, profile.Specializations)
}

func TestLoadUserProfile_MissingFile(t *testing.T) {
	_, err := LoadUserProfile(t.TempDir())
	assert.Error(t, err)
}

func TestLoadProjects(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, projectsFile, `
projects:
  - title: Price monitoring crawler
    description: Large-scale scraping platform.
    technologies: [Playwright, PostgreSQL]
    outcomes: Tracks 40k SKUs daily.
`)

	projects, err := LoadProjects(dir)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Price monitoring crawler", projects[0].Title)
	assert.Equal(t, []string{"Playwright", "PostgreSQL"}, projects[0].Technologies)
}

func TestLoadGuidelines(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, guidelinesFile, `
guidelines:
  tone: friendly
  max_length: 250
  avoid_phrases:
    - I am writing to express
`)

	guidelines, err := LoadGuidelines(dir)
	require.NoError(t, err)
	assert.Equal(t, "friendly", guidelines.Tone)
	assert.Equal(t, 250, guidelines.MaxLength)
}

func TestLoadGuidelines_MissingFileIsEmpty(t *testing.T) {
	guidelines, err := LoadGuidelines(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, guidelines.Tone)
	assert.Zero(t, guidelines.MaxLength)
}

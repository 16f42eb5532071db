package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/pluginscout/internal/domain/marketplace"
)

func TestCompactLine(t *testing.T) {
	t.Parallel()

	rec := marketplace.Record{
		Name:        "notion-sync",
		Category:    "productivity",
		Owner:       "Acme Tools",
		Description: "Sync pages with Notion",
	}
	assert.Equal(t, "notion-sync (productivity) [Acme Tools] - Sync pages with Notion", compactLine(rec))

	rec.Description = ""
	assert.Equal(t, "notion-sync (productivity) [Acme Tools] - No description", compactLine(rec))
}

func TestFeatureNames(t *testing.T) {
	t.Parallel()

	commands := []marketplace.Command{
		{Name: "deploy", Path: "commands/deploy.md"},
		{Name: "rollback", Path: "commands/rollback.md"},
	}
	assert.Equal(t, []string{"deploy", "rollback"}, commandNames(commands))

	skills := []marketplace.Skill{{Name: "release-notes", Path: "skills/release-notes/SKILL.md"}}
	assert.Equal(t, []string{"release-notes"}, skillNames(skills))
}

func TestYesNo(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Yes", yesNo(true))
	assert.Equal(t, "No", yesNo(false))
}

func TestConfigPath_FlagWins(t *testing.T) {
	orig := cfgFile
	defer func() { cfgFile = orig }()

	cfgFile = "/etc/pluginscout/marketplaces.yaml"
	require.Equal(t, "/etc/pluginscout/marketplaces.yaml", configPath())
}

package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree_PrintsDisplayOrder(t *testing.T) {
	path := writeFile(t, t.TempDir(), "events.json", validManifest)

	stdout, _, err := runCLI(t, "tree", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, `[1] Creation (creation)
  [1] Light (light)
  [2] Eden (eden)
[2] The Flood (flood)

4 events
`)
}

func TestTree_WarnsAboutUnorderedEvents(t *testing.T) {
	path := writeFile(t, t.TempDir(), "events.json", unorderedManifest)

	stdout, stderr, err := runCLI(t, "tree", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "events.light is missing an order value")
	assert.Contains(t, stdout, "  [-] Light (light)\n")
}

func TestTree_InvalidManifestPrintsIssuesOnly(t *testing.T) {
	path := writeFile(t, t.TempDir(), "events.json", brokenManifest)

	stdout, stderr, err := runCLI(t, "tree", path)
	require.Error(t, err)
	assert.Contains(t, stderr, "Validation failed with the following issues:")
	assert.NotContains(t, stdout, "(creation)")
}

func TestTree_JSONOutput(t *testing.T) {
	path := writeFile(t, t.TempDir(), "events.json", validManifest)

	stdout, _, err := runCLI(t, "tree", "--output=json", path)
	require.NoError(t, err)

	var roots []struct {
		ID       string `json:"id"`
		Children []struct {
			ID string `json:"id"`
		} `json:"children"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &roots))
	require.Len(t, roots, 2)
	assert.Equal(t, "creation", roots[0].ID)
	require.Len(t, roots[0].Children, 2)
	assert.Equal(t, "light", roots[0].Children[0].ID)
	assert.Equal(t, "eden", roots[0].Children[1].ID)
	assert.Equal(t, "flood", roots[1].ID)
}

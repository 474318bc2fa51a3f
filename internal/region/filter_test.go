package region

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTarget(t *testing.T) {
	tests := []struct {
		target   string
		expected string
	}{
		{"Phoenix-Mesa-Chandler, AZ MSA", "phoenix-mesa-chandler"},
		{"Tucson, AZ MSA", "tucson"},
		{"Dallas-Fort Worth-Arlington, TX", "dallas-fort worth-arlington"},
		{"Denver MSA", "denver"},
		{"  Boise City, ID MSA  ", "boise city"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeTarget(tt.target))
		})
	}
}

func TestMatchesTarget(t *testing.T) {
	targets := []string{
		"Phoenix-Mesa-Chandler, AZ MSA",
		"Tucson, AZ MSA",
	}

	tests := []struct {
		name       string
		regionName string
		expected   bool
	}{
		{
			name:       "suffix variation on the census side still matches",
			regionName: "Phoenix-Mesa-Chandler, AZ Metro Statistical Area",
			expected:   true,
		},
		{
			name:       "exact name",
			regionName: "Tucson, AZ",
			expected:   true,
		},
		{
			name:       "unrelated region",
			regionName: "Albuquerque, NM",
			expected:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, matchesTarget(tt.regionName, targets))
		})
	}
}

func TestFilterRegions_EmptyListKeepsAll(t *testing.T) {
	regions := []*Region{
		testRegion("1", "Phoenix-Mesa-Chandler, AZ", -113, 32, -111, 34),
		testRegion("2", "Albuquerque, NM", -107, 34, -106, 35),
	}
	assert.Len(t, filterRegions(regions, nil), 2)
}

func TestFilterRegions_DropsNonMatches(t *testing.T) {
	regions := []*Region{
		testRegion("1", "Phoenix-Mesa-Chandler, AZ", -113, 32, -111, 34),
		testRegion("2", "Albuquerque, NM", -107, 34, -106, 35),
	}
	kept := filterRegions(regions, []string{"Phoenix-Mesa-Chandler, AZ MSA"})
	require.Len(t, kept, 1)
	assert.Equal(t, "1", kept[0].Code)
}

func TestLoadTargets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.txt")
	content := "Phoenix-Mesa-Chandler, AZ MSA\nOther\n\nRural\nTucson, AZ MSA\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	targets, err := LoadTargets(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Phoenix-Mesa-Chandler, AZ MSA", "Tucson, AZ MSA"}, targets)
}

func TestLoadTargets_MissingFileMeansNoFilter(t *testing.T) {
	targets, err := LoadTargets(filepath.Join(t.TempDir(), "missing.txt"))
	require.NoError(t, err)
	assert.Nil(t, targets)
}

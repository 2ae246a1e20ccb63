package holiday

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holidays.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAndLookup(t *testing.T) {
	path := writeFile(t, `
holidays:
  - month: 1
    day: 1
    name: "New Year's Day"
  - month: 9
    day: 2
    name: "National Day"
  - month: 9
    day: 2
    name: "Company Anniversary"
`)

	cal, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"New Year's Day"},
		cal.LabelsFor(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, []string{"National Day", "Company Anniversary"},
		cal.LabelsFor(time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)))
	assert.Empty(t, cal.LabelsFor(time.Date(2024, 9, 3, 0, 0, 0, 0, time.UTC)))
}

func TestLoadAppliesEveryYear(t *testing.T) {
	path := writeFile(t, "holidays:\n  - month: 4\n    day: 30\n    name: Reunification Day\n")

	cal, err := Load(path)
	require.NoError(t, err)

	for _, year := range []int{2020, 2024, 2030} {
		assert.NotEmpty(t, cal.LabelsFor(time.Date(year, 4, 30, 0, 0, 0, 0, time.UTC)), "year %d", year)
	}
}

func TestLoadMissingFileIsEmptyCalendar(t *testing.T) {
	cal, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Empty(t, cal.LabelsFor(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestLoadEmptyPath(t *testing.T) {
	cal, err := Load("")
	require.NoError(t, err)
	assert.NotNil(t, cal)
}

func TestLoadRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"month out of range", "holidays:\n  - month: 13\n    day: 1\n    name: x\n"},
		{"day out of range", "holidays:\n  - month: 1\n    day: 32\n    name: x\n"},
		{"missing name", "holidays:\n  - month: 1\n    day: 1\n"},
		{"not yaml", "{{{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			assert.Error(t, err)
		})
	}
}

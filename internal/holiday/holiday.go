// Package holiday supplies decorative per-day labels for the calendar
// grids. Labels are purely additive; they never affect event occurrence.
package holiday

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Entry is one labeled day, keyed by month and day so it applies every year.
type Entry struct {
	Month int    `yaml:"month"`
	Day   int    `yaml:"day"`
	Name  string `yaml:"name"`
}

type file struct {
	Holidays []Entry `yaml:"holidays"`
}

// Calendar answers label lookups for fixed-date holidays.
type Calendar struct {
	byDay map[[2]int][]string
}

// Load reads holiday definitions from a YAML file. A missing path yields an
// empty calendar rather than an error, so the feature stays optional.
func Load(path string) (*Calendar, error) {
	cal := &Calendar{byDay: make(map[[2]int][]string)}
	if path == "" {
		return cal, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cal, nil
		}
		return nil, fmt.Errorf("read holiday file: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse holiday file: %w", err)
	}

	for _, e := range f.Holidays {
		if e.Month < 1 || e.Month > 12 || e.Day < 1 || e.Day > 31 || e.Name == "" {
			return nil, fmt.Errorf("invalid holiday entry %+v", e)
		}
		key := [2]int{e.Month, e.Day}
		cal.byDay[key] = append(cal.byDay[key], e.Name)
	}
	return cal, nil
}

// LabelsFor returns the labels for the given calendar day, if any.
func (c *Calendar) LabelsFor(day time.Time) []string {
	day = day.UTC()
	return c.byDay[[2]int{int(day.Month()), day.Day()}]
}

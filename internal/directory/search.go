// File: internal/directory/search.go
package directory

import (
	"sort"
	"strings"
)

// Search filters and orders a roster by skill name.
//
// An empty or whitespace-only query returns the roster unchanged, with no
// matched skills. Otherwise an entry is kept when at least one of its
// skill names contains the query, case-insensitively. Results are ordered
// by the years of each entry's first matching skill, descending; ties keep
// roster order. A matching skill without recorded years counts as 0.
func Search(query string, roster []Entry) []Result {
	results := make([]Result, 0, len(roster))

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		for _, e := range roster {
			results = append(results, Result{Entry: e})
		}
		return results
	}

	for _, e := range roster {
		if matched := firstMatch(e, q); matched != nil {
			results = append(results, Result{Entry: e, MatchedSkill: matched})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchedSkill.Years > results[j].MatchedSkill.Years
	})
	return results
}

// firstMatch returns the entry's first skill, in collection order, whose
// name contains the lowercased query.
func firstMatch(e Entry, q string) *SkillSummary {
	for i := range e.Skills {
		if strings.Contains(strings.ToLower(e.Skills[i].Name), q) {
			match := e.Skills[i]
			return &match
		}
	}
	return nil
}

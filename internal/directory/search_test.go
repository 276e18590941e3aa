// File: internal/directory/search_test.go
package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoster() []Entry {
	return []Entry{
		{
			UserID: "u1", Name: "Ada Lovelace", Email: "ada@example.com", Department: "Platform",
			Skills: []SkillSummary{{Name: "Go", Years: 3}, {Name: "PostgreSQL", Years: 6}},
		},
		{
			UserID: "u2", Name: "Grace Hopper", Email: "grace@example.com", Department: "Infra",
			Skills: []SkillSummary{{Name: "COBOL", Years: 30}, {Name: "Golang", Years: 8}},
		},
		{
			UserID: "u3", Name: "Alan Turing", Email: "alan@example.com",
			Skills: []SkillSummary{{Name: "Mathematics", Years: 15}},
		},
		{
			UserID: "u4", Name: "Edsger Dijkstra", Email: "edsger@example.com",
			Skills: []SkillSummary{{Name: "go", Years: 0}},
		},
		{
			UserID: "u5", Name: "No Skills", Email: "none@example.com",
			Skills: []SkillSummary{},
		},
	}
}

func resultIDs(results []Result) []string {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.UserID)
	}
	return ids
}

func TestSearch_EmptyQueryReturnsRosterUnchanged(t *testing.T) {
	roster := testRoster()

	for _, query := range []string{"", "   ", "\t"} {
		results := Search(query, roster)
		require.Len(t, results, len(roster))
		assert.Equal(t, []string{"u1", "u2", "u3", "u4", "u5"}, resultIDs(results))
		for _, r := range results {
			assert.Nil(t, r.MatchedSkill)
		}
	}
}

func TestSearch_CaseInsensitiveSubstring(t *testing.T) {
	results := Search("GO", testRoster())

	// u1 matches "Go" (3y), u2 matches "Golang" (8y), u4 matches "go" (0y).
	assert.Equal(t, []string{"u2", "u1", "u4"}, resultIDs(results))
}

func TestSearch_OrdersByFirstMatchingSkillYears(t *testing.T) {
	roster := []Entry{
		{UserID: "a", Skills: []SkillSummary{{Name: "Go", Years: 1}, {Name: "Going", Years: 99}}},
		{UserID: "b", Skills: []SkillSummary{{Name: "Go", Years: 5}}},
	}

	results := Search("go", roster)
	// The ordering key is the first matching skill, not the best one.
	require.Equal(t, []string{"b", "a"}, resultIDs(results))
	assert.Equal(t, 5, results[0].MatchedSkill.Years)
	assert.Equal(t, 1, results[1].MatchedSkill.Years)
}

func TestSearch_TiesKeepRosterOrder(t *testing.T) {
	roster := []Entry{
		{UserID: "x", Skills: []SkillSummary{{Name: "Go", Years: 4}}},
		{UserID: "y", Skills: []SkillSummary{{Name: "Go", Years: 4}}},
		{UserID: "z", Skills: []SkillSummary{{Name: "Go", Years: 4}}},
	}

	results := Search("go", roster)
	assert.Equal(t, []string{"x", "y", "z"}, resultIDs(results))
}

func TestSearch_NoMatchesReturnsEmpty(t *testing.T) {
	results := Search("haskell", testRoster())
	assert.Empty(t, results)
}

func TestSearch_MatchedSkillCarriedForHighlight(t *testing.T) {
	results := Search("postgres", testRoster())

	require.Len(t, results, 1)
	require.NotNil(t, results[0].MatchedSkill)
	assert.Equal(t, "PostgreSQL", results[0].MatchedSkill.Name)
	assert.Equal(t, 6, results[0].MatchedSkill.Years)
}

func TestSearch_MissingYearsCountAsZero(t *testing.T) {
	results := Search("go", testRoster())
	last := results[len(results)-1]
	assert.Equal(t, "u4", last.UserID)
	assert.Equal(t, 0, last.MatchedSkill.Years)
}

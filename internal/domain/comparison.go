package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/forge-journal/forge-identity/internal/domain/profilediff"
)

// ComparisonResult is the structural difference between two history
// snapshots. It is computed on demand and never stored.
type ComparisonResult struct {
	HistoryID1 int64          `json:"historyId1"`
	HistoryID2 int64          `json:"historyId2"`
	Date1      time.Time      `json:"date1"`
	Date2      time.Time      `json:"date2"`
	Changes    ProfileChanges `json:"changes"`
}

// ProfileChanges holds one change-set per document section. A section with
// no differences is an empty, non-nil set.
type ProfileChanges struct {
	Biographical       profilediff.Section `json:"biographical"`
	PersonalityProfile profilediff.Section `json:"personality_profile"`
	Meta               profilediff.Section `json:"meta"`
}

// Section returns the change-set for s, or nil for SectionAll.
func (c ProfileChanges) Section(s ProfileSection) profilediff.Section {
	switch s {
	case SectionBiographical:
		return c.Biographical
	case SectionPersonalityProfile:
		return c.PersonalityProfile
	case SectionMeta:
		return c.Meta
	}
	return nil
}

// IsEmpty reports whether no section changed.
func (c ProfileChanges) IsEmpty() bool {
	return len(c.Biographical) == 0 && len(c.PersonalityProfile) == 0 && len(c.Meta) == 0
}

// CompareDocuments diffs a against b section by section.
func CompareDocuments(a, b ProfileDocument) (ProfileChanges, error) {
	var changes ProfileChanges

	pairs := []struct {
		dst  *profilediff.Section
		from any
		to   any
	}{
		{&changes.Biographical, a.Biographical, b.Biographical},
		{&changes.PersonalityProfile, a.PersonalityProfile, b.PersonalityProfile},
		{&changes.Meta, a.Meta, b.Meta},
	}

	for _, p := range pairs {
		from, err := toTree(p.from)
		if err != nil {
			return ProfileChanges{}, err
		}
		to, err := toTree(p.to)
		if err != nil {
			return ProfileChanges{}, err
		}
		*p.dst = profilediff.Compare(from, to)
	}

	return changes, nil
}

// toTree converts a typed section into the generic JSON object form the
// differ walks.
func toTree(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode section: %w", err)
	}
	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("decode section: %w: %w", ErrParse, err)
	}
	return tree, nil
}

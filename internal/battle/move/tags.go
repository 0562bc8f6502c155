package move

import (
	"fmt"
	"sort"
)

// Tag classifies a move for effect interaction rules.
type Tag string

const (
	Physical   Tag = "physical"
	Special    Tag = "special"
	Status     Tag = "status"
	Melee      Tag = "melee"
	Ranged     Tag = "ranged"
	Instant    Tag = "instant"
	Priority   Tag = "priority"
	Affliction Tag = "affliction"
	Bypassing  Tag = "bypassing"
	Mental     Tag = "mental"
	Defensive  Tag = "defensive"
)

var knownTags = map[Tag]bool{
	Physical: true, Special: true, Status: true, Melee: true, Ranged: true,
	Instant: true, Priority: true, Affliction: true, Bypassing: true,
	Mental: true, Defensive: true,
}

// ParseTag parses a known tag.
func ParseTag(value string) (Tag, error) {
	tag := Tag(normalize(value))
	if !knownTags[tag] {
		return "", fmt.Errorf("unknown tag %q", value)
	}
	return tag, nil
}

// TagSet is a sorted, duplicate-free list of tags.
type TagSet []Tag

// NewTagSet builds a normalized set.
func NewTagSet(tags ...Tag) TagSet {
	seen := make(map[Tag]bool, len(tags))
	out := make(TagSet, 0, len(tags))
	for _, t := range tags {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Has reports whether tag is in the set.
func (s TagSet) Has(tag Tag) bool {
	for _, t := range s {
		if t == tag {
			return true
		}
	}
	return false
}

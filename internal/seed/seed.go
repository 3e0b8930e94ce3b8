// Package seed provides the default taxonomy a new choir starts with.
package seed

import "github.com/choirdinated/backend/internal/app/models"

type entry struct {
	category    models.LovCategory
	value       string
	displayName string
	parentValue string
	sortOrder   int
}

var defaults = []entry{
	{models.CategoryVoiceGroup, "sopran", "Sopran", "", 1},
	{models.CategoryVoiceGroup, "alt", "Alt", "", 2},
	{models.CategoryVoiceGroup, "tenor", "Tenor", "", 3},
	{models.CategoryVoiceGroup, "bass", "Bass", "", 4},

	{models.CategoryVoiceType, "1. sopran", "1. Sopran", "sopran", 1},
	{models.CategoryVoiceType, "2. sopran", "2. Sopran", "sopran", 2},
	{models.CategoryVoiceType, "1. alt", "1. Alt", "alt", 3},
	{models.CategoryVoiceType, "2. alt", "2. Alt", "alt", 4},
	{models.CategoryVoiceType, "1. tenor", "1. Tenor", "tenor", 5},
	{models.CategoryVoiceType, "2. tenor", "2. Tenor", "tenor", 6},
	{models.CategoryVoiceType, "1. bass", "1. Bass", "bass", 7},
	{models.CategoryVoiceType, "2. bass", "2. Bass", "bass", 8},

	{models.CategoryEventType, "rehearsal", "Øvelse", "", 1},
	{models.CategoryEventType, "concert", "Konsert", "", 2},
	{models.CategoryEventType, "seminar", "Seminar", "", 3},

	{models.CategoryMembershipType, "regular", "Fast medlem", "", 1},
	{models.CategoryMembershipType, "substitute", "Vikar", "", 2},
	{models.CategoryMembershipType, "trial", "Prøvesanger", "", 3},
}

// DefaultTaxonomy builds the seed rows for a choir. Voice types reference
// their voice group through ParentID, which the caller fills in after the
// groups get their database IDs, so rows come back in two passes: groups and
// flat categories first, then voice types keyed by parent value.
func DefaultTaxonomy(choirID int64) (roots []*models.ListOfValue, children map[string][]*models.ListOfValue) {
	children = make(map[string][]*models.ListOfValue)
	for _, e := range defaults {
		lov := &models.ListOfValue{
			ChoirID:     choirID,
			Category:    e.category,
			Value:       e.value,
			DisplayName: e.displayName,
			SortOrder:   e.sortOrder,
			Active:      true,
		}
		if e.parentValue != "" {
			children[e.parentValue] = append(children[e.parentValue], lov)
			continue
		}
		roots = append(roots, lov)
	}
	return roots, children
}

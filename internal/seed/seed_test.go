package seed

import (
	"testing"

	"github.com/choirdinated/backend/internal/app/models"
)

func TestDefaultTaxonomy(t *testing.T) {
	roots, children := DefaultTaxonomy(42)

	if len(roots) != 10 {
		t.Fatalf("len(roots) = %d, want 10", len(roots))
	}

	counts := map[models.LovCategory]int{}
	for _, lov := range roots {
		if lov.ChoirID != 42 {
			t.Errorf("root %q has ChoirID %d, want 42", lov.Value, lov.ChoirID)
		}
		if !lov.Active {
			t.Errorf("root %q is not active", lov.Value)
		}
		if lov.Category == models.CategoryVoiceType {
			t.Errorf("voice type %q returned as root", lov.Value)
		}
		counts[lov.Category]++
	}
	if counts[models.CategoryVoiceGroup] != 4 {
		t.Errorf("voice groups = %d, want 4", counts[models.CategoryVoiceGroup])
	}
	if counts[models.CategoryEventType] != 3 {
		t.Errorf("event types = %d, want 3", counts[models.CategoryEventType])
	}
	if counts[models.CategoryMembershipType] != 3 {
		t.Errorf("membership types = %d, want 3", counts[models.CategoryMembershipType])
	}

	for _, group := range []string{"sopran", "alt", "tenor", "bass"} {
		types := children[group]
		if len(types) != 2 {
			t.Errorf("children[%q] has %d entries, want 2", group, len(types))
			continue
		}
		for _, vt := range types {
			if vt.Category != models.CategoryVoiceType {
				t.Errorf("child %q has category %q, want voice_type", vt.Value, vt.Category)
			}
		}
	}
}

func TestDefaultMembershipTypeIsFirst(t *testing.T) {
	roots, _ := DefaultTaxonomy(1)

	for _, lov := range roots {
		if lov.Category == models.CategoryMembershipType {
			if lov.Value != "regular" {
				t.Errorf("first membership type = %q, want %q", lov.Value, "regular")
			}
			return
		}
	}
	t.Fatal("no membership type in roots")
}

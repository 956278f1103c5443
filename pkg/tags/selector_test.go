package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectEmptyCandidates(t *testing.T) {
	got := Select(nil, "Foodie", "beijing", "title", "desc")
	assert.Nil(t, got)

	got = Select([]Tag{}, "", "", "", "")
	assert.Nil(t, got)
}

func TestSelectTravelTypeMatch(t *testing.T) {
	candidates := []Tag{
		{ID: "1", Name: "Food"},
		{ID: "2", Name: "Culture"},
	}

	got := Select(candidates, "Foodie", "", "", "")
	if got == nil {
		t.Fatal("Select returned nil")
	}
	assert.Equal(t, "Food", got.Name)
}

func TestSelectTravelTypeMatchesDecoratedName(t *testing.T) {
	candidates := []Tag{
		{ID: "1", Name: "🎨 Art & Culture"},
		{ID: "2", Name: "🍜 Food & Drink"},
	}

	got := Select(candidates, "food", "", "", "")
	if got == nil {
		t.Fatal("Select returned nil")
	}
	assert.Equal(t, "🍜 Food & Drink", got.Name)
}

func TestSelectCityMatch(t *testing.T) {
	candidates := []Tag{
		{ID: "1", Name: "Tokyo Eats"},
		{ID: "2", Name: "Beijing Walks"},
	}

	got := Select(candidates, "", "beijing", "", "")
	if got == nil {
		t.Fatal("Select returned nil")
	}
	assert.Equal(t, "Beijing Walks", got.Name)
}

func TestSelectTitleMatch(t *testing.T) {
	candidates := []Tag{
		{ID: "1", Name: "Hiking"},
		{ID: "2", Name: "Museums"},
	}

	got := Select(candidates, "", "", "A weekend of museums and more", "")
	if got == nil {
		t.Fatal("Select returned nil")
	}
	assert.Equal(t, "Museums", got.Name)
}

func TestSelectDescriptionMatch(t *testing.T) {
	candidates := []Tag{
		{ID: "1", Name: "Nightlife"},
		{ID: "2", Name: "Coffee"},
	}

	got := Select(candidates, "", "", "", "The best coffee spots in town")
	if got == nil {
		t.Fatal("Select returned nil")
	}
	assert.Equal(t, "Coffee", got.Name)
}

func TestSelectFallbackPreservesOrder(t *testing.T) {
	candidates := []Tag{
		{ID: "1", Name: "Alpha"},
		{ID: "2", Name: "Beta"},
	}

	got := Select(candidates, "zzz", "nowhere", "unrelated", "nothing matches here")
	if got == nil {
		t.Fatal("Select returned nil")
	}
	assert.Equal(t, "Alpha", got.Name)
}

func TestSelectSkipsStepsForEmptyFields(t *testing.T) {
	candidates := []Tag{
		{ID: "1", Name: "Food"},
		{ID: "2", Name: "Culture"},
	}

	// City step must not run with an empty city even though "Culture"
	// would match the description step later.
	got := Select(candidates, "", "", "", "a culture trip")
	if got == nil {
		t.Fatal("Select returned nil")
	}
	assert.Equal(t, "Culture", got.Name)
}

func TestSelectIsDeterministic(t *testing.T) {
	candidates := []Tag{
		{ID: "1", Name: "Food"},
		{ID: "2", Name: "Foodie"},
	}
	first := Select(candidates, "Foodie", "", "", "")
	for i := 0; i < 5; i++ {
		again := Select(candidates, "Foodie", "", "", "")
		assert.Equal(t, first.ID, again.ID)
	}
}

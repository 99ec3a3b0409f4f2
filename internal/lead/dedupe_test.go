package lead

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupe_DropsDuplicatesKeepsOrder(t *testing.T) {
	leads := []Lead{
		{Name: "Jane Smith", Company: "Ray White"},
		{Name: "Bob Jones", Company: "LJ Hooker"},
		{Name: "jane smith ", Company: " RAY WHITE"}, // same identity key
		{Name: "Jane Smith", Company: "LJ Hooker"},   // same name, different company
	}

	got := Dedupe(leads)
	assert.Len(t, got, 3)
	assert.Equal(t, "Jane Smith", got[0].Name)
	assert.Equal(t, "Ray White", got[0].Company)
	assert.Equal(t, "Bob Jones", got[1].Name)
	assert.Equal(t, "LJ Hooker", got[2].Company)
}

func TestDedupe_DropsDisqualifiedNames(t *testing.T) {
	leads := []Lead{
		{Name: "", Company: "Ray White"},
		{Name: "nan", Company: "Ray White"},
		{Name: "Admin Team", Company: "Ray White"},
		{Name: "Front Reception", Company: "LJ Hooker"},
		{Name: "Jane Smith", Company: "Ray White"},
	}

	got := Dedupe(leads)
	assert.Len(t, got, 1)
	assert.Equal(t, "Jane Smith", got[0].Name)
}

func TestDedupe_NoSharedKeys(t *testing.T) {
	leads := []Lead{
		{Name: "A", Company: "X"},
		{Name: "a", Company: "x"},
		{Name: "B", Company: "X"},
		{Name: "B", Company: "Y"},
	}
	got := Dedupe(leads)

	keys := make(map[string]bool)
	for _, l := range got {
		assert.False(t, keys[l.Key()], "duplicate key survived dedupe: %q", l.Key())
		keys[l.Key()] = true
	}
}

func TestIsPlaceholder(t *testing.T) {
	for _, v := range []string{"", "  ", "null", "None", "NaN", "N/A", "if found or null"} {
		assert.True(t, IsPlaceholder(v), "%q should be a placeholder", v)
	}
	for _, v := range []string{"0412345678", "jane@example.com", "0"} {
		assert.False(t, IsPlaceholder(v), "%q should not be a placeholder", v)
	}
}

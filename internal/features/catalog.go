package features

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Group is a named, ordered list of feature names rendered together.
type Group struct {
	Title string
	Names []string
}

// Mean, StandardError and Worst are the three measurement groups of the
// Wisconsin diagnostic dataset, each in the order the service reports them.
var (
	Mean = []string{
		"mean radius",
		"mean texture",
		"mean perimeter",
		"mean area",
		"mean smoothness",
		"mean compactness",
		"mean concavity",
		"mean concave points",
		"mean symmetry",
		"mean fractal dimension",
	}

	StandardError = []string{
		"radius error",
		"texture error",
		"perimeter error",
		"area error",
		"smoothness error",
		"compactness error",
		"concavity error",
		"concave points error",
		"symmetry error",
		"fractal dimension error",
	}

	Worst = []string{
		"worst radius",
		"worst texture",
		"worst perimeter",
		"worst area",
		"worst smoothness",
		"worst compactness",
		"worst concavity",
		"worst concave points",
		"worst symmetry",
		"worst fractal dimension",
	}
)

// Groups returns the display groups in render order.
func Groups() []Group {
	return []Group{
		{Title: "Mean Values", Names: Mean},
		{Title: "Standard Error Values", Names: StandardError},
		{Title: "Worst Values", Names: Worst},
	}
}

// Catalog returns all catalog names in group order.
func Catalog() []string {
	names := make([]string, 0, len(Mean)+len(StandardError)+len(Worst))
	names = append(names, Mean...)
	names = append(names, StandardError...)
	names = append(names, Worst...)
	return names
}

// GroupsFor lays out the given service-ordered names into display groups.
// Catalog groups keep only the names present in names; anything the
// catalog does not know ends up in a trailing "Other" group so no field
// is ever hidden.
func GroupsFor(names []string) []Group {
	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}

	known := make(map[string]bool)
	var groups []Group
	for _, g := range Groups() {
		var kept []string
		for _, n := range g.Names {
			known[n] = true
			if present[n] {
				kept = append(kept, n)
			}
		}
		if len(kept) > 0 {
			groups = append(groups, Group{Title: g.Title, Names: kept})
		}
	}

	var other []string
	for _, n := range names {
		if !known[n] {
			other = append(other, n)
		}
	}
	if len(other) > 0 {
		groups = append(groups, Group{Title: "Other", Names: other})
	}

	return groups
}

// Label turns a feature name into a display label, e.g.
// "mean concave points" -> "Mean Concave Points".
func Label(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

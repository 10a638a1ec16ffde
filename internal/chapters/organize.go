package chapters

import (
	"sort"
	"strings"

	"Certus/internal/margin"
)

// Chapter is one named report section and the components filed under it.
type Chapter struct {
	Title      string                             `json:"title"`
	Components map[string]margin.ComponentResults `json:"components"`
}

const (
	TitleElements   = "Structural Elements (Panels & Shells)"
	TitleFreebodies = "Joints & Interface Loads"
	TitleMisc       = "Miscellaneous Components"
)

// keywordGroups are tested in order; the first group with a keyword found in
// the component name wins.
var keywordGroups = []struct {
	title    string
	keywords []string
}{
	{"Skin Panels", []string{"skin", "panel"}},
	{"Rib Structure", []string{"rib"}},
	{"Spars & Webs", []string{"spar", "web"}},
	{"Fittings & Joints", []string{"clip", "splice", "joint"}},
	{"Stringers & Stiffeners", []string{"stringer", "stiffener"}},
}

// Organize turns an archetype-tagged result set into report chapters. The
// upstream tagging is trusted as-is; the two buckets are only renamed to
// their report section titles.
func Organize(set margin.ResultSet) []Chapter {
	var out []Chapter
	if set.Elements != nil {
		out = append(out, Chapter{Title: TitleElements, Components: set.Elements})
	}
	if set.Freebodies != nil {
		out = append(out, Chapter{Title: TitleFreebodies, Components: set.Freebodies})
	}
	return out
}

// OrganizeFlat buckets an untagged result set by component name. Chapters
// come back sorted alphabetically by title so report output is
// deterministic.
func OrganizeFlat(flat map[string]margin.ComponentResults) []Chapter {
	byTitle := map[string]map[string]margin.ComponentResults{}

	for name, data := range flat {
		if len(data.Cases) == 0 && data.Err == "" {
			continue
		}
		title := classify(name)
		if byTitle[title] == nil {
			byTitle[title] = map[string]margin.ComponentResults{}
		}
		byTitle[title][name] = data
	}

	titles := make([]string, 0, len(byTitle))
	for title := range byTitle {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	out := make([]Chapter, 0, len(titles))
	for _, title := range titles {
		out = append(out, Chapter{Title: title, Components: byTitle[title]})
	}
	return out
}

func classify(name string) string {
	lower := strings.ToLower(name)
	for _, group := range keywordGroups {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.title
			}
		}
	}
	return TitleMisc
}

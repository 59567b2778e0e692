package export

import "github.com/weadingguestwebsite1-lab/wedding-guests/internal/models"

// Followup is the attendance follow-up document: one section per category
// that has guests.
type Followup struct {
	Title    string
	Sections []Section
}

// Section holds a category's guests split into individuals and groups.
type Section struct {
	CategoryID  int
	Phrase      string
	Individuals []models.GuestRow
	Groups      []models.GuestRow
}

// Guests returns how many list entries the section holds.
func (s Section) Guests() int {
	return len(s.Individuals) + len(s.Groups)
}

// BuildFollowup groups guests by category (in category order) and splits each
// category into individuals and groups. Guests keep their relative order.
// Categories without guests are left out.
func BuildFollowup(title string, categories []models.Category, guests []models.GuestRow) Followup {
	byCategory := make(map[int]*Section, len(categories))
	sections := make([]*Section, 0, len(categories))
	for _, c := range categories {
		s := &Section{CategoryID: c.ID, Phrase: c.Phrase}
		byCategory[c.ID] = s
		sections = append(sections, s)
	}

	for _, g := range guests {
		s, ok := byCategory[g.CategoryID]
		if !ok {
			s = &Section{CategoryID: g.CategoryID, Phrase: g.Phrase}
			byCategory[g.CategoryID] = s
			sections = append(sections, s)
		}
		if g.IsGroup {
			s.Groups = append(s.Groups, g)
		} else {
			s.Individuals = append(s.Individuals, g)
		}
	}

	doc := Followup{Title: title}
	for _, s := range sections {
		if s.Guests() > 0 {
			doc.Sections = append(doc.Sections, *s)
		}
	}
	return doc
}

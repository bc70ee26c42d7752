package domain

// Category is one of the fixed listing categories.
type Category string

const (
	// CategoryAll is the filter sentinel. No listing carries it.
	CategoryAll           Category = "All"
	CategoryData          Category = "Data & Analytics"
	CategoryAuth          Category = "Auth & Identity"
	CategorySocial        Category = "Social Media"
	CategoryFinance       Category = "Finance"
	CategoryAI            Category = "Artificial Intelligence"
	CategoryDeveloper     Category = "Developer Tools"
	CategoryGeolocation   Category = "Geolocation"
	CategoryEntertainment Category = "Entertainment"
	CategoryOthers        Category = "Others"
)

// Categories lists every category in display order, sentinel first.
var Categories = []Category{
	CategoryAll,
	CategoryData,
	CategoryAuth,
	CategorySocial,
	CategoryFinance,
	CategoryAI,
	CategoryDeveloper,
	CategoryGeolocation,
	CategoryEntertainment,
	CategoryOthers,
}

// ParseCategory returns the category matching s exactly.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// NormalizeCategory maps anything that is not a concrete listing category to Others.
func NormalizeCategory(s string) Category {
	c, ok := ParseCategory(s)
	if !ok || c == CategoryAll {
		return CategoryOthers
	}
	return c
}

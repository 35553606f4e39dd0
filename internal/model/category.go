package model

// Category groups snippets on the browse page. The set is fixed.
type Category string

const (
	CategoryUIComponents    Category = "UI Components"
	CategoryFunctions       Category = "Functions"
	CategoryAnimation       Category = "Animation"
	CategoryGetX            Category = "GetX"
	CategoryStateManagement Category = "State Management"
	CategoryNavigation      Category = "Navigation"
	CategoryWidgets         Category = "Widgets"
	CategoryLayouts         Category = "Layouts"
	CategoryOther           Category = "Other"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryUIComponents,
	CategoryFunctions,
	CategoryAnimation,
	CategoryGetX,
	CategoryStateManagement,
	CategoryNavigation,
	CategoryWidgets,
	CategoryLayouts,
	CategoryOther,
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

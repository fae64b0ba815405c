package core

import "fmt"

const (
	CategoryFood          ExpenseCategory = "FOOD"
	CategoryClothing      ExpenseCategory = "CLOTHING"
	CategoryHousing       ExpenseCategory = "HOUSING"
	CategoryUtilities     ExpenseCategory = "UTILITIES"
	CategoryEntertainment ExpenseCategory = "ENTERTAINMENT"
	CategoryTransport     ExpenseCategory = "TRANSPORT"
	CategoryBusiness      ExpenseCategory = "BUSINESS"
	CategoryEducation     ExpenseCategory = "EDUCATION"
	CategoryMedicine      ExpenseCategory = "MEDICINE"
	CategoryPersonalCare  ExpenseCategory = "PERSONAL_CARE"
	CategoryPlushies      ExpenseCategory = "PLUSHIES"
	CategoryOther         ExpenseCategory = "OTHER"
)

// ExpenseCategory is the closed set of transaction categories.
type ExpenseCategory string

var categoryLabels = map[ExpenseCategory]string{
	CategoryFood:          "Food",
	CategoryClothing:      "Clothing",
	CategoryHousing:       "Housing",
	CategoryUtilities:     "Utilities",
	CategoryEntertainment: "Entertainment",
	CategoryTransport:     "Transport",
	CategoryBusiness:      "Business",
	CategoryEducation:     "Education",
	CategoryMedicine:      "Medicine",
	CategoryPersonalCare:  "Personal Care",
	CategoryPlushies:      "Plushies",
	CategoryOther:         "Other",
}

// Label returns the human-readable name of the category. For example,
// CategoryPersonalCare returns "Personal Care".
func (c ExpenseCategory) Label() string {
	return categoryLabels[c]
}

// Valid reports whether c is one of the known category codes.
func (c ExpenseCategory) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// ParseCategory converts a wire code such as "FOOD" to an ExpenseCategory.
func ParseCategory(code string) (ExpenseCategory, error) {
	c := ExpenseCategory(code)
	if !c.Valid() {
		return "", fmt.Errorf("unknown expense category %q", code)
	}
	return c, nil
}

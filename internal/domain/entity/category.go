package entity

// Category is the editorial bucket an article is filed under.
type Category string

const (
	CategoryTech          Category = "Tech"
	CategorySports        Category = "Sports"
	CategoryPolitics      Category = "Politics"
	CategoryHealth        Category = "Health"
	CategoryEntertainment Category = "Entertainment"
	CategoryWorld         Category = "World"
	CategoryBusiness      Category = "Business"
	CategoryScience       Category = "Science"
	CategoryCrime         Category = "Crime"
	CategoryNigeria       Category = "Nigeria"
)

var categories = []Category{
	CategoryTech,
	CategorySports,
	CategoryPolitics,
	CategoryHealth,
	CategoryEntertainment,
	CategoryWorld,
	CategoryBusiness,
	CategoryScience,
	CategoryCrime,
	CategoryNigeria,
}

// Categories returns every known category in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is one of the known categories.
// Matching is case-sensitive.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

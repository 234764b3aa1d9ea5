package models

// CategoryWithPosts is a category together with every post filed under it.
type CategoryWithPosts struct {
	Category
	Posts []Post `json:"posts"`
}

// AuthorWithPosts is an author together with every post they wrote.
type AuthorWithPosts struct {
	Author
	Posts []Post `json:"posts"`
}

// HomePage is the composite bundle rendered on the landing page.
type HomePage struct {
	FeaturedPosts []Post     `json:"featured_posts"`
	RecentPosts   []Post     `json:"recent_posts"`
	PopularPosts  []Post     `json:"popular_posts"`
	Categories    []Category `json:"categories"`
}

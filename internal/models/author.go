package models

import "time"

// SocialLinks are the optional profile URLs shown on an author card.
type SocialLinks struct {
	Twitter  string `json:"twitter,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

// Author is a post writer.
type Author struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Bio         string      `json:"bio"`
	Avatar      string      `json:"avatar"`
	SocialLinks SocialLinks `json:"social_links"`
	JoinDate    *time.Time  `json:"join_date,omitempty"`

	// Virtual field populated by the repository.
	PostCount int `json:"post_count"`
}

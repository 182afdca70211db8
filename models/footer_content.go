package models

import "gorm.io/datatypes"

type Link struct {
	Icon string `json:"icon"`
	URL  string `json:"url"`
}

// FooterContent holds the contact block rendered at the bottom of the site
type FooterContent struct {
	Base
	Email         string                      `json:"email" db:"email" gorm:"type:text;not null"`
	Phone         string                      `json:"phone" db:"phone" gorm:"type:text;not null"`
	Content       string                      `json:"content" db:"content" gorm:"type:text;not null"`
	Location      string                      `json:"location" db:"location" gorm:"type:text;not null"`
	FollowMeLinks datatypes.JSONSlice[Link]   `json:"followMeLinks" db:"follow_me_links"`
	SocialLinks   datatypes.JSONSlice[Link]   `json:"socialLinks" db:"social_links"`
	Services      datatypes.JSONSlice[string] `json:"services" db:"services"`
}

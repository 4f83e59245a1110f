package models

// StoredEmbed is a saved embed template that staff can post or apply to messages.
type StoredEmbed struct {
	ID             int64  `json:"id"`
	Title          string `json:"title,omitempty"`
	Description    string `json:"description,omitempty"`
	Author         string `json:"author,omitempty"`
	Footer         string `json:"footer,omitempty"`
	AuthorImage    string `json:"author_image,omitempty"`
	ThumbnailImage string `json:"thumbnail_image,omitempty"`
	LargeImage     string `json:"large_image,omitempty"`
	FooterImage    string `json:"footer_image,omitempty"`
	Color          string `json:"color,omitempty"`
}

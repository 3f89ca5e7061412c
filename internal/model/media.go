package model

import "time"

// Media kinds. Video and image media carry a file path, youtube and link
// media carry an external URL in the same column, text media carry the
// literal text instead.
const (
	MediaTypeVideo   = "video"
	MediaTypeImage   = "image"
	MediaTypeText    = "text"
	MediaTypeYouTube = "youtube"
	MediaTypeLink    = "link"
)

type Media struct {
	ID        int       `db:"id" json:"id"`
	Type      string    `db:"type" json:"type"`
	Name      string    `db:"name" json:"name"`
	FilePath  *string   `db:"file_path" json:"file_path"`
	Text      *string   `db:"text" json:"text"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type MediaStats struct {
	Total    int `db:"total" json:"total"`
	Videos   int `db:"videos" json:"videos"`
	Images   int `db:"images" json:"images"`
	Texts    int `db:"texts" json:"texts"`
	YouTube  int `db:"youtube" json:"youtube"`
	Links    int `db:"links" json:"links"`
	Active   int `db:"active" json:"active"`
	Inactive int `db:"inactive" json:"inactive"`
}

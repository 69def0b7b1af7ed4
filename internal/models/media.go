package models

import (
	"fmt"
	"time"
)

// MediaType discriminates the media item union.
type MediaType string

const (
	MediaTypeImage MediaType = "Image"
	MediaTypeVideo MediaType = "Video"
	MediaTypeText  MediaType = "Text"
)

// MediaCategories is the fixed set of gallery categories.
var MediaCategories = []string{"Worship", "Events", "Community", "Sermons", "Announcements"}

// IsValidMediaCategory reports whether category belongs to the fixed set.
func IsValidMediaCategory(category string) bool {
	for _, c := range MediaCategories {
		if c == category {
			return true
		}
	}
	return false
}

// MediaItem is a gallery entry. Exactly one of ImageURL, VideoURL or
// TextContent is populated, matching MediaType. Use NewMediaItem so the
// exclusivity holds at construction.
type MediaItem struct {
	ID           string    `db:"id" json:"id"`
	MediaType    MediaType `db:"media_type" json:"media_type"`
	Category     string    `db:"category" json:"category"`
	ImageURL     *string   `db:"image_url" json:"image_url,omitempty"`
	VideoURL     *string   `db:"video_url" json:"video_url,omitempty"`
	TextContent  *string   `db:"text_content" json:"text_content,omitempty"`
	DateUploaded time.Time `db:"date_uploaded" json:"date_uploaded"`
}

// NewMediaItem builds a media item with only the content field selected by
// the media type set.
func NewMediaItem(mediaType MediaType, category, content string) (*MediaItem, error) {
	if !IsValidMediaCategory(category) {
		return nil, fmt.Errorf("unknown media category %q", category)
	}
	if content == "" {
		return nil, fmt.Errorf("media content required")
	}
	item := &MediaItem{MediaType: mediaType, Category: category}
	switch mediaType {
	case MediaTypeImage:
		item.ImageURL = &content
	case MediaTypeVideo:
		item.VideoURL = &content
	case MediaTypeText:
		item.TextContent = &content
	default:
		return nil, fmt.Errorf("unknown media type %q", mediaType)
	}
	return item, nil
}

// Content returns the single populated content field.
func (m MediaItem) Content() string {
	switch {
	case m.ImageURL != nil:
		return *m.ImageURL
	case m.VideoURL != nil:
		return *m.VideoURL
	case m.TextContent != nil:
		return *m.TextContent
	}
	return ""
}

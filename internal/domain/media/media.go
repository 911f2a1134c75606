package media

import "time"

// Source is where a media item came from.
type Source string

// Media source constants.
const (
	Photo    Source = "Photo"
	Telegram Source = "Telegram"
	Discord  Source = "Discord"
	Twitter  Source = "Twitter"
	Blog     Source = "Blog"
)

// IsValid checks if the source is one of the supported values.
func (s Source) IsValid() bool {
	switch s {
	case Photo, Telegram, Discord, Twitter, Blog:
		return true
	}
	return false
}

// Media is a child of exactly one business.
type Media struct {
	ID         int64
	BusinessID int64
	Source     Source
	URL        string
	Path       string
	CreatedAt  time.Time
}

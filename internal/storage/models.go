package storage

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Source says where a favorited wallpaper comes from.
type Source string

const (
	SourceWallhaven Source = "wallhaven"
	SourceLocal     Source = "local"
)

// ParseSource accepts the stored names case-insensitively.
func ParseSource(s string) (Source, bool) {
	switch Source(strings.ToLower(strings.TrimSpace(s))) {
	case SourceWallhaven:
		return SourceWallhaven, true
	case SourceLocal:
		return SourceLocal, true
	default:
		return "", false
	}
}

// Key is the natural identity of a favorite.
type Key struct {
	SourceID string `json:"source_id"`
	Source   Source `json:"source"`
}

func (k Key) String() string {
	return string(k.Source) + ":" + k.SourceID
}

func (k Key) bytes() []byte {
	return []byte(string(k.Source) + "\x00" + k.SourceID)
}

// Favorite is one persisted favorite row. ID is a store-assigned sequence
// number; callers identify favorites by Key.
type Favorite struct {
	ID          uint64 `json:"id"`
	SourceID    string `json:"source_id"`
	Source      Source `json:"source"`
	FavoritedOn int64  `json:"favorited_on"`
	ThumbURL    string `json:"thumb_url"`
	MainImgURL  string `json:"main_img_url"`
	Ratio       string `json:"ratio"`
}

func (f Favorite) Key() Key {
	return Key{SourceID: f.SourceID, Source: f.Source}
}

// FavoritedAt converts the millisecond timestamp.
func (f Favorite) FavoritedAt() time.Time {
	return time.UnixMilli(f.FavoritedOn)
}

// CachedTag is a popular tag kept for offline suggestions.
type CachedTag struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Purity   string `json:"purity"`
}

// Package catalog filters and orders the story list on the client side.
// The server returns every story; browsing happens here.
package catalog

import (
	"sort"
	"strings"

	"github.com/dalemusser/storyhub/internal/domain/models"
)

// MediaTypeAll matches any media type.
const MediaTypeAll = "all"

// Filter is a compound predicate; all non-empty fields must match.
type Filter struct {
	// Search is a case-insensitive substring of title, description,
	// director name or director email.
	Search string
	// MediaType is video, audio or pdf; empty or MediaTypeAll matches any.
	MediaType string
	// Genre is a case-insensitive exact match against any of a story's
	// genres. "drama" matches "Drama" but not "Drama-Comedy".
	Genre string
	// DirectorID is the hex id of the owning director.
	DirectorID string
}

// ForUser narrows f to a director's own stories. Producers see everything.
func ForUser(u *models.User, f Filter) Filter {
	if u != nil && u.IsDirector() {
		f.DirectorID = u.ID.Hex()
	}
	return f
}

// Match reports whether v passes every set condition of f.
func (f Filter) Match(v models.StoryView) bool {
	return f.matchSearch(v) &&
		f.matchMediaType(v) &&
		f.matchGenre(v) &&
		(f.DirectorID == "" || v.DirectorID.Hex() == f.DirectorID)
}

func (f Filter) matchSearch(v models.StoryView) bool {
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	if strings.Contains(strings.ToLower(v.Title), q) ||
		strings.Contains(strings.ToLower(v.Description), q) {
		return true
	}
	if v.Director == nil {
		return false
	}
	return strings.Contains(strings.ToLower(v.Director.Name), q) ||
		strings.Contains(strings.ToLower(v.Director.Email), q)
}

func (f Filter) matchMediaType(v models.StoryView) bool {
	return f.MediaType == "" || f.MediaType == MediaTypeAll || v.MediaType == f.MediaType
}

func (f Filter) matchGenre(v models.StoryView) bool {
	if f.Genre == "" {
		return true
	}
	for _, g := range v.Genres {
		if strings.EqualFold(g, f.Genre) {
			return true
		}
	}
	return false
}

// Apply returns the stories matching f, newest first. Stories created at
// the same instant keep their input order. The input is not modified.
func Apply(stories []models.StoryView, f Filter) []models.StoryView {
	out := make([]models.StoryView, 0, len(stories))
	for _, s := range stories {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Genres returns the genre tags offered for picking and filtering.
func Genres() []string {
	return append([]string(nil), models.Genres...)
}

// IsKnownGenre reports whether g is one of Genres, ignoring case.
func IsKnownGenre(g string) bool {
	for _, known := range models.Genres {
		if strings.EqualFold(known, g) {
			return true
		}
	}
	return false
}

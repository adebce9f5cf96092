// internal/domain/models/genres.go
package models

// Genres is the list of genre tags offered to directors when posting a
// story. The server stores whatever tags it is given; this list only drives
// client pickers and filters.
var Genres = []string{
	"Action",
	"Adventure",
	"Comedy",
	"Drama",
	"Fantasy",
	"Horror",
	"Mystery",
	"Romance",
	"Sci-Fi",
	"Thriller",
	"Documentary",
	"Animation",
	"Biography",
	"Crime",
	"Family",
	"Historical",
	"Musical",
	"War",
	"Western",
}

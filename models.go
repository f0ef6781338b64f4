package main

// Book represents a book record as stored and served.
type Book struct {
	Name  string  `json:"name"`
	Genre string  `json:"genre"`
	Price float64 `json:"price"`
	ID    string  `json:"book_id"`
}

// Genres is the closed list of accepted book genres.
var Genres = []string{"fiction", "romance", "comedy", "adventure", "self-improvement", "drama"}

// IsValidGenre tells whether a genre belongs to the closed list.
func IsValidGenre(genre string) bool {
	for _, g := range Genres {
		if g == genre {
			return true
		}
	}
	return false
}

// NewBook builds a book record from already validated values. It still
// rejects structurally impossible inputs like a missing name or genre.
func NewBook(name, genre string, price float64, id string) (Book, error) {
	if len(name) == 0 {
		return Book{}, missingFieldError("name")
	}
	if len(genre) == 0 {
		return Book{}, missingFieldError("genre")
	}
	return Book{Name: name, Genre: genre, Price: price, ID: id}, nil
}

// BookPayload is the shape of a book creation or update request body.
// Price is a pointer so that a missing price can be told apart from a
// free book priced at zero.
type BookPayload struct {
	Name  string   `json:"name"`
	Genre string   `json:"genre"`
	Price *float64 `json:"price"`
	ID    string   `json:"book_id"`
}

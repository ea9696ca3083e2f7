package catalog

// Set is a card set as reported by the catalog.
type Set struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logo_url"`
}

// Card is one card row of a set. Number is kept as reported; the
// catalog occasionally ships non-numeric entries (promos, secret rares)
// and callers decide what to do with them.
type Card struct {
	Number        string `json:"number"`
	Name          string `json:"name"`
	SmallImageURL string `json:"small_image_url"`
}

type setImages struct {
	Symbol string `json:"symbol"`
	Logo   string `json:"logo"`
}

type setRow struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Images setImages `json:"images"`
}

type setsResponse struct {
	Data []setRow `json:"data"`
}

type cardImages struct {
	Small string `json:"small"`
	Large string `json:"large"`
}

type cardRow struct {
	Number string     `json:"number"`
	Name   string     `json:"name"`
	Images cardImages `json:"images"`
}

type cardsResponse struct {
	Data []cardRow `json:"data"`
}

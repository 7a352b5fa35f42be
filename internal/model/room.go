package model

// Room is a row of the `DettagliCamera` table.  Staff can edit the name,
// description and price; everyone can read them.
type Room struct {
	ID          int64   `db:"idcamera" json:"idcamera"`
	Name        string  `db:"nomecamera" json:"nomecamera"`
	Description string  `db:"descrizionecamera" json:"descrizionecamera"`
	Image       string  `db:"imgcamera" json:"imgcamera"`
	Price       float64 `db:"prezzocamera" json:"prezzocamera"`
}

// Review is a row of the `Recensioni` table.  Reviews are not tied to a
// stay.
type Review struct {
	ID       int64  `db:"idRecensione" json:"idRecensione"`
	Username string `db:"username" json:"username"`
	Text     string `db:"testo" json:"testo"`
	Rating   int    `db:"voto" json:"voto"`
}

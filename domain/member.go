package domain

type Member struct {
	ID        int64   `db:"id" json:"id"`
	Name      string  `db:"name" json:"name"`
	Position  string  `db:"position" json:"position"`
	PhotoURL  *string `db:"photo_url" json:"photo_url"`
	Committee *string `db:"committee" json:"committee"`
	About     *string `db:"about" json:"about"`
}

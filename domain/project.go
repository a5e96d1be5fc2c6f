package domain

const (
	StatusCompleted = "Completed"
	StatusOngoing   = "Ongoing"
	StatusPlanned   = "Planned"
)

// ValidProjectStatus reports whether s is one of the accepted project states.
// The comparison is case-sensitive.
func ValidProjectStatus(s string) bool {
	switch s {
	case StatusCompleted, StatusOngoing, StatusPlanned:
		return true
	}
	return false
}

type Project struct {
	ID          int64   `db:"id" json:"id"`
	Title       string  `db:"title" json:"title"`
	Description string  `db:"description" json:"description"`
	Status      string  `db:"status" json:"status"`
	Budget      string  `db:"budget" json:"budget"`
	Date        string  `db:"date" json:"date"`
	Category    string  `db:"category" json:"category"`
	ImageURL    *string `db:"image_url" json:"image_url"`
}

package domain

// AdminUser is the single shared admin login. It is provisioned out-of-band
// and never returned by the API.
type AdminUser struct {
	ID           int64  `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password_hash"`
}

package domain

import "time"

type Report struct {
	ID         int64     `db:"id" json:"id"`
	Title      string    `db:"title" json:"title"`
	FilePath   string    `db:"file_path" json:"file_path"`
	UploadedAt time.Time `db:"uploaded_at" json:"uploaded_at"`
}

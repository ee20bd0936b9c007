package model

// Service is one entry of the fixed catalog of offerable services
// (vaccination, grooming, surgery, ...).
type Service struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Commune is a geographic reference row, used only as a foreign key.
type Commune struct {
	ID     int    `db:"id" json:"id"`
	Name   string `db:"name" json:"name"`
	Region string `db:"region" json:"region"`
}

// DayOfWeek names a canonical schedule day (Monday=1 .. Sunday=7).
type DayOfWeek struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

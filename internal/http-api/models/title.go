package models

// Title is a reviewable media work (book, film, album...). The (name, year)
// pair is unique; the rating is never stored here, it is derived from reviews
// at read time.
type Title struct {
	ID          int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string  `json:"name" gorm:"size:200;not null;uniqueIndex:ux_titles_name_year"`
	Year        int     `json:"year" gorm:"not null;check:year > 0;uniqueIndex:ux_titles_name_year"`
	Description *string `json:"description,omitempty" gorm:"type:text"`
	CategoryID  *int64  `json:"category_id,omitempty" gorm:"index"`

	// Associations
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;"`
	Genres   []Genre   `json:"genres,omitempty" gorm:"many2many:title_genres;constraint:OnDelete:CASCADE;"`
}

func (Title) TableName() string {
	return "titles"
}

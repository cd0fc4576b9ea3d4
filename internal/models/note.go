package models

type Note struct {
	BaseModel

	Title   string `gorm:"size:200;not null"`
	Content string `gorm:"type:text;not null"`
	// Author is the author's username when the note was written. Ownership is
	// decided on AuthorID, which becomes NULL when the author is deleted.
	Author   string `gorm:"size:150;not null"`
	AuthorID *uint  `gorm:"index"`

	// Relationships
	Owner *User `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

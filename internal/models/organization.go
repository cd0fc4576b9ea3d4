package models

type Organization struct {
	BaseModel

	Name     string `gorm:"size:255;uniqueIndex;not null"`
	Industry string `gorm:"size:100"`
}

package models

// Customer owns orders. Deleting a customer deletes its orders and, through
// them, their lines.
type Customer struct {
	ID    uint    `gorm:"primaryKey"           json:"id"`
	Name  string  `gorm:"size:255;not null"    json:"name"`
	Email *string `gorm:"size:255;uniqueIndex" json:"email"`
	Phone *string `gorm:"size:50"              json:"phone"`
}

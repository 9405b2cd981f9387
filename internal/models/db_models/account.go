package db_models

type Account struct {
	BaseModel
	Name         string
	Email        string `gorm:"unique"`
	PasswordHash string

	// Running Impact Points total. Mutated only through the points
	// repository's atomic increment, never by read-modify-write.
	PointsBalance int64 `gorm:"not null;default:0"`

	Donations    []Donation        `gorm:"foreignKey:AccountID"`
	Transactions []UserTransaction `gorm:"foreignKey:AccountID"`
}

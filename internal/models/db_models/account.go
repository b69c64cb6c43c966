package db_models

type Account struct {
	BaseModel
	Name  string
	Email string `gorm:"unique"`
	// Account-level ban, unrelated to Subscription.TokensBlocked.
	Banned bool `gorm:"not null"`
}

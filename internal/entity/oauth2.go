package entity

// OAuth2 is one linked external identity of a user. The token mechanics live
// at the auth boundary; rules only read the linkage.
type OAuth2 struct {
	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	Service       string `gorm:"primaryKey"`
	ServiceUserID string `gorm:"unique"`
	Username      string
}

func (OAuth2) TableName() string {
	return "oauth2"
}

package entity

type Staker struct {
	Base

	UserID string `gorm:"unique"`
	User   User   `gorm:"foreignKey:UserID"`

	WalletAddress string
	StakedAmount  float64
}

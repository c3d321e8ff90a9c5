package entity

import (
	"time"

	"github.com/alphalist/backend/pkg/enum"
)

type LotteryStatus string

var (
	LotteryRunning   = enum.New(LotteryStatus("running"))
	LotteryFinalized = enum.New(LotteryStatus("finalized"))
)

// LotteryPrize is inventory embedded in the lottery row. Quantity is consumed
// in memory during a draw and the awarded total never exceeds it.
type LotteryPrize struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Sponsored bool   `json:"sponsored"`
}

type Lottery struct {
	Base

	Status    LotteryStatus
	Processed bool

	// UsdPool is split over UsdWinnerCount winners by a decaying share.
	UsdPool        float64
	UsdWinnerCount int

	Prizes        Array[LotteryPrize]
	JackpotPrizes Array[LotteryPrize]

	StartsAt time.Time
	EndsAt   time.Time
}

// LotteryWinner is append-only, one row per award.
type LotteryWinner struct {
	Base

	LotteryID string  `gorm:"index"`
	Lottery   Lottery `gorm:"foreignKey:LotteryID"`

	UserID string
	User   User `gorm:"foreignKey:UserID"`

	PrizeName  string
	UsdAmount  float64
	JackpotWon bool
}

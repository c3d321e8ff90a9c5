package model

type LotteryWinner struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	PrizeName  string  `json:"prize_name,omitempty"`
	UsdAmount  float64 `json:"usd_amount,omitempty"`
	JackpotWon bool    `json:"jackpot_won,omitempty"`
}

type DrawLotteryRequest struct {
	LotteryID string `json:"lottery_id"`
}

type DrawLotteryResponse struct{}

type GetLotteryWinnersRequest struct {
	LotteryID string `json:"lottery_id" form:"lottery_id"`
}

type GetLotteryWinnersResponse struct {
	Winners []LotteryWinner `json:"winners"`
}

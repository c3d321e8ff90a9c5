package model

import "time"

type Rule struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

type RuleResult struct {
	Rule    Rule   `json:"rule"`
	Passed  bool   `json:"passed"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type GiveawayEntry struct {
	ID            string `json:"id"`
	GiveawayID    string `json:"giveaway_id"`
	UserID        string `json:"user_id"`
	WalletAddress string `json:"wallet_address"`
	IsWinner      *bool  `json:"is_winner"`
	EntryAmount   int    `json:"entry_amount"`
}

type CreateGiveawayRequest struct {
	Slug                string    `json:"slug"`
	Type                string    `json:"type"`
	Network             string    `json:"network"`
	MaxWinners          int       `json:"max_winners"`
	PreventDuplicateIps bool      `json:"prevent_duplicate_ips"`
	Rules               []Rule    `json:"rules"`
	StartsAt            time.Time `json:"starts_at"`
	EndsAt              time.Time `json:"ends_at"`
}

type CreateGiveawayResponse struct {
	ID string `json:"id"`
}

type EnterGiveawayRequest struct {
	GiveawaySlug  string `json:"giveaway_slug"`
	WalletAddress string `json:"wallet_address"`
	TweetURL      string `json:"tweet_url"`
}

type EnterGiveawayResponse struct {
	IsSuccess    bool           `json:"is_success"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Results      []RuleResult   `json:"results"`
	Entry        *GiveawayEntry `json:"entry,omitempty"`
}

type ValidateEligibilityRequest struct {
	GiveawaySlug  string `json:"giveaway_slug" form:"giveaway_slug"`
	WalletAddress string `json:"wallet_address" form:"wallet_address"`
	TweetURL      string `json:"tweet_url" form:"tweet_url"`
}

type ValidateEligibilityResponse struct {
	IsSuccess    bool         `json:"is_success"`
	ErrorMessage string       `json:"error_message,omitempty"`
	Results      []RuleResult `json:"results"`
}

type DrawGiveawayRequest struct {
	GiveawaySlug string `json:"giveaway_slug"`
}

type DrawGiveawayResponse struct {
	Winners []GiveawayEntry `json:"winners"`
}

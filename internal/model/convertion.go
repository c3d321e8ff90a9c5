package model

import (
	"github.com/alphalist/backend/internal/domain/giveawayrule"
	"github.com/alphalist/backend/internal/entity"
)

func ConvertRuleResults(results []giveawayrule.RuleResult) []RuleResult {
	converted := []RuleResult{}
	for _, r := range results {
		converted = append(converted, RuleResult{
			Rule:    Rule{Type: string(r.Rule.Type), Data: r.Rule.Data},
			Passed:  r.Passed,
			Message: r.Message,
			Error:   r.Error,
		})
	}

	return converted
}

func ConvertGiveawayEntry(entry *entity.GiveawayEntry) *GiveawayEntry {
	if entry == nil {
		return nil
	}

	return &GiveawayEntry{
		ID:            entry.ID,
		GiveawayID:    entry.GiveawayID,
		UserID:        entry.UserID,
		WalletAddress: entry.WalletAddress,
		IsWinner:      entry.IsWinner,
		EntryAmount:   entry.EntryAmount,
	}
}

func ConvertLotteryWinner(winner entity.LotteryWinner) LotteryWinner {
	return LotteryWinner{
		ID:         winner.ID,
		UserID:     winner.UserID,
		PrizeName:  winner.PrizeName,
		UsdAmount:  winner.UsdAmount,
		JackpotWon: winner.JackpotWon,
	}
}

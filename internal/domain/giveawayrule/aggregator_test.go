package giveawayrule

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/alphalist/backend/internal/entity"
	"github.com/alphalist/backend/pkg/api/discord"
	"github.com/alphalist/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_Aggregator_Evaluate(t *testing.T) {
	balanceRule := entity.Rule{
		Type: entity.MinimumBalanceRule,
		Data: entity.Map{"token_address": "0xtoken", "minimum": 1.0, "decimals": 18},
	}

	roleRule := entity.Rule{
		Type: entity.DiscordRoleRule,
		Data: entity.Map{"guild_id": "guild-id", "role_id": "role-id", "multiplier": 5},
	}

	tests := []struct {
		name       string
		rules      []entity.Rule
		balance    *big.Int
		balanceErr error
		member     discord.Member

		wantIsSuccess    bool
		wantErrorMessage string
		wantMultiplier   int
		wantConstraints  []string
	}{
		{
			name:           "empty rule set always succeeds",
			rules:          nil,
			wantIsSuccess:  true,
			wantMultiplier: 1,
		},
		{
			name:           "all rules pass",
			rules:          []entity.Rule{balanceRule, roleRule},
			balance:        big.NewInt(2e18),
			member:         discord.Member{ID: "discord_user1", Roles: []string{"role-id"}},
			wantIsSuccess:  true,
			wantMultiplier: 5,
			wantConstraints: []string{
				"discord:discord_user1",
			},
		},
		{
			name:           "one failing rule rejects without an error message",
			rules:          []entity.Rule{balanceRule, roleRule},
			balance:        big.NewInt(0),
			member:         discord.Member{ID: "discord_user1", Roles: []string{"role-id"}},
			wantIsSuccess:  false,
			wantMultiplier: 5,
			wantConstraints: []string{
				"discord:discord_user1",
			},
		},
		{
			name:             "an undecidable rule is an error, not a rejection",
			rules:            []entity.Rule{balanceRule, roleRule},
			balanceErr:       errors.New("rpc timeout"),
			member:           discord.Member{ID: "discord_user1", Roles: []string{"role-id"}},
			wantIsSuccess:    false,
			wantErrorMessage: "Cannot verify token balance",
			wantMultiplier:   5,
			wantConstraints: []string{
				"discord:discord_user1",
			},
		},
		{
			name:          "unknown rule type is an error",
			rules:         []entity.Rule{{Type: entity.RuleType("telegram_join")}},
			wantIsSuccess: false,

			wantErrorMessage: "invalid rule type telegram_join",
			wantMultiplier:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContext()
			factory := NewFactory(
				&testutil.MockDiscordEndpoint{
					GetMemberFunc: func(context.Context, string, string) (discord.Member, error) {
						return tt.member, nil
					},
				},
				&testutil.MockTwitterEndpoint{},
				&testutil.MockChainIndexer{
					TokenBalanceFunc: func(context.Context, string, string) (*big.Int, error) {
						return tt.balance, tt.balanceErr
					},
				},
			)

			aggregate := NewAggregator(factory).Evaluate(ctx, tt.rules, discordClaimant())
			require.Equal(t, tt.wantIsSuccess, aggregate.IsSuccess)
			require.Equal(t, tt.wantErrorMessage, aggregate.ErrorMessage)
			require.Equal(t, tt.wantMultiplier, aggregate.Multiplier)
			require.Equal(t, tt.wantConstraints, aggregate.UniqueConstraints)
			require.Len(t, aggregate.Results, len(tt.rules))
		})
	}
}

package entity

import (
	"database/sql"
	"time"

	"github.com/alphalist/backend/pkg/enum"
)

type GiveawayType string

var (
	GiveawayFCFS   = enum.New(GiveawayType("fcfs"))
	GiveawayRaffle = enum.New(GiveawayType("raffle"))
)

type GiveawayStatus string

var (
	GiveawayDraft          = enum.New(GiveawayStatus("draft"))
	GiveawayCollabPending  = enum.New(GiveawayStatus("collab_pending"))
	GiveawayCollabReady    = enum.New(GiveawayStatus("collab_ready"))
	GiveawayCollabRejected = enum.New(GiveawayStatus("collab_rejected"))
	GiveawayRunning        = enum.New(GiveawayStatus("running"))
	GiveawayFinalized      = enum.New(GiveawayStatus("finalized"))
)

type RuleType string

var (
	MinimumBalanceRule    = enum.New(RuleType("minimum_balance"))
	OwnNFTRule            = enum.New(RuleType("own_nft"))
	DiscordRoleRule       = enum.New(RuleType("discord_role"))
	DiscordGuildRule      = enum.New(RuleType("discord_guild"))
	TwitterFriendshipRule = enum.New(RuleType("twitter_friendship"))
	TwitterTweetRule      = enum.New(RuleType("twitter_tweet"))
)

// Rule is one eligibility requirement embedded in a giveaway. Type selects
// the evaluator and Data carries only that type's payload.
type Rule struct {
	Type RuleType `json:"type"`
	Data Map      `json:"data"`
}

type Giveaway struct {
	Base

	Slug      string `gorm:"unique"`
	CreatedBy string

	Type   GiveawayType
	Status GiveawayStatus

	// Network of the required wallet. "TBD" means no wallet is collected at
	// entry time.
	Network        string
	PaymentTokenID sql.NullString

	MaxWinners int

	// EntryCount is the slot counter taken by the guarded increment for FCFS
	// admissions. For raffles it is a best-effort display counter; capacity
	// decisions always recount the entry rows inside the admission
	// transaction.
	EntryCount int64

	Rules Array[Rule]

	PreventDuplicateIps bool

	StartsAt time.Time
	EndsAt   time.Time
}

type GiveawayEntry struct {
	Base

	GiveawayID string   `gorm:"uniqueIndex:idx_entry_user;uniqueIndex:idx_entry_ip;uniqueIndex:idx_entry_constraint"`
	Giveaway   Giveaway `gorm:"foreignKey:GiveawayID"`

	UserID string `gorm:"uniqueIndex:idx_entry_user"`
	User   User   `gorm:"foreignKey:UserID"`

	WalletAddress string

	// IsWinner stays NULL until a raffle draw decides it. FCFS entries are
	// created with it already set.
	IsWinner *bool

	EntryAmount int

	IpHash           sql.NullString `gorm:"uniqueIndex:idx_entry_ip"`
	UniqueConstraint sql.NullString `gorm:"uniqueIndex:idx_entry_constraint"`
	DiscordUserID    string
}

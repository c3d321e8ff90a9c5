package giveawayrule

import (
	"context"

	"github.com/alphalist/backend/internal/entity"
)

// Claimant is the snapshot of a user's wallet and linked identities that
// rules are checked against. It is loaded once per attempt, before any
// transaction opens.
type Claimant struct {
	UserID        string
	WalletAddress string

	// Accounts is keyed by service name (config.Auth.Discord.Name, ...).
	Accounts map[string]LinkedAccount

	// TweetURL is the user-provided proof for tweet rules.
	TweetURL string
}

type LinkedAccount struct {
	Service       string
	ServiceUserID string
	Username      string
}

// Result is the outcome of one decided rule. An undecidable rule is
// reported by the Evaluator as an error instead.
type Result struct {
	Passed  bool
	Message string

	// Multiplier scales the entry amount when the rule passes. Zero means
	// the rule grants no multiplier.
	Multiplier int

	// UniqueConstraint is a dedup key contributed by the rule, e.g. the
	// linked Discord account id. Empty if the rule contributes none.
	UniqueConstraint string
}

// Evaluator checks one eligibility rule. Returning an error means the rule
// could not be decided (misconfiguration or an upstream failure), which is
// different from the claimant being ineligible.
type Evaluator interface {
	Evaluate(ctx context.Context, claimant Claimant) (Result, error)
}

// RuleResult pairs a rule with its outcome for itemized responses.
type RuleResult struct {
	Rule    entity.Rule `json:"rule"`
	Passed  bool        `json:"passed"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// AggregateResult is the combined outcome over a full rule set.
type AggregateResult struct {
	Results []RuleResult

	// IsSuccess is true iff every rule passed and none errored.
	IsSuccess bool

	// ErrorMessage is set iff at least one rule could not be decided.
	// Callers must report it differently from an ordinary rejection.
	ErrorMessage string

	// Multiplier is the highest multiplier granted by a passed rule,
	// at least 1.
	Multiplier int

	UniqueConstraints []string
}

func pass() Result {
	return Result{Passed: true}
}

func fail(message string) Result {
	return Result{Passed: false, Message: message}
}

package discord

import "context"

type IEndpoint interface {
	GetMember(ctx context.Context, guildID, userID string) (Member, error)
	GetRoles(ctx context.Context, guildID string) ([]Role, error)
	HasAddedBot(ctx context.Context, guildID string) (bool, error)
}

package discord

import (
	"context"
	"errors"

	"github.com/alphalist/backend/config"
	"github.com/alphalist/backend/pkg/api"
)

const apiURL = "https://discord.com/api"
const userAgent = "DiscordBot (https://alphalist.io, 1.0)"

type Endpoint struct {
	BotToken string
	BotID    string

	apiGenerator api.Generator
}

func New(cfg config.DiscordConfigs) *Endpoint {
	return &Endpoint{
		BotToken:     cfg.BotToken,
		BotID:        cfg.BotID,
		apiGenerator: api.NewGenerator(),
	}
}

// GetMember returns the guild member with its role ids. A user who is not in
// the guild yields a Member with an empty ID, not an error.
func (e *Endpoint) GetMember(ctx context.Context, guildID, userID string) (Member, error) {
	resp, err := e.apiGenerator.New(apiURL, "/guilds/%s/members/%s", guildID, userID).
		Header("User-Agent", userAgent).
		GET(ctx, api.OAuth2("Bot", e.BotToken))
	if err != nil {
		return Member{}, err
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return Member{}, errors.New("invalid response")
	}

	// If response has the field of code, the user is not a member.
	if _, err := body.GetInt("code"); err == nil {
		return Member{}, nil
	}

	id, err := body.GetString("user.id")
	if err != nil {
		return Member{}, err
	}

	roles, err := body.GetStringArray("roles")
	if err != nil {
		return Member{}, err
	}

	return Member{ID: id, Roles: roles}, nil
}

func (e *Endpoint) GetRoles(ctx context.Context, guildID string) ([]Role, error) {
	resp, err := e.apiGenerator.New(apiURL, "/guilds/%s/roles", guildID).
		Header("User-Agent", userAgent).
		GET(ctx, api.OAuth2("Bot", e.BotToken))
	if err != nil {
		return nil, err
	}

	body, ok := resp.Body.(api.Array)
	if !ok {
		return nil, errors.New("invalid response")
	}

	roles := []Role{}
	for _, obj := range body {
		id, err := obj.GetString("id")
		if err != nil {
			return nil, err
		}

		name, err := obj.GetString("name")
		if err != nil {
			return nil, err
		}

		roles = append(roles, Role{ID: id, Name: name})
	}

	return roles, nil
}

func (e *Endpoint) HasAddedBot(ctx context.Context, guildID string) (bool, error) {
	resp, err := e.apiGenerator.New(apiURL, "/guilds/%s/members/%s", guildID, e.BotID).
		Header("User-Agent", userAgent).
		GET(ctx, api.OAuth2("Bot", e.BotToken))
	if err != nil {
		return false, err
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return false, errors.New("invalid response")
	}

	if _, err := body.GetInt("code"); err == nil {
		return false, nil
	}

	return true, nil
}

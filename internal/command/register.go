package command

import (
	"context"
	"log"

	"github.com/bwmarrin/discordgo"
)

// Registrar is the command registration surface of *discordgo.Session.
type Registrar interface {
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// Scope names the command scope for logs.
func Scope(guildID string) string {
	if guildID == "" {
		return "global"
	}
	return "guild " + guildID
}

// Register replaces the whole command set of a scope (global when guildID is
// empty) with schemas in one call. It is not retried.
func Register(ctx context.Context, r Registrar, appID, guildID string, schemas []*discordgo.ApplicationCommand) (int, error) {
	if schemas == nil {
		schemas = []*discordgo.ApplicationCommand{}
	}
	if err := ctx.Err(); err != nil {
		return 0, &RegistrationError{Scope: Scope(guildID), Count: len(schemas), Err: err}
	}

	created, err := r.ApplicationCommandBulkOverwrite(appID, guildID, schemas, discordgo.WithContext(ctx))
	if err != nil {
		return 0, &RegistrationError{Scope: Scope(guildID), Count: len(schemas), Err: err}
	}

	log.Printf("[DONE] Registered %d command(s) in %s scope", len(created), Scope(guildID))
	return len(created), nil
}

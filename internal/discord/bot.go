package discord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"teambot/internal/command"
	"teambot/internal/config"
	"teambot/internal/event"
	"teambot/internal/version"

	"github.com/bwmarrin/discordgo"
)

const EmbedColor = 0xb01e66

// Bot owns the gateway session and wires events to the dispatcher.
type Bot struct {
	cfg        *config.Config
	dg         *discordgo.Session
	commands   *command.Registry
	factories  []command.Factory
	dispatcher *Dispatcher

	mu  sync.RWMutex
	ctx context.Context
}

// NewBot returns a bot that dispatches against commands. Call Use before Run.
func NewBot(cfg *config.Config) *Bot {
	return &Bot{cfg: cfg, ctx: context.Background()}
}

// Use sets the lookup table and the command factories it is loaded from.
func (b *Bot) Use(commands *command.Registry, factories []command.Factory) {
	b.commands = commands
	b.factories = factories
	b.dispatcher = NewDispatcher(commands, b.cfg.Prefix)
}

// Run connects to the gateway and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	if b.commands == nil {
		return errors.New("bot has no command registry")
	}

	dg, err := discordgo.New("Bot " + b.cfg.Token)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.mu.Lock()
	b.dg = dg
	b.ctx = ctx
	b.mu.Unlock()

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	n := b.LoadCommands()
	log.Printf("[INFO] Loaded %d command(s)", n)

	events, _ := event.Discover(b.events()...)
	event.Bind(dg, events)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	go b.handleSystemEvents(ctx)

	<-ctx.Done()
	log.Println("[INFO] ❎ Shutdown signal received. Cleaning up...")
	return nil
}

func (b *Bot) events() []event.Definition {
	return []event.Definition{
		event.OnReady(b.onReady),
		event.OnGuildCreate(b.onGuildCreate),
		event.OnInteractionCreate(b.onInteractionCreate),
		event.OnMessageCreate(b.onMessageCreate),
	}
}

// LoadCommands runs discovery and swaps the result into the lookup table.
func (b *Bot) LoadCommands() int {
	defs, _ := command.Discover(b.factories)
	if err := b.commands.Load(defs); err != nil {
		log.Printf("[WARN] Some commands were not loaded: %v", err)
	}
	return len(b.commands.Definitions())
}

// Resync reloads the commands and replaces the registered command set.
func (b *Bot) Resync(ctx context.Context) (int, error) {
	b.LoadCommands()
	return b.registerCommands(ctx, true)
}

// registerCommands bulk-overwrites the configured scope. Without force the
// call is skipped when the live set already matches.
func (b *Bot) registerCommands(ctx context.Context, force bool) (int, error) {
	appID, err := b.applicationID()
	if err != nil {
		return 0, err
	}
	guildID := b.cfg.GuildID
	schemas := command.BuildSchema(b.commands.Definitions())

	if !force {
		live, err := b.dg.ApplicationCommands(appID, guildID)
		if err == nil && hashCommands(live) == hashCommands(schemas) {
			log.Printf("[INFO] Commands in %s scope are up to date (%d)", command.Scope(guildID), len(live))
			return len(live), nil
		}
	}

	log.Printf("[INFO] Registering %d command(s) in %s scope...", len(schemas), command.Scope(guildID))
	return command.Register(ctx, b.dg, appID, guildID, schemas)
}

func (b *Bot) applicationID() (string, error) {
	if b.cfg.ApplicationID != "" {
		return b.cfg.ApplicationID, nil
	}
	if b.dg.State != nil && b.dg.State.User != nil && b.dg.State.User.ID != "" {
		return b.dg.State.User.ID, nil
	}
	user, err := b.dg.User("@me")
	if err != nil {
		return "", fmt.Errorf("failed to resolve application ID: %w", err)
	}
	return user.ID, nil
}

// Latency returns the last heartbeat round trip, 0 before the gateway is up.
func (b *Bot) Latency() time.Duration {
	b.mu.RLock()
	dg := b.dg
	b.mu.RUnlock()
	if dg == nil {
		return 0
	}
	return dg.HeartbeatLatency()
}

// UserChannelPermissions resolves a member's permissions for text triggers.
func (b *Bot) UserChannelPermissions(userID, channelID string) (int64, error) {
	b.mu.RLock()
	dg := b.dg
	b.mu.RUnlock()
	if dg == nil {
		return 0, errors.New("session not started")
	}
	return dg.UserChannelPermissions(userID, channelID)
}

func (b *Bot) runContext() context.Context {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ctx
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.setPresence(s)

	if b.cfg.RegisterOnStart {
		if _, err := b.registerCommands(b.runContext(), false); err != nil {
			log.Printf("[ERR] Error registering commands: %v", err)
		}
	} else {
		log.Println("[INFO] Registering commands skipped")
	}

	if b.cfg.LogChannelID != "" {
		msg := fmt.Sprintf("✅ %s is online in %d guild(s).", version.Get(), len(r.Guilds))
		if _, err := s.ChannelMessageSend(b.cfg.LogChannelID, msg); err != nil {
			log.Printf("[WARN] Failed to post to log channel: %v", err)
		}
	}

	log.Printf("[INFO] ✅ Discord bot %v is running.", r.User.Username)
}

func (b *Bot) setPresence(s *discordgo.Session) {
	var err error
	if b.cfg.IsProduction() {
		err = s.UpdateGameStatus(0, "/help")
	} else {
		err = s.UpdateStatusComplex(discordgo.UpdateStatusData{Status: string(discordgo.StatusIdle)})
	}
	if err != nil {
		log.Printf("[WARN] Failed to set presence: %v", err)
	}
}

func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	log.Printf("[INFO] Available in guild: %s (%s)", g.Guild.ID, g.Guild.Name)
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	outcome := b.dispatcher.HandleInteraction(b.runContext(), s, i)
	if outcome != Ignored {
		log.Printf("[DEBUG] Interaction %s: %s", i.ID, outcome)
	}
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	selfID := ""
	if s.State != nil && s.State.User != nil {
		selfID = s.State.User.ID
	}
	b.dispatcher.HandleMessage(b.runContext(), s, selfID, m)
}

func (b *Bot) handleSystemEvents(ctx context.Context) {
	for {
		select {
		case evt := <-SystemEvents():
			switch evt.Type {
			case SystemEventRefreshCommands:
				go func() {
					n, err := b.Resync(ctx)
					if err != nil {
						log.Printf("[ERR] Failed to refresh commands: %v", err)
					}
					if evt.Done != nil {
						evt.Done(n, err)
					}
				}()
			}
		case <-ctx.Done():
			return
		}
	}
}

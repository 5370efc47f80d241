package commands

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"teambot/internal/command"
	"teambot/internal/discord"
	"teambot/pkg/retrylimit"
	"teambot/pkg/util"

	"github.com/bwmarrin/discordgo"
)

const (
	fetchLimit    = 100
	bulkDeleteAge = 14 * 24 * time.Hour
	deleteWorkers = 2
)

func Cleaner(d Deps) command.Factory {
	d = d.withDefaults()
	return func() (*command.Definition, error) {
		return &command.Definition{
			Kind:        command.KindSlash,
			Name:        "cleaner",
			Description: "Delete recent messages or resync the bot's commands.",
			Category:    categoryCleanup,
			Permissions: discordgo.PermissionManageMessages,
			GuildOnly:   true,
			Parameters: []command.Parameter{
				{
					Name:        "action",
					Description: "What to clean",
					Type:        command.ParamText,
					Required:    true,
					Choices: []command.Choice{
						{Name: "Messages", Value: "messages"},
						{Name: "Commands (resync)", Value: "commands"},
					},
				},
				{
					Name:        "count",
					Description: "How many messages to delete (1-100)",
					Type:        command.ParamInteger,
				},
				{
					Name:        "user",
					Description: "Only delete messages from this user",
					Type:        command.ParamUser,
				},
				{
					Name:        "channel",
					Description: "Channel to clean (defaults to this one)",
					Type:        command.ParamChannel,
				},
			},
			Interaction: func(ctx context.Context, ic *command.InteractionContext) error {
				switch ic.StringOption("action") {
				case "messages":
					return cleanMessages(ctx, d, ic)
				case "commands":
					return resyncCommands(d, ic)
				}
				return command.Invalid("Unknown action `%s`.", ic.StringOption("action"))
			},
		}, nil
	}
}

func resyncCommands(d Deps, ic *command.InteractionContext) error {
	if !ic.IsAdministrator() {
		return command.Invalid("Only administrators can resync commands.")
	}
	if err := ic.Defer(true); err != nil {
		return err
	}

	ok := d.Publish(discord.SystemEvent{
		Type: discord.SystemEventRefreshCommands,
		Done: func(count int, err error) {
			msg := fmt.Sprintf("Resynced %d commands.", count)
			if err != nil {
				msg = "Command resync failed, the previous commands stay active."
			}
			if eerr := ic.EditReply(msg); eerr != nil {
				log.Printf("[WARN] Failed to report resync result: %v", eerr)
			}
		},
	})
	if !ok {
		return fmt.Errorf("cleaner: system event queue is full")
	}
	return nil
}

func cleanMessages(ctx context.Context, d Deps, ic *command.InteractionContext) error {
	count, ok := ic.IntOption("count")
	if !ok {
		count = fetchLimit
	}
	if count < 1 || count > fetchLimit {
		return command.Invalid("Count must be between 1 and %d.", fetchLimit)
	}
	channelID := ic.ChannelOption("channel")
	if channelID == "" {
		channelID = ic.Interaction.ChannelID
	}
	var userID string
	if u := ic.UserOption("user"); u != nil {
		userID = u.ID
	}

	if err := ic.Defer(true); err != nil {
		return err
	}

	msgs, err := ic.Client.ChannelMessages(channelID, fetchLimit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("fetch messages in %s: %w", channelID, err)
	}
	targets := selectMessages(msgs, userID, count)
	if len(targets) == 0 {
		return ic.EditReply("No messages to delete.")
	}

	deleted, failed := deleteMessages(ctx, ic.Client, d.Limiter, channelID, targets, time.Now())
	log.Printf("[INFO] Cleaner removed %d messages in %s (%d failed)", deleted, channelID, failed)

	msg := fmt.Sprintf("Deleted %d messages.", deleted)
	if failed > 0 {
		msg += fmt.Sprintf(" %d could not be deleted.", failed)
	}
	return ic.EditReply(msg)
}

// selectMessages keeps up to count messages, newest first, optionally from
// one author only.
func selectMessages(msgs []*discordgo.Message, userID string, count int) []*discordgo.Message {
	var out []*discordgo.Message
	for _, m := range msgs {
		if len(out) == count {
			break
		}
		if userID != "" && (m.Author == nil || m.Author.ID != userID) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// bulkDeletable reports whether Discord accepts these messages in one bulk
// delete: 2 to 100 messages, all younger than 14 days.
func bulkDeletable(msgs []*discordgo.Message, now time.Time) bool {
	if len(msgs) < 2 || len(msgs) > fetchLimit {
		return false
	}
	for _, m := range msgs {
		if now.Sub(m.Timestamp) >= bulkDeleteAge {
			return false
		}
	}
	return true
}

func deleteMessages(ctx context.Context, c command.Client, lim *retrylimit.AdaptiveLimiter, channelID string, msgs []*discordgo.Message, now time.Time) (deleted, failed int) {
	if bulkDeletable(msgs, now) {
		ids := make([]string, len(msgs))
		for i, m := range msgs {
			ids[i] = m.ID
		}
		err := c.ChannelMessagesBulkDelete(channelID, ids, discordgo.WithContext(ctx))
		if err == nil {
			return len(ids), 0
		}
		log.Printf("[WARN] Bulk delete in %s failed, deleting one by one: %v", channelID, err)
	}

	var ok, bad atomic.Int64
	err := util.Parallel(ctx, msgs, deleteWorkers, func(ctx context.Context, m *discordgo.Message) error {
		err := retrylimit.Do(ctx, lim, retrylimit.DefaultConfig(), func() error {
			return c.ChannelMessageDelete(channelID, m.ID, discordgo.WithContext(ctx))
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("[WARN] Failed to delete message %s: %v", m.ID, err)
			bad.Add(1)
			return nil
		}
		ok.Add(1)
		return nil
	})
	if err != nil {
		log.Printf("[WARN] Message cleanup in %s stopped early: %v", channelID, err)
	}
	return int(ok.Load()), int(bad.Load())
}

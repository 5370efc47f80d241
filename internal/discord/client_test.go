package discord

import (
	"sync"

	"github.com/bwmarrin/discordgo"
)

// fakeClient records every outbound call.
type fakeClient struct {
	mu         sync.Mutex
	responses  []*discordgo.InteractionResponse
	edits      []*discordgo.WebhookEdit
	replies    []string
	respondErr error
}

func (f *fakeClient) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.respondErr != nil {
		return f.respondErr
	}
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeClient) InteractionResponseEdit(_ *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, edit)
	return &discordgo.Message{}, nil
}

func (f *fakeClient) ChannelMessageSendReply(_ string, content string, _ *discordgo.MessageReference, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, content)
	return &discordgo.Message{}, nil
}

func (f *fakeClient) ChannelMessages(string, int, string, string, string, ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	return nil, nil
}

func (f *fakeClient) ChannelMessagesBulkDelete(string, []string, ...discordgo.RequestOption) error {
	return nil
}

func (f *fakeClient) ChannelMessageDelete(string, string, ...discordgo.RequestOption) error {
	return nil
}

package commands

import (
	"sync"

	"github.com/bwmarrin/discordgo"
)

// fakeClient records outbound calls and serves canned channel history.
type fakeClient struct {
	mu         sync.Mutex
	responses  []*discordgo.InteractionResponse
	edits      []*discordgo.WebhookEdit
	replies    []string
	history    []*discordgo.Message
	bulk       [][]string
	deleted    []string
	failDelete map[string]bool
}

func (f *fakeClient) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
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

func (f *fakeClient) ChannelMessages(_ string, limit int, _, _, _ string, _ ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.history) > limit {
		return f.history[:limit], nil
	}
	return f.history, nil
}

func (f *fakeClient) ChannelMessagesBulkDelete(_ string, ids []string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bulk = append(f.bulk, ids)
	return nil
}

func (f *fakeClient) ChannelMessageDelete(_ string, id string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete[id] {
		return forbidden{}
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type forbidden struct{}

func (forbidden) Error() string   { return "missing access" }
func (forbidden) StatusCode() int { return 403 }

func (f *fakeClient) lastContent() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n := len(f.edits); n > 0 && f.edits[n-1].Content != nil {
		return *f.edits[n-1].Content
	}
	if n := len(f.responses); n > 0 && f.responses[n-1].Data != nil {
		return f.responses[n-1].Data.Content
	}
	return ""
}

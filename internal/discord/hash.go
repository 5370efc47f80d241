package discord

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/bwmarrin/discordgo"
)

// hashCommands returns a deterministic fingerprint of a command set. Runtime
// fields (IDs, versions) are ignored, so a live set and a freshly built
// schema hash equal when nothing changed.
func hashCommands(cmds []*discordgo.ApplicationCommand) string {
	normalized := make([]map[string]interface{}, 0, len(cmds))
	for _, c := range cmds {
		normalized = append(normalized, normalizeForHash(c))
	}
	sort.Slice(normalized, func(i, j int) bool {
		return normalized[i]["name"].(string) < normalized[j]["name"].(string)
	})
	data, _ := json.Marshal(normalized)
	return fmt.Sprintf("%x", sha1.Sum(data))
}

func normalizeForHash(cmd *discordgo.ApplicationCommand) map[string]interface{} {
	typ := cmd.Type
	if typ == 0 {
		typ = discordgo.ChatApplicationCommand
	}
	// Discord treats a missing dm_permission as true
	dm := cmd.DMPermission == nil || *cmd.DMPermission
	obj := map[string]interface{}{
		"name":          cmd.Name,
		"description":   cmd.Description,
		"type":          typ,
		"dm_permission": dm,
	}
	if cmd.DefaultMemberPermissions != nil {
		obj["permissions"] = *cmd.DefaultMemberPermissions
	}
	if len(cmd.Options) > 0 {
		obj["options"] = normalizeOptions(cmd.Options)
	}
	return obj
}

func normalizeOptions(opts []*discordgo.ApplicationCommandOption) []map[string]interface{} {
	normalized := make([]map[string]interface{}, len(opts))

	for i, o := range opts {
		entry := map[string]interface{}{
			"name":        o.Name,
			"description": o.Description,
			"type":        o.Type,
			"required":    o.Required,
		}
		if len(o.Choices) > 0 {
			choices := make([]map[string]interface{}, len(o.Choices))
			for j, c := range o.Choices {
				// values round-trip through JSON as float64 or string
				choices[j] = map[string]interface{}{
					"name":  c.Name,
					"value": fmt.Sprint(c.Value),
				}
			}
			entry["choices"] = choices
		}
		normalized[i] = entry
	}
	return normalized
}

package config

// CategoryWeights orders command categories in /help, lowest first.
var CategoryWeights = map[string]int{
	"🕯️ Information": 0,
	"🎲 Gameplay":     20,
	"🧹 Cleanup":      45,
	"🛠️ Maintenance": 60,
}

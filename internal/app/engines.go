package app

import "strings"

// EngineInfo is a best-effort capability hint for a model identifier.
type EngineInfo struct {
	Family     string
	Multimodal bool
}

// LookupEngine recognizes known llm engine name families.
//
// This is advisory only: doctor warns on unknown names and the launch UI
// shows the hint, but the name is always forwarded to the solve program
// verbatim because providers add models faster than this list changes.
func LookupEngine(name string) (EngineInfo, bool) {
	m := strings.ToLower(strings.TrimSpace(name))
	if m == "" {
		return EngineInfo{}, false
	}

	// OpenAI family.
	if strings.HasPrefix(m, "gpt-") || strings.HasPrefix(m, "o1") || strings.HasPrefix(m, "o3") {
		multimodal := strings.Contains(m, "4o") || strings.Contains(m, "vision") || strings.Contains(m, "4-turbo")
		return EngineInfo{Family: "openai", Multimodal: multimodal}, true
	}

	// Anthropic family.
	if strings.HasPrefix(m, "claude-") {
		return EngineInfo{Family: "anthropic", Multimodal: true}, true
	}

	// Google family.
	if strings.HasPrefix(m, "gemini-") {
		return EngineInfo{Family: "google", Multimodal: true}, true
	}

	// Local models served through ollama.
	for _, p := range []string{"mistral", "gemma", "llama", "llava"} {
		if strings.HasPrefix(m, p) {
			return EngineInfo{Family: "ollama", Multimodal: strings.Contains(m, "llava") || strings.Contains(m, "vision")}, true
		}
	}

	return EngineInfo{}, false
}

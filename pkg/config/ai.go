package config

type AIConfig struct {
	Enabled bool
	APIKey  string
	Model   string
}

func loadAIConfig() AIConfig {
	return AIConfig{
		Enabled: getEnvBool("AI_ENABLED", false),
		APIKey:  getEnv("AI_API_KEY", ""),
		Model:   getEnv("AI_MODEL", "gpt-4o-mini"),
	}
}

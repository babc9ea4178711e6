package llm

// Deepseek is the cost-optimized backend. It speaks the OpenAI wire
// format, so the compatible client covers it.
type Deepseek struct {
	*OpenAICompatible
}

func NewDeepseek(apiKey string) *Deepseek {
	return &Deepseek{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:    "https://api.deepseek.com",
			APIKey:     apiKey,
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
		}),
	}
}

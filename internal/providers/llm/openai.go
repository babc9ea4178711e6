package llm

// OpenAI is the quality-optimized production backend.
type OpenAI struct {
	*OpenAICompatible
}

func NewOpenAI(apiKey string) *OpenAI {
	return &OpenAI{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:    "https://api.openai.com",
			APIKey:     apiKey,
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
		}),
	}
}

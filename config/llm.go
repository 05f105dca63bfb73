package config

import "fmt"

type GeminiConfig struct {
	ApiKey string
	Model  string
}

type OpenAIConfig struct {
	ApiKey string
	Model  string
}

func (c Config) LLMProvider() string {
	return c.LLM.Provider
}

func (c Config) GetGeminiConfig() (*GeminiConfig, error) {
	if c.secrets.GoogleApiKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY must be set")
	}
	if c.LLM.Model == "" {
		return nil, fmt.Errorf("llm.model must be set")
	}

	return &GeminiConfig{
		ApiKey: c.secrets.GoogleApiKey,
		Model:  c.LLM.Model,
	}, nil
}

func (c Config) GetOpenAIConfig() (*OpenAIConfig, error) {
	if c.secrets.OpenAIApiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY must be set")
	}
	if c.LLM.Model == "" {
		return nil, fmt.Errorf("llm.model must be set")
	}

	return &OpenAIConfig{
		ApiKey: c.secrets.OpenAIApiKey,
		Model:  c.LLM.Model,
	}, nil
}

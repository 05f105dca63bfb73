package config

import "fmt"

type ElevenLabsConfig struct {
	ApiUrl          string
	ApiKey          string
	VoiceID         string
	ModelId         string
	Stability       float64
	SimilarityBoost float64
}

func (c Config) GetElevenLabsConfig() (*ElevenLabsConfig, error) {
	if c.secrets.ElevenLabsApiKey == "" {
		return nil, fmt.Errorf("ELEVENLABS_API_KEY must be set")
	}
	if c.TTS.ApiUrl == "" {
		return nil, fmt.Errorf("tts.api_url must be set")
	}
	if c.TTS.VoiceID == "" {
		return nil, fmt.Errorf("tts.voice_id must be set")
	}
	if c.TTS.ModelID == "" {
		return nil, fmt.Errorf("tts.model_id must be set")
	}

	return &ElevenLabsConfig{
		ApiUrl:          c.TTS.ApiUrl,
		ApiKey:          c.secrets.ElevenLabsApiKey,
		VoiceID:         c.TTS.VoiceID,
		ModelId:         c.TTS.ModelID,
		Stability:       c.TTS.Stability,
		SimilarityBoost: c.TTS.SimilarityBoost,
	}, nil
}

package config

import "fmt"

type PollyConfig struct {
	Region  string
	VoiceID string
	Engine  string
}

func (c Config) GetPollyConfig() (*PollyConfig, error) {
	if c.secrets.Region == "" {
		return nil, fmt.Errorf("REGION must be set")
	}
	if c.TTS.PollyVoiceID == "" {
		return nil, fmt.Errorf("tts.polly_voice_id must be set")
	}

	return &PollyConfig{
		Region:  c.secrets.Region,
		VoiceID: c.TTS.PollyVoiceID,
		Engine:  c.TTS.PollyEngine,
	}, nil
}

func (c Config) TTSProvider() string {
	return c.TTS.Provider
}

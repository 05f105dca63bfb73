package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = "config.yaml"

type LLMSettings struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
}

type TTSSettings struct {
	Provider        string  `yaml:"provider"`
	ApiUrl          string  `yaml:"api_url"`
	VoiceID         string  `yaml:"voice_id"`
	ModelID         string  `yaml:"model_id"`
	Stability       float64 `yaml:"stability"`
	SimilarityBoost float64 `yaml:"similarity_boost"`
	PollyVoiceID    string  `yaml:"polly_voice_id"`
	PollyEngine     string  `yaml:"polly_engine"`
}

type StabilitySettings struct {
	ApiUrl                string        `yaml:"api_url"`
	AspectRatio           string        `yaml:"aspect_ratio"`
	PollInterval          time.Duration `yaml:"poll_interval"`
	PollMaxInterval       time.Duration `yaml:"poll_max_interval"`
	PollBackoffMultiplier float64       `yaml:"poll_backoff_multiplier"`
	PollTimeout           time.Duration `yaml:"poll_timeout"`
}

type PexelsSettings struct {
	ApiUrl string `yaml:"api_url"`
}

type DispatcherSettings struct {
	Workers int `yaml:"workers"`
}

type PathSettings struct {
	AudioDir   string `yaml:"audio_dir"`
	VisualDir  string `yaml:"visual_dir"`
	WorkDir    string `yaml:"work_dir"`
	OutputFile string `yaml:"output_file"`
}

type VideoSettings struct {
	Width             int     `yaml:"width"`
	Height            int     `yaml:"height"`
	FPS               int     `yaml:"fps"`
	TransitionSeconds float64 `yaml:"transition_seconds"`
	MusicFile         string  `yaml:"music_file"`
	MusicVolume       float64 `yaml:"music_volume"`
	KenBurnsZoom      float64 `yaml:"ken_burns_zoom"`
	FontFile          string  `yaml:"font_file"`
	FontSize          int     `yaml:"font_size"`
}

type ManifestSettings struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

type PublishSettings struct {
	Enabled bool `yaml:"enabled"`
}

type ServerSettings struct {
	Addr string `yaml:"addr"`
}

// Secrets are never read from the YAML file.
type Secrets struct {
	GoogleApiKey     string
	OpenAIApiKey     string
	ElevenLabsApiKey string
	StabilityApiKey  string
	PexelsApiKey     string
	BucketName       string
	Region           string
	DynamoTableName  string
	JwksUrl          string
}

// Config is built once at startup and handed to constructors by value.
// Getters return fresh copies, so nothing downstream can change it.
type Config struct {
	LLM        LLMSettings        `yaml:"llm"`
	TTS        TTSSettings        `yaml:"tts"`
	Stability  StabilitySettings  `yaml:"stability"`
	Pexels     PexelsSettings     `yaml:"pexels"`
	Dispatcher DispatcherSettings `yaml:"dispatcher"`
	Paths      PathSettings       `yaml:"paths"`
	Video      VideoSettings      `yaml:"video"`
	Manifest   ManifestSettings   `yaml:"manifest"`
	Publish    PublishSettings    `yaml:"publish"`
	Server     ServerSettings     `yaml:"server"`
	secrets    Secrets
}

func Default() Config {
	return Config{
		LLM: LLMSettings{
			Provider: "gemini",
			Model:    "gemini-2.5-flash",
		},
		TTS: TTSSettings{
			Provider:        "elevenlabs",
			ApiUrl:          "https://api.elevenlabs.io/v1/text-to-speech",
			VoiceID:         "21m00Tcm4TlvDq8ikWAM",
			ModelID:         "eleven_multilingual_v2",
			Stability:       0.5,
			SimilarityBoost: 0.75,
			PollyVoiceID:    "Matthew",
			PollyEngine:     "neural",
		},
		Stability: StabilitySettings{
			ApiUrl:                "https://api.stability.ai/v2beta",
			AspectRatio:           "16:9",
			PollInterval:          20 * time.Second,
			PollMaxInterval:       time.Minute,
			PollBackoffMultiplier: 1.5,
			PollTimeout:           0,
		},
		Pexels: PexelsSettings{
			ApiUrl: "https://api.pexels.com",
		},
		Dispatcher: DispatcherSettings{
			Workers: 5,
		},
		Paths: PathSettings{
			AudioDir:   "audio_clips",
			VisualDir:  "visual_assets",
			WorkDir:    os.TempDir(),
			OutputFile: "final_video.mp4",
		},
		Video: VideoSettings{
			Width:             1920,
			Height:            1080,
			FPS:               24,
			TransitionSeconds: 1,
			MusicFile:         "background_music.mp3",
			MusicVolume:       0.1,
			KenBurnsZoom:      0.1,
			FontSize:          30,
		},
		Manifest: ManifestSettings{
			Backend: "file",
			Path:    "asset_manifest.json",
		},
		Server: ServerSettings{
			Addr: ":8080",
		},
	}
}

// Load reads settings from the YAML file at path over the defaults and
// secrets from the environment. A missing file or .env leaves the defaults.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.secrets = secretsFromEnv()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func secretsFromEnv() Secrets {
	return Secrets{
		GoogleApiKey:     os.Getenv("GOOGLE_API_KEY"),
		OpenAIApiKey:     os.Getenv("OPENAI_API_KEY"),
		ElevenLabsApiKey: os.Getenv("ELEVENLABS_API_KEY"),
		StabilityApiKey:  os.Getenv("STABILITY_API_KEY"),
		PexelsApiKey:     os.Getenv("PEXELS_API_KEY"),
		BucketName:       os.Getenv("BUCKET_NAME"),
		Region:           os.Getenv("REGION"),
		DynamoTableName:  os.Getenv("DYNAMO_TABLE_NAME"),
		JwksUrl:          os.Getenv("JWKS_URL"),
	}
}

// WithSecrets returns a copy of the config carrying the given secrets.
func (c Config) WithSecrets(secrets Secrets) Config {
	c.secrets = secrets
	return c
}

func (c Config) validate() error {
	if c.Dispatcher.Workers < 1 {
		return fmt.Errorf("dispatcher.workers must be at least 1")
	}
	if c.Video.Width <= 0 || c.Video.Height <= 0 {
		return fmt.Errorf("video.width and video.height must be positive")
	}
	if c.Video.FPS <= 0 {
		return fmt.Errorf("video.fps must be positive")
	}
	if c.Video.TransitionSeconds < 0 {
		return fmt.Errorf("video.transition_seconds must not be negative")
	}
	if c.Video.MusicVolume < 0 {
		return fmt.Errorf("video.music_volume must not be negative")
	}
	if c.Stability.PollInterval <= 0 {
		return fmt.Errorf("stability.poll_interval must be positive")
	}
	if c.Stability.PollTimeout < 0 {
		return fmt.Errorf("stability.poll_timeout must not be negative")
	}
	if c.Stability.PollBackoffMultiplier < 1 {
		return fmt.Errorf("stability.poll_backoff_multiplier must be at least 1")
	}
	switch c.Manifest.Backend {
	case "file", "dynamo":
	default:
		return fmt.Errorf("manifest.backend must be file or dynamo, got %q", c.Manifest.Backend)
	}
	return nil
}

func (c Config) DispatcherWorkers() int {
	return c.Dispatcher.Workers
}

func (c Config) GetPathConfig() PathSettings {
	return c.Paths
}

func (c Config) ServerAddr() string {
	return c.Server.Addr
}

func (c Config) PublishEnabled() bool {
	return c.Publish.Enabled
}

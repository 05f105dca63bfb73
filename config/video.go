package config

import "fmt"

type AssemblerConfig struct {
	Width             int
	Height            int
	FPS               int
	TransitionSeconds float64
	MusicFile         string
	MusicVolume       float64
	KenBurnsZoom      float64
	FontFile          string
	FontSize          int
	WorkDir           string
}

func (c Config) GetAssemblerConfig() (*AssemblerConfig, error) {
	if c.Video.FontSize <= 0 {
		return nil, fmt.Errorf("video.font_size must be positive")
	}
	return &AssemblerConfig{
		Width:             c.Video.Width,
		Height:            c.Video.Height,
		FPS:               c.Video.FPS,
		TransitionSeconds: c.Video.TransitionSeconds,
		MusicFile:         c.Video.MusicFile,
		MusicVolume:       c.Video.MusicVolume,
		KenBurnsZoom:      c.Video.KenBurnsZoom,
		FontFile:          c.Video.FontFile,
		FontSize:          c.Video.FontSize,
		WorkDir:           c.Paths.WorkDir,
	}, nil
}

package dto

import "github.com/brettsmiles-bit/ai-video-maker/domain"

type CreateVideoRequest struct {
	Scenes     domain.ShotList `json:"scenes" binding:"required,min=1,dive"`
	OutputName string          `json:"output_name"`
}

package dto

import "github.com/brettsmiles-bit/ai-video-maker/domain"

type CreateShotListRequest struct {
	Script string `json:"script" binding:"required"`
}

type ShotListResponse struct {
	Scenes domain.ShotList `json:"scenes"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

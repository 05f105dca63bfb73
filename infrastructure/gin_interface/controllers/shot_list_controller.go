package controllers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/brettsmiles-bit/ai-video-maker/application/ports/inbound"
	"github.com/brettsmiles-bit/ai-video-maker/application/ports/outbound"
	"github.com/brettsmiles-bit/ai-video-maker/domain"
	"github.com/brettsmiles-bit/ai-video-maker/infrastructure/gin_interface/dto"
	"github.com/gin-gonic/gin"
)

const maxScriptBytes = 1 << 20

type ShotListController interface {
	CreateShotList(c *gin.Context)
	UploadScript(c *gin.Context)
	RegisterRoutes(g gin.IRoutes)
}

type shotListController struct {
	logger            outbound.LoggerPort
	shotListGenerator inbound.ShotListGeneratorPort
}

func NewShotListController(logger outbound.LoggerPort, shotListGenerator inbound.ShotListGeneratorPort) ShotListController {
	return &shotListController{
		logger:            logger,
		shotListGenerator: shotListGenerator,
	}
}

func (s *shotListController) CreateShotList(c *gin.Context) {
	var req dto.CreateShotListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	s.generate(c, req.Script)
}

// UploadScript accepts a plain text script as the "script" form file.
func (s *shotListController) UploadScript(c *gin.Context) {
	fileHeader, err := c.FormFile("script")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: "a script file is required"})
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".txt") {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: "the script must be a .txt file"})
		return
	}
	if fileHeader.Size > maxScriptBytes {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{Error: "the script is too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		s.logger.Error(err, "failed to open uploaded script")
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.Error(err, "failed to close uploaded script")
		}
	}()

	script, err := io.ReadAll(io.LimitReader(file, maxScriptBytes))
	if err != nil {
		s.logger.Error(err, "failed to read uploaded script")
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
		return
	}
	if strings.TrimSpace(string(script)) == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: "the script is empty"})
		return
	}

	s.generate(c, string(script))
}

func (s *shotListController) generate(c *gin.Context, script string) {
	shots, err := s.shotListGenerator.Generate(c.Request.Context(), script)
	if err != nil {
		if errors.Is(err, domain.ErrUnexpectedBreakdownShape) {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
			return
		}
		s.logger.Error(err, "failed to generate shot list")
		c.AbortWithStatusJSON(http.StatusBadGateway, dto.ErrorResponse{Error: "scene breakdown failed"})
		return
	}

	c.JSON(http.StatusOK, dto.ShotListResponse{Scenes: shots})
}

func (s *shotListController) RegisterRoutes(g gin.IRoutes) {
	g.POST("/shot-lists", s.CreateShotList)
	g.POST("/shot-lists/upload", s.UploadScript)
}

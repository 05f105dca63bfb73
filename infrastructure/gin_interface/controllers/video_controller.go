package controllers

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brettsmiles-bit/ai-video-maker/application/ports/inbound"
	"github.com/brettsmiles-bit/ai-video-maker/application/ports/outbound"
	"github.com/brettsmiles-bit/ai-video-maker/domain"
	"github.com/brettsmiles-bit/ai-video-maker/infrastructure/gin_interface/dto"
	"github.com/brettsmiles-bit/ai-video-maker/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const keepAliveInterval = 15 * time.Second

type VideoController interface {
	CreateVideo(c *gin.Context)
	DownloadVideo(c *gin.Context)
	Health(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type videoController struct {
	logger    outbound.LoggerPort
	pipeline  inbound.VideoMakerPipelinePort
	outputDir string
	runSlots  chan struct{}
}

// NewVideoController accepts at most maxRuns concurrent runs. A slot is held
// until the run's event channel closes, even after the client goes away.
func NewVideoController(logger outbound.LoggerPort, pipeline inbound.VideoMakerPipelinePort, outputDir string, maxRuns int) VideoController {
	if maxRuns < 1 {
		maxRuns = 1
	}
	return &videoController{
		logger:    logger,
		pipeline:  pipeline,
		outputDir: outputDir,
		runSlots:  make(chan struct{}, maxRuns),
	}
}

// CreateVideo runs the pipeline and streams its events until the run ends
// or the client goes away.
func (v *videoController) CreateVideo(c *gin.Context) {
	var req dto.CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if err := req.Scenes.Validate(); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	runID := uuid.NewString()
	outputName, ok := OutputFileName(req.OutputName, runID)
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid output_name"})
		return
	}

	select {
	case v.runSlots <- struct{}{}:
	default:
		v.logger.WarnWithFields("video generation rejected, too many runs in progress", map[string]interface{}{
			"run_id":   runID,
			"max_runs": cap(v.runSlots),
		})
		c.Header("Retry-After", "30")
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "too many videos in progress, retry later"})
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	v.logger.InfoWithFields("video generation requested", map[string]interface{}{
		"run_id":  runID,
		"user_id": c.GetString(middleware.ContextUserIDKey),
		"scenes":  len(req.Scenes),
	})

	events, errCh := v.pipeline.StartPipeline(ctx, inbound.StartPipelineParams{
		RunID:      runID,
		Shots:      req.Scenes,
		OutputFile: filepath.Join(v.outputDir, outputName),
	})

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	finished := false
	defer func() {
		if finished {
			<-v.runSlots
			return
		}
		go func() {
			for range events {
			}
			<-v.runSlots
		}()
	}()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				finished = true
				if err := <-errCh; err != nil {
					v.logger.ErrorWithFields(err, "error in pipeline", map[string]interface{}{
						"run_id": runID,
					})
					c.SSEvent(string(domain.ErrorEventType), domain.PipelineEvent{
						Type:    domain.ErrorEventType,
						RunID:   runID,
						Message: err.Error(),
					})
				}
				return false
			}
			c.SSEvent(string(event.Type), event)
			return true
		case <-keepAlive.C:
			_, err := io.WriteString(w, ": keep-alive\n\n")
			return err == nil
		case <-ctx.Done():
			return false
		}
	})
}

func (v *videoController) DownloadVideo(c *gin.Context) {
	name := c.Param("name")
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") || !strings.EqualFold(filepath.Ext(name), ".mp4") {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid video name"})
		return
	}

	path := filepath.Join(v.outputDir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		c.AbortWithStatusJSON(http.StatusNotFound, dto.ErrorResponse{Error: "video not found"})
		return
	}

	c.Header("Content-Type", "video/mp4")
	c.FileAttachment(path, name)
}

func (v *videoController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (v *videoController) RegisterRoutes(g *gin.Engine) {
	g.GET("/health", v.Health)
	g.POST("/videos", middleware.SSEMiddleware(), v.CreateVideo)
	g.GET("/videos/:name", v.DownloadVideo)
}

// OutputFileName returns the file name a run renders to: the requested name
// with an .mp4 extension, or the run id when none was given. It reports
// false for names that would leave the output directory.
func OutputFileName(requested string, runID string) (string, bool) {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return runID + ".mp4", true
	}
	if requested != filepath.Base(requested) || strings.HasPrefix(requested, ".") || strings.ContainsAny(requested, `/\`) {
		return "", false
	}
	if !strings.EqualFold(filepath.Ext(requested), ".mp4") {
		requested += ".mp4"
	}
	return requested, true
}

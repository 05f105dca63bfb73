package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/brettsmiles-bit/ai-video-maker/application/ports/outbound"
	"github.com/brettsmiles-bit/ai-video-maker/config"
)

type pexelsSearchResponse struct {
	Videos []pexelsVideo `json:"videos"`
}

type pexelsVideo struct {
	ID         int               `json:"id"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	VideoFiles []pexelsVideoFile `json:"video_files"`
}

type pexelsVideoFile struct {
	ID       int    `json:"id"`
	Quality  string `json:"quality"`
	FileType string `json:"file_type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Link     string `json:"link"`
}

type pexelsStockFootage struct {
	ContentFetcher
	logger       outbound.LoggerPort
	pexelsConfig *config.PexelsConfig
}

func NewPexelsStockFootage(contentFetcher ContentFetcher, pexelsConfig *config.PexelsConfig, logger outbound.LoggerPort) outbound.StockFootagePort {
	return &pexelsStockFootage{
		ContentFetcher: contentFetcher,
		logger:         logger,
		pexelsConfig:   pexelsConfig,
	}
}

func (p *pexelsStockFootage) Search(ctx context.Context, query string) (*outbound.StockClip, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("orientation", "landscape")
	params.Set("per_page", "1")
	searchURL := strings.TrimSuffix(p.pexelsConfig.ApiUrl, "/") + "/videos/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		p.logger.Error(err, "Failed to create the HTTP request")
		return nil, err
	}
	req.Header.Set("Authorization", p.pexelsConfig.ApiKey)

	payload, err := p.FetchContent(req)
	if err != nil {
		return nil, err
	}

	var res pexelsSearchResponse
	if err := json.Unmarshal(payload, &res); err != nil {
		p.logger.Error(err, "Failed to unmarshal the search response")
		return nil, err
	}

	return selectStockClip(res.Videos), nil
}

func (p *pexelsStockFootage) Download(ctx context.Context, clip outbound.StockClip) (io.ReadCloser, error) {
	if clip.Link == "" {
		return nil, fmt.Errorf("stock clip %d has no download link", clip.ID)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, clip.Link, nil)
	if err != nil {
		return nil, err
	}
	return p.OpenStream(req)
}

// selectStockClip takes the first landscape video, or the first video when
// none is landscape, and its highest resolution mp4 file. It returns nil when
// there is nothing to download.
func selectStockClip(videos []pexelsVideo) *outbound.StockClip {
	if len(videos) == 0 {
		return nil
	}
	chosen := videos[0]
	for _, video := range videos {
		if video.Width >= video.Height {
			chosen = video
			break
		}
	}
	if len(chosen.VideoFiles) == 0 {
		return nil
	}

	best := chosen.VideoFiles[0]
	bestPixels := -1
	for _, file := range chosen.VideoFiles {
		if file.FileType != "" && file.FileType != "video/mp4" {
			continue
		}
		if pixels := file.Width * file.Height; pixels > bestPixels {
			best = file
			bestPixels = pixels
		}
	}

	return &outbound.StockClip{
		ID:     chosen.ID,
		Width:  best.Width,
		Height: best.Height,
		Link:   best.Link,
	}
}

package adapters

import (
	"fmt"
	"io"
	"net/http"

	"github.com/brettsmiles-bit/ai-video-maker/application/ports/outbound"
)

type ContentFetcher interface {
	FetchContent(req *http.Request) ([]byte, error)
	// OpenStream returns the body of a 200 response unread. The caller
	// closes it.
	OpenStream(req *http.Request) (io.ReadCloser, error)
	// Do sends the request and returns the response whatever its status.
	Do(req *http.Request) (*http.Response, error)
}

type contentFetcher struct {
	logger outbound.LoggerPort
	client *http.Client
}

func NewContentFetcher(logger outbound.LoggerPort) ContentFetcher {
	return NewContentFetcherWithClient(logger, &http.Client{})
}

func NewContentFetcherWithClient(logger outbound.LoggerPort, client *http.Client) ContentFetcher {
	return &contentFetcher{
		logger: logger,
		client: client,
	}
}

func (c *contentFetcher) Do(req *http.Request) (*http.Response, error) {
	res, err := c.client.Do(req)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to send the HTTP request", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
		return nil, err
	}
	return res, nil
}

func (c *contentFetcher) OpenStream(req *http.Request) (io.ReadCloser, error) {
	res, err := c.Do(req)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		defer c.closeBody(req, res.Body)
		bodyPayload, err := io.ReadAll(io.LimitReader(res.Body, 4096))
		c.logger.ErrorWithFields(err, "HTTP request returned non-OK status code", map[string]interface{}{
			"method":  req.Method,
			"URL":     req.URL.String(),
			"status":  res.StatusCode,
			"message": string(bodyPayload),
		})
		return nil, fmt.Errorf("HTTP request returned non-OK status code: %d", res.StatusCode)
	}

	return res.Body, nil
}

func (c *contentFetcher) FetchContent(req *http.Request) ([]byte, error) {
	body, err := c.OpenStream(req)
	if err != nil {
		return nil, err
	}
	defer c.closeBody(req, body)

	payload, err := io.ReadAll(body)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to read the response body", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
		return nil, err
	}

	return payload, nil
}

func (c *contentFetcher) closeBody(req *http.Request, body io.ReadCloser) {
	if err := body.Close(); err != nil {
		c.logger.ErrorWithFields(err, "Failed to close the response body", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
	}
}

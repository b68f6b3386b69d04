package tryon

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/cenkalti/backoff/v4"
	"github.com/zeromicro/go-zero/rest/httpc"
)

const maxImageBytes = 10 << 20

// Composer renders garments onto a person photo.
type Composer interface {
	Compose(ctx context.Context, person []byte, garments [][]byte, description string) ([]byte, error)
}

// ImageFetcher downloads garment images.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type composeRequest struct {
	PersonImage   string   `json:"person_image"`
	GarmentImages []string `json:"garment_images"`
	Description   string   `json:"description"`
}

type composeResponse struct {
	Image string `json:"image"`
	Error string `json:"error,omitempty"`
}

// HTTPComposer posts base64 images to an image composition endpoint.
type HTTPComposer struct {
	Endpoint string
}

func (h HTTPComposer) Compose(ctx context.Context, person []byte, garments [][]byte, description string) ([]byte, error) {
	req := composeRequest{
		PersonImage:   base64.StdEncoding.EncodeToString(person),
		GarmentImages: make([]string, 0, len(garments)),
		Description:   description,
	}
	for _, g := range garments {
		req.GarmentImages = append(req.GarmentImages, base64.StdEncoding.EncodeToString(g))
	}

	resp, err := httpc.Do(ctx, http.MethodPost, h.Endpoint, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// 4xx will not get better on retry
	if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
		return nil, backoff.Permanent(fmt.Errorf("compose rejected: status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("compose failed: status %d", resp.StatusCode)
	}

	var body composeResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxImageBytes*2)).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode compose response: %w", err)
	}
	if body.Error != "" {
		return nil, errors.New(body.Error)
	}
	img, err := base64.StdEncoding.DecodeString(body.Image)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decode composed image: %w", err))
	}
	return img, nil
}

// HTTPFetcher downloads images with go-zero's http client.
type HTTPFetcher struct{}

func (HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := httpc.Do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
}

package datacare

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/tlms/telemetry/internal/config"
	"github.com/tlms/telemetry/internal/domain"
	"github.com/tlms/telemetry/internal/domain/repository"
	apperrors "github.com/tlms/telemetry/internal/pkg/errors"
)

const regionEndpoint = "/region"

type client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewClient создает клиент для API каталога регионов datacare
func NewClient(cfg *config.DatacareConfig, logger *zap.Logger) repository.RegionCatalogue {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL: cfg.BaseURL,
		logger:  logger,
	}
}

// FetchRegions загружает все регионы, ключ карты - ID региона
func (c *client) FetchRegions(ctx context.Context) (map[int64]domain.Region, error) {
	url := c.baseURL + regionEndpoint

	c.logger.Debug("Calling datacare region API", zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return nil, apperrors.ErrRemoteFetch.Wrapf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.Error(err))
		return nil, apperrors.ErrRemoteFetch.Wrapf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("Datacare API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, apperrors.ErrRemoteFetch.Wrap(fmt.Errorf("datacare API error: status %d, body: %s", resp.StatusCode, string(body)))
	}

	var regions map[int64]domain.Region
	if err := json.NewDecoder(resp.Body).Decode(&regions); err != nil {
		c.logger.Error("Failed to decode response", zap.Error(err))
		return nil, apperrors.ErrRemoteFetch.Wrapf("failed to decode response: %w", err)
	}
	if regions == nil {
		regions = make(map[int64]domain.Region)
	}

	c.logger.Debug("Datacare region API call successful", zap.Int("regions", len(regions)))

	return regions, nil
}

package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/ids-upch/advisory-api/internal/dto"
	"github.com/ids-upch/advisory-api/internal/models"
	"github.com/ids-upch/advisory-api/pkg/config"
)

const directoryListingPath = "/usuarios/profesores/listar"

// DirectoryRepository fetches the professor listing from the external
// directory backend.
type DirectoryRepository struct {
	baseURL string
	client  *http.Client
}

// NewDirectoryRepository constructs a directory repository.
func NewDirectoryRepository(cfg config.DirectoryConfig) *DirectoryRepository {
	return &DirectoryRepository{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// FetchProfessors retrieves and normalizes the professor directory.
func (r *DirectoryRepository) FetchProfessors(ctx context.Context) ([]models.Professor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+directoryListingPath, nil)
	if err != nil {
		return nil, fmt.Errorf("build directory request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch professor directory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("professor directory returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read directory response: %w", err)
	}

	professors, err := dto.DecodeDirectoryListing(body)
	if err != nil {
		return nil, fmt.Errorf("decode directory listing: %w", err)
	}
	return professors, nil
}

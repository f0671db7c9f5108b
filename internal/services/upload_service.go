package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"vendora/internal/storage"
	vendora_errors "vendora/pkg/errors"
)

// UploadService issues presigned PUT URLs for draft images. The draft payload
// later references the resulting public URLs.
type UploadService struct {
	storage *storage.Client
}

type PresignInput struct {
	SellerID    uuid.UUID
	FileName    string
	ContentType string
	FileSize    int64
}

type PresignResult struct {
	UploadURL string
	UploadKey string
	PublicURL string
	Headers   map[string]string
}

const maxImageSize = 10 << 20 // 10 MiB

func NewUploadService(storage *storage.Client) *UploadService {
	return &UploadService{storage: storage}
}

func (s *UploadService) CreatePresignedUpload(ctx context.Context, input PresignInput) (PresignResult, error) {
	if input.SellerID == uuid.Nil || input.FileName == "" || input.FileSize <= 0 {
		return PresignResult{}, vendora_errors.ErrInvalidInput
	}
	if input.FileSize > maxImageSize {
		return PresignResult{}, vendora_errors.NewValidationError([]string{"image exceeds the 10MB limit"})
	}
	if !strings.HasPrefix(input.ContentType, "image/") {
		return PresignResult{}, vendora_errors.NewValidationError([]string{"content type must be an image"})
	}
	if s.storage == nil {
		return PresignResult{}, errors.New("s3 storage is not configured")
	}

	key := fmt.Sprintf("drafts/%s/%s%s", input.SellerID, uuid.New(), strings.ToLower(path.Ext(input.FileName)))
	url, headers, err := s.storage.PresignPut(ctx, key, input.ContentType, input.FileSize)
	if err != nil {
		return PresignResult{}, err
	}

	return PresignResult{
		UploadURL: url,
		UploadKey: key,
		PublicURL: s.storage.FileURL(key),
		Headers:   headers,
	}, nil
}

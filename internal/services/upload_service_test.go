package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	vendora_errors "vendora/pkg/errors"
)

func TestUploadServiceValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := NewUploadService(nil)

	valid := PresignInput{
		SellerID:    uuid.New(),
		FileName:    "front.jpg",
		ContentType: "image/jpeg",
		FileSize:    1 << 20,
	}

	t.Run("missing file name", func(t *testing.T) {
		t.Parallel()
		input := valid
		input.FileName = ""
		_, err := svc.CreatePresignedUpload(ctx, input)
		require.ErrorIs(t, err, vendora_errors.ErrInvalidInput)
	})

	t.Run("oversized image", func(t *testing.T) {
		t.Parallel()
		input := valid
		input.FileSize = maxImageSize + 1
		_, err := svc.CreatePresignedUpload(ctx, input)
		var validation *vendora_errors.ValidationError
		require.ErrorAs(t, err, &validation)
		require.Contains(t, validation.Violations, "image exceeds the 10MB limit")
	})

	t.Run("non-image content type", func(t *testing.T) {
		t.Parallel()
		input := valid
		input.ContentType = "application/pdf"
		_, err := svc.CreatePresignedUpload(ctx, input)
		var validation *vendora_errors.ValidationError
		require.ErrorAs(t, err, &validation)
		require.Contains(t, validation.Violations, "content type must be an image")
	})

	t.Run("valid input without configured storage", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreatePresignedUpload(ctx, valid)
		require.EqualError(t, err, "s3 storage is not configured")
	})
}

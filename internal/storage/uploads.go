package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxFileSize is the hard ceiling for a single uploaded image (5 MB).
const MaxFileSize = 5 * 1024 * 1024

// ProfileImageDir is the subdirectory of the upload root holding profile images.
const ProfileImageDir = "profile_images"

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// UploadError represents a file upload validation error.
type UploadError struct {
	Code    string
	Message string
}

func (e *UploadError) Error() string {
	return e.Message
}

// ValidateImageFile validates the uploaded file size and extension before
// anything is written to disk.
func ValidateImageFile(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxFileSize {
		return &UploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("file size exceeds maximum allowed size of %d MB", MaxFileSize/(1024*1024)),
		}
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExtensions[ext] {
		return &UploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: "only .jpg, .jpeg and .png files are allowed",
		}
	}

	return nil
}

// SaveUploadedFile validates and saves the file under dir, returning the
// stored filename. Names are uuid-prefixed to prevent collisions.
func SaveUploadedFile(fileHeader *multipart.FileHeader, dir string) (string, error) {
	if err := ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s", uuid.New().String(), filepath.Base(fileHeader.Filename))
	fullPath := filepath.Join(dir, filename)

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(fullPath) // no partial writes survive a failed upload
		return "", fmt.Errorf("save file: %w", err)
	}

	return filename, nil
}

// ProfileImageURL returns the public read path for a stored profile image.
func ProfileImageURL(filename string) string {
	if filename == "" {
		return ""
	}
	return "/uploads/" + ProfileImageDir + "/" + filename
}

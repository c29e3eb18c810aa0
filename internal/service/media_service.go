package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Media service errors.
var (
	ErrFileTooLarge     = errors.New("file exceeds size limit")
	ErrUnsupportedMedia = errors.New("unsupported media type")
)

// mediaExtensions maps the accepted quiz media MIME types to the stored
// file extension.
var mediaExtensions = map[string]string{
	"audio/mpeg":      ".mp3",
	"audio/mp4":       ".m4a",
	"audio/wav":       ".wav",
	"audio/ogg":       ".ogg",
	"application/pdf": ".pdf",
}

// MediaService stores uploaded files under the configured upload directory.
// Quiz media (lecture audio, question papers) lands in media/, answer sheets
// submitted for AI evaluation land in answers/. Stored names are random so an
// upload can never clobber or probe another file.
type MediaService struct {
	uploadDir string
	maxBytes  int64
	log       zerolog.Logger
}

// NewMediaService creates a MediaService rooted at uploadDir, creating the
// subdirectories if needed.
func NewMediaService(uploadDir string, maxBytes int64, log zerolog.Logger) (*MediaService, error) {
	for _, sub := range []string{"media", "answers"} {
		if err := os.MkdirAll(filepath.Join(uploadDir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir: %w", err)
		}
	}
	return &MediaService{
		uploadDir: uploadDir,
		maxBytes:  maxBytes,
		log:       log.With().Str("component", "media_service").Logger(),
	}, nil
}

// MaxBytes returns the per-file upload ceiling.
func (s *MediaService) MaxBytes() int64 {
	return s.maxBytes
}

// SaveQuizMedia stores an admin-uploaded media file and returns its public
// URL path. Only audio and PDF uploads are accepted.
func (s *MediaService) SaveQuizMedia(data []byte, mimeType string) (string, error) {
	if int64(len(data)) > s.maxBytes {
		return "", ErrFileTooLarge
	}

	ext, ok := mediaExtensions[normalizeMIME(mimeType)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMedia, mimeType)
	}

	name := uuid.NewString() + ext
	if err := s.writeFile(filepath.Join("media", name), data); err != nil {
		return "", err
	}

	s.log.Info().Str("file", name).Int("size", len(data)).Msg("Quiz media stored")
	return "/uploads/media/" + name, nil
}

// SaveAnswerFile stores a student's submitted answer sheet and returns the
// path relative to the upload directory. Answer files are kept for audit but
// never served publicly.
func (s *MediaService) SaveAnswerFile(data []byte, originalName string) (string, error) {
	if int64(len(data)) > s.maxBytes {
		return "", ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" || len(ext) > 10 {
		ext = ".bin"
	}

	rel := filepath.Join("answers", uuid.NewString()+ext)
	if err := s.writeFile(rel, data); err != nil {
		return "", err
	}
	return rel, nil
}

func (s *MediaService) writeFile(rel string, data []byte) error {
	path := filepath.Join(s.uploadDir, rel)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write upload: %w", err)
	}
	return nil
}

func normalizeMIME(mimeType string) string {
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

package service

import (
	"context"
	"crypto/rand"
	"io"
	"log/slog"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"picshare/services/rest-api/internal/domain"
	"picshare/services/rest-api/internal/validator"
)

// SuffixLength — длина случайного суффикса в имени загруженного файла
const SuffixLength = 10

type ImageService struct {
	store  domain.ImageStore
	suffix func() string
}

func NewImageService(store domain.ImageStore) *ImageService {
	return &ImageService{
		store:  store,
		suffix: randomSuffix,
	}
}

// randomSuffix возвращает SuffixLength символов из [A-Z2-7]
func randomSuffix() string {
	return rand.Text()[:SuffixLength]
}

// Upload проверяет расширение файла и сохраняет его под именем name_<suffix>.ext.
// Возвращает относительный путь, по которому файл доступен через /images.
func (s *ImageService) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	op := "UploadImage"

	base := validator.BaseName(filename)
	if _, err := validator.ImageExtension(base); err != nil {
		slog.Warn("rejected upload", slog.String("op", op), slog.String("filename", filename))
		return "", status.Error(codes.InvalidArgument, err.Error())
	}

	i := strings.LastIndex(base, ".")
	name := base[:i] + "_" + s.suffix() + base[i:]

	path, err := s.store.Save(ctx, name, r)
	if err != nil {
		return "", internalError(op, err)
	}

	slog.Info("image stored", slog.String("op", op), slog.String("path", path))
	return path, nil
}

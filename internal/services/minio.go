package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"fleur_back_end/internal/apperrors"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// ImageStorage stocke un fichier binaire et renvoie son URL publique.
type ImageStorage interface {
	Upload(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, url string) error
}

type MinioStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioStorage : publicURL vaut par défaut http://<endpoint>.
func NewMinioStorage(client *minio.Client, bucket, publicURL string) *MinioStorage {
	if publicURL == "" {
		publicURL = client.EndpointURL().String()
	}
	return &MinioStorage{client: client, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}
}

// ObjectName construit un nom d'objet unique, ex. products/1700000000-3f2a.jpg
func ObjectName(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%s/%d-%s%s", folder, time.Now().UnixNano(), uuid.NewString()[:8], ext)
}

func (s *MinioStorage) Upload(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", apperrors.Collaborator("stockage", err)
	}
	return s.publicURL + "/" + s.bucket + "/" + objectName, nil
}

// Remove supprime l'objet désigné par une URL renvoyée par Upload.
// Les URL externes au bucket sont ignorées.
func (s *MinioStorage) Remove(ctx context.Context, url string) error {
	prefix := s.publicURL + "/" + s.bucket + "/"
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, strings.TrimPrefix(url, prefix), minio.RemoveObjectOptions{}); err != nil {
		return apperrors.Collaborator("stockage", err)
	}
	return nil
}

// MaxUploadSize est la taille maximale d'une image envoyée.
const MaxUploadSize = 10 << 20

// UploadFile valide un fichier de formulaire (image, 10 Mo max) puis le stocke.
func UploadFile(ctx context.Context, storage ImageStorage, folder string, file *multipart.FileHeader) (string, error) {
	if storage == nil {
		return "", apperrors.Collaborator("stockage", errors.New("stockage d'images non configuré"))
	}
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", apperrors.Validation("Seules les images sont acceptées", map[string]string{"file": contentType})
	}
	if file.Size > MaxUploadSize {
		return "", apperrors.Validation("Image trop volumineuse", map[string]string{"file": "10 Mo maximum"})
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	return storage.Upload(ctx, ObjectName(folder, file.Filename), f, file.Size, contentType)
}

package storage

import (
	"context"
	"fmt"
	"io"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader — хранилище артефактов: работы по фазам и ассеты
// сертификатов (логотипы, подписи).
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// SubmissionKey — ключ объекта для работы по фазе заявки.
func SubmissionKey(applicationID, phaseID int, ext string) string {
	return fmt.Sprintf("submissions/app_%d/phase_%d%s", applicationID, phaseID, ext)
}

// CertificateAssetKey — ключ объекта для ассета сертификата хакатона.
func CertificateAssetKey(hackathonID int, name string) string {
	return fmt.Sprintf("certificates/hackathon_%d/%s", hackathonID, name)
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Hariom00027/hackathon-system/middleware"
	"github.com/Hariom00027/hackathon-system/models"
	"github.com/Hariom00027/hackathon-system/services"
	"github.com/Hariom00027/hackathon-system/storage"
)

const maxUploadSize = 32 << 20

type UploadHandler struct {
	uploader           storage.FileUploader
	applicationService services.ApplicationService
	hackathonService   services.HackathonService
}

func NewUploadHandler(
	uploader storage.FileUploader,
	as services.ApplicationService,
	hs services.HackathonService,
) *UploadHandler {
	return &UploadHandler{
		uploader:           uploader,
		applicationService: as,
		hackathonService:   hs,
	}
}

// UploadSubmissionArtifact godoc
// @Summary Upload a phase submission artifact
// @Tags uploads
// @Description Stores the file and returns its public URL; pass that URL to the submission endpoint.
// @Accept multipart/form-data
// @Produce json
// @Param applicationID path int true "Application ID"
// @Param phaseID path int true "Phase ID"
// @Param file formData file true "Artifact file"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /applications/{applicationID}/phases/{phaseID}/artifact [post]
func (h *UploadHandler) UploadSubmissionArtifact(w http.ResponseWriter, r *http.Request) {
	applicationID, err := getIDFromURL(r, "applicationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	phaseID, err := getIDFromURL(r, "phaseID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	identity, err := middleware.GetIdentityFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	// Доступ к заявке проверяет сервис; чужая заявка — 403.
	if _, err := h.applicationService.GetDetails(r.Context(), identity, applicationID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to parse multipart form: %w", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to get file from form: %w", err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		badRequestResponse(w, r, errors.New("content-type header is required for the file"))
		return
	}

	key := storage.SubmissionKey(applicationID, phaseID, extensionForContentType(contentType))
	result, err := h.uploader.Upload(r.Context(), key, contentType, file)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	response := jsonResponse{"content_url": result.Location, "key": result.Key}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadCertificateAsset godoc
// @Summary Upload a certificate asset for a hackathon
// @Tags uploads
// @Description Logos and signature images used in certificate customization. Owner only.
// @Accept multipart/form-data
// @Produce json
// @Param hackathonID path int true "Hackathon ID"
// @Param asset formData file true "Asset file"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /hackathons/{hackathonID}/certificate-assets [post]
func (h *UploadHandler) UploadCertificateAsset(w http.ResponseWriter, r *http.Request) {
	hackathonID, err := getIDFromURL(r, "hackathonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	identity, err := middleware.GetIdentityFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	hackathon, err := h.hackathonService.GetByID(r.Context(), hackathonID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if identity.Role != models.RoleIndustry || hackathon.IndustryID != identity.ID {
		forbiddenResponse(w, r, "only the hackathon owner can upload certificate assets")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to parse multipart form: %w", err))
		return
	}

	file, header, err := r.FormFile("asset")
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to get asset file from form: %w", err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		badRequestResponse(w, r, errors.New("content-type header is required for the asset"))
		return
	}

	name := header.Filename
	if name == "" {
		name = "asset" + extensionForContentType(contentType)
	}

	key := storage.CertificateAssetKey(hackathonID, name)
	result, err := h.uploader.Upload(r.Context(), key, contentType, file)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	response := jsonResponse{"asset_url": result.Location, "key": result.Key}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func extensionForContentType(contentType string) string {
	switch contentType {
	case "application/pdf":
		return ".pdf"
	case "application/zip", "application/x-zip-compressed":
		return ".zip"
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/svg+xml":
		return ".svg"
	case "text/plain":
		return ".txt"
	default:
		return ".bin"
	}
}

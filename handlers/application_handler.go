package handlers

import (
	"net/http"

	"github.com/Hariom00027/hackathon-system/middleware"
	"github.com/Hariom00027/hackathon-system/services"
)

type ApplicationHandler struct {
	applicationService services.ApplicationService
}

func NewApplicationHandler(as services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: as}
}

// Apply godoc
// @Summary Apply to a hackathon
// @Tags applications
// @Description Applicant creates an application, individually or as a team.
// @Accept json
// @Produce json
// @Param hackathonID path int true "Hackathon ID"
// @Param body body services.ApplyInput true "Application parameters"
// @Success 201 {object} map[string]interface{} "Application created"
// @Failure 401 {object} map[string]string "Unauthenticated"
// @Failure 403 {object} map[string]string "Wrong role"
// @Failure 404 {object} map[string]string "Hackathon not found"
// @Failure 409 {object} map[string]string "Eligibility denied"
// @Security BearerAuth
// @Router /hackathons/{hackathonID}/apply [post]
func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
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

	var input services.ApplyInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	app, err := h.applicationService.Apply(r.Context(), identity, hackathonID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"application": app}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetMyApplications godoc
// @Summary List the caller's applications
// @Tags applications
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /applications/my [get]
func (h *ApplicationHandler) GetMyApplications(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentityFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	apps, err := h.applicationService.GetMyApplications(r.Context(), identity)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"applications": apps}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByHackathon godoc
// @Summary List applications of a hackathon (owner only)
// @Tags applications
// @Produce json
// @Param hackathonID path int true "Hackathon ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /hackathons/{hackathonID}/applications [get]
func (h *ApplicationHandler) GetByHackathon(w http.ResponseWriter, r *http.Request) {
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

	apps, err := h.applicationService.GetByHackathon(r.Context(), identity, hackathonID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"applications": apps}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetDetails godoc
// @Summary Get application details
// @Tags applications
// @Description Visible to the applicant who owns it or the industry user owning the hackathon.
// @Produce json
// @Param applicationID path int true "Application ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /applications/{applicationID} [get]
func (h *ApplicationHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	applicationID, err := getIDFromURL(r, "applicationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	identity, err := middleware.GetIdentityFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	app, err := h.applicationService.GetDetails(r.Context(), identity, applicationID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"application": app}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SubmitPhase godoc
// @Summary Submit work for a phase
// @Tags applications
// @Accept json
// @Produce json
// @Param applicationID path int true "Application ID"
// @Param phaseID path int true "Phase ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Unknown phase"
// @Failure 409 {object} map[string]string "Deadline passed or application rejected"
// @Security BearerAuth
// @Router /applications/{applicationID}/phases/{phaseID}/submissions [post]
func (h *ApplicationHandler) SubmitPhase(w http.ResponseWriter, r *http.Request) {
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

	var input struct {
		ContentURL string `json:"content_url"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	app, err := h.applicationService.SubmitPhase(r.Context(), identity, applicationID, phaseID, input.ContentURL)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"application": app}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ReviewPhase godoc
// @Summary Review a phase submission
// @Tags applications
// @Description Accept or reject a submission; rejection cascades to the whole application.
// @Accept json
// @Produce json
// @Param applicationID path int true "Application ID"
// @Param phaseID path int true "Phase ID"
// @Param body body services.ReviewInput true "Review decision"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Cannot accept while a reupload is pending"
// @Security BearerAuth
// @Router /applications/{applicationID}/phases/{phaseID}/review [put]
func (h *ApplicationHandler) ReviewPhase(w http.ResponseWriter, r *http.Request) {
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

	var input services.ReviewInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	app, err := h.applicationService.ReviewPhase(r.Context(), identity, applicationID, phaseID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"application": app}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RequestReupload godoc
// @Summary Ask the applicant to re-upload a phase submission
// @Tags applications
// @Accept json
// @Produce json
// @Param applicationID path int true "Application ID"
// @Param phaseID path int true "Phase ID"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Reupload limit reached"
// @Security BearerAuth
// @Router /applications/{applicationID}/phases/{phaseID}/reupload-request [post]
func (h *ApplicationHandler) RequestReupload(w http.ResponseWriter, r *http.Request) {
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

	var input struct {
		Message string `json:"message"`
	}
	if err := readJSON(w, r, &input); err != nil && err.Error() != "body must not be empty" {
		badRequestResponse(w, r, err)
		return
	}

	app, err := h.applicationService.RequestReupload(r.Context(), identity, applicationID, phaseID, input.Message)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"application": app}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Reject godoc
// @Summary Reject an application
// @Tags applications
// @Description Idempotent; the applicant can never re-apply to this hackathon.
// @Accept json
// @Produce json
// @Param applicationID path int true "Application ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /applications/{applicationID}/reject [post]
func (h *ApplicationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	applicationID, err := getIDFromURL(r, "applicationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	identity, err := middleware.GetIdentityFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input struct {
		Message string `json:"message"`
	}
	if err := readJSON(w, r, &input); err != nil && err.Error() != "body must not be empty" {
		badRequestResponse(w, r, err)
		return
	}

	app, err := h.applicationService.Reject(r.Context(), identity, applicationID, input.Message)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"application": app}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateRank godoc
// @Summary Assign the final rank
// @Tags applications
// @Description Explicit industry decision; the first rank assignment publishes results.
// @Accept json
// @Produce json
// @Param applicationID path int true "Application ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /applications/{applicationID}/rank [put]
func (h *ApplicationHandler) UpdateRank(w http.ResponseWriter, r *http.Request) {
	applicationID, err := getIDFromURL(r, "applicationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	identity, err := middleware.GetIdentityFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input struct {
		Rank int `json:"rank"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	app, err := h.applicationService.AssignRank(r.Context(), identity, applicationID, input.Rank)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"application": app}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SetTotalScore godoc
// @Summary Override the total score
// @Tags applications
// @Accept json
// @Produce json
// @Param applicationID path int true "Application ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /applications/{applicationID}/score [put]
func (h *ApplicationHandler) SetTotalScore(w http.ResponseWriter, r *http.Request) {
	applicationID, err := getIDFromURL(r, "applicationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	identity, err := middleware.GetIdentityFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input struct {
		Score float64 `json:"score"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	app, err := h.applicationService.SetTotalScore(r.Context(), identity, applicationID, input.Score)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"application": app}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PublishShowcase godoc
// @Summary Publish showcase content for a top-3 application
// @Tags applications
// @Accept json
// @Produce json
// @Param applicationID path int true "Application ID"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Final rank not in top three"
// @Security BearerAuth
// @Router /applications/{applicationID}/showcase [post]
func (h *ApplicationHandler) PublishShowcase(w http.ResponseWriter, r *http.Request) {
	applicationID, err := getIDFromURL(r, "applicationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	identity, err := middleware.GetIdentityFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input struct {
		Content string `json:"content"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	app, err := h.applicationService.PublishShowcase(r.Context(), identity, applicationID, input.Content)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"application": app}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Delete godoc
// @Summary Delete an application
// @Tags applications
// @Produce json
// @Param applicationID path int true "Application ID"
// @Success 204 "Deleted"
// @Security BearerAuth
// @Router /applications/{applicationID} [delete]
func (h *ApplicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	applicationID, err := getIDFromURL(r, "applicationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	identity, err := middleware.GetIdentityFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	if err := h.applicationService.Delete(r.Context(), identity, applicationID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/Hariom00027/hackathon-system/middleware"
	"github.com/Hariom00027/hackathon-system/services"
)

type HackathonHandler struct {
	hackathonService services.HackathonService
	rankingService   services.RankingService
}

func NewHackathonHandler(hs services.HackathonService, rs services.RankingService) *HackathonHandler {
	return &HackathonHandler{hackathonService: hs, rankingService: rs}
}

// Create godoc
// @Summary Create a hackathon
// @Tags hackathons
// @Accept json
// @Produce json
// @Param body body services.CreateHackathonInput true "Hackathon parameters"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Missing title or invalid phase"
// @Security BearerAuth
// @Router /hackathons [post]
func (h *HackathonHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentityFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input services.CreateHackathonInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	hackathon, err := h.hackathonService.Create(r.Context(), identity, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"hackathon": hackathon}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByID godoc
// @Summary Get a hackathon with its phases
// @Tags hackathons
// @Produce json
// @Param hackathonID path int true "Hackathon ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /hackathons/{hackathonID} [get]
func (h *HackathonHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	hackathonID, err := getIDFromURL(r, "hackathonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	hackathon, err := h.hackathonService.GetByID(r.Context(), hackathonID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"hackathon": hackathon}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// List godoc
// @Summary List hackathons
// @Tags hackathons
// @Produce json
// @Param limit query int false "Page size (default 20)"
// @Param offset query int false "Offset"
// @Success 200 {object} map[string]interface{}
// @Router /hackathons [get]
func (h *HackathonHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	hackathons, err := h.hackathonService.List(r.Context(), limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"hackathons": hackathons}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMine godoc
// @Summary List hackathons owned by the caller
// @Tags hackathons
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /hackathons/my [get]
func (h *HackathonHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentityFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	hackathons, err := h.hackathonService.ListMine(r.Context(), identity)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"hackathons": hackathons}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Update godoc
// @Summary Update a hackathon
// @Tags hackathons
// @Description Owner only. Passing phases replaces the phase list entirely.
// @Accept json
// @Produce json
// @Param hackathonID path int true "Hackathon ID"
// @Param body body services.UpdateHackathonInput true "Fields to change"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /hackathons/{hackathonID} [put]
func (h *HackathonHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var input services.UpdateHackathonInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	hackathon, err := h.hackathonService.Update(r.Context(), identity, hackathonID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"hackathon": hackathon}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Delete godoc
// @Summary Delete a hackathon
// @Tags hackathons
// @Param hackathonID path int true "Hackathon ID"
// @Success 204 "Deleted"
// @Security BearerAuth
// @Router /hackathons/{hackathonID} [delete]
func (h *HackathonHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.hackathonService.Delete(r.Context(), identity, hackathonID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Finalize godoc
// @Summary Finalize hackathon results
// @Tags results
// @Description Recomputes total scores, applies certificate customization and regenerates certificate links for every application. Safe to repeat.
// @Accept json
// @Produce json
// @Param hackathonID path int true "Hackathon ID"
// @Param body body services.CertificateConfig false "Certificate customization"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /hackathons/{hackathonID}/finalize [post]
func (h *HackathonHandler) Finalize(w http.ResponseWriter, r *http.Request) {
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

	// Тело с кастомизацией сертификатов опционально.
	var cfg services.CertificateConfig
	if err := readJSON(w, r, &cfg); err != nil && err.Error() != "body must not be empty" {
		badRequestResponse(w, r, err)
		return
	}

	apps, err := h.rankingService.Finalize(r.Context(), identity, hackathonID, cfg)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"applications": apps}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Results godoc
// @Summary Hackathon results
// @Tags results
// @Description Applications in result order: explicitly ranked first, the rest by total score.
// @Produce json
// @Param hackathonID path int true "Hackathon ID"
// @Success 200 {object} map[string]interface{}
// @Router /hackathons/{hackathonID}/results [get]
func (h *HackathonHandler) Results(w http.ResponseWriter, r *http.Request) {
	hackathonID, err := getIDFromURL(r, "hackathonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	hackathon, apps, err := h.rankingService.HackathonResults(r.Context(), hackathonID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"hackathon": hackathon, "results": apps}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// MyResult godoc
// @Summary The caller's own result in a hackathon
// @Tags results
// @Produce json
// @Param hackathonID path int true "Hackathon ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "No application in this hackathon"
// @Security BearerAuth
// @Router /hackathons/{hackathonID}/results/my [get]
func (h *HackathonHandler) MyResult(w http.ResponseWriter, r *http.Request) {
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

	app, err := h.rankingService.MyResult(r.Context(), identity, hackathonID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": app}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

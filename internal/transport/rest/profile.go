package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/forge-journal/forge-identity/internal/domain"
	"github.com/forge-journal/forge-identity/internal/service/profile"
	"github.com/forge-journal/forge-identity/internal/transport/response"
)

// maxBodyBytes bounds request bodies; a full profile document is a few KB.
const maxBodyBytes = 1 << 20

type profileService interface {
	GetProfile(ctx context.Context) (*domain.IdentityProfile, error)
	SaveProfile(ctx context.Context, input profile.SaveProfileInput) (*domain.SaveResult, error)
	UpdateSection(ctx context.Context, input profile.UpdateSectionInput) (*domain.SaveResult, error)
	ListHistory(ctx context.Context, input profile.ListHistoryInput) (*domain.HistoryPage, error)
	GetSnapshot(ctx context.Context, historyID int64) (*domain.HistoryEntry, error)
	Compare(ctx context.Context, input profile.CompareInput) (*domain.ComparisonResult, error)
	Restore(ctx context.Context, historyID int64) (*domain.SaveResult, error)
	AuditTrail(ctx context.Context, limit, offset int) ([]domain.AuditRecord, error)
}

// ProfileHandler serves the identity profile and its history.
type ProfileHandler struct {
	svc profileService
	log *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(svc profileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{svc: svc, log: logger.With("handler", "profile")}
}

// Register mounts the handler's routes on mux.
func (h *ProfileHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/profile", h.Get)
	mux.HandleFunc("PUT /api/profile", h.Save)
	mux.HandleFunc("PUT /api/profile/sections/{section}", h.UpdateSection)
	mux.HandleFunc("GET /api/profile/history", h.ListHistory)
	mux.HandleFunc("GET /api/profile/history/{id}", h.GetVersion)
	mux.HandleFunc("POST /api/profile/history/{id}/restore", h.Restore)
	mux.HandleFunc("GET /api/profile/compare", h.Compare)
	mux.HandleFunc("GET /api/audit", h.Audit)
}

type saveRequest struct {
	Profile     json.RawMessage `json:"profile"`
	Section     string          `json:"section"`
	Description *string         `json:"description"`
}

type sectionRequest struct {
	Data        json.RawMessage `json:"data"`
	Description *string         `json:"description"`
}

// Get handles GET /api/profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProfile(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.NewProfile(p))
}

// Save handles PUT /api/profile. The profile may use camelCase keys.
func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Profile) == 0 {
		writeError(w, http.StatusBadRequest, "profile is required")
		return
	}

	doc, err := domain.DecodeProfileDocument(req.Profile)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid profile document")
		return
	}

	section := domain.ProfileSection(req.Section)
	if section == "" {
		section = domain.SectionAll
	}

	res, err := h.svc.SaveProfile(r.Context(), profile.SaveProfileInput{
		Document:    doc,
		Section:     section,
		Description: req.Description,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.NewSaved(res))
}

// UpdateSection handles PUT /api/profile/sections/{section}.
func (h *ProfileHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	var req sectionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.svc.UpdateSection(r.Context(), profile.UpdateSectionInput{
		Section:     domain.ProfileSection(domain.SnakeCase(r.PathValue("section"))),
		Data:        req.Data,
		Description: req.Description,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.NewSaved(res))
}

// ListHistory handles GET /api/profile/history?limit=10&offset=0[&userId=].
func (h *ProfileHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var input profile.ListHistoryInput
	var ok bool
	if input.Limit, ok = queryInt(w, q.Get("limit"), "limit"); !ok {
		return
	}
	if input.Offset, ok = queryInt(w, q.Get("offset"), "offset"); !ok {
		return
	}
	if v := q.Get("userId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid userId")
			return
		}
		input.UserID = &id
	}

	page, err := h.svc.ListHistory(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.NewHistory(page))
}

// GetVersion handles GET /api/profile/history/{id}.
func (h *ProfileHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	entry, err := h.svc.GetSnapshot(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.NewVersion(entry))
}

// Compare handles GET /api/profile/compare?historyId1=&historyId2=.
func (h *ProfileHandler) Compare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	first, ok := queryID(w, q.Get("historyId1"), "historyId1")
	if !ok {
		return
	}
	second, ok := queryID(w, q.Get("historyId2"), "historyId2")
	if !ok {
		return
	}

	res, err := h.svc.Compare(r.Context(), profile.CompareInput{HistoryID1: first, HistoryID2: second})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.Comparison{Comparison: res})
}

// Restore handles POST /api/profile/history/{id}/restore.
func (h *ProfileHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	res, err := h.svc.Restore(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.NewSaved(res))
}

// Audit handles GET /api/audit?limit=&offset=.
func (h *ProfileHandler) Audit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, ok := queryInt(w, q.Get("limit"), "limit")
	if !ok {
		return
	}
	offset, ok := queryInt(w, q.Get("offset"), "offset")
	if !ok {
		return
	}

	records, err := h.svc.AuditTrail(r.Context(), limit, offset)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.Audit{Records: records})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid history id")
		return 0, false
	}
	return id, true
}

func queryID(w http.ResponseWriter, raw, name string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter. Empty means zero.
func queryInt(w http.ResponseWriter, raw, name string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return v, true
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"medrekk/internal/patient"
	"medrekk/internal/patient/domain"
	"medrekk/internal/server/httperr"
	"medrekk/internal/server/middleware"
)

// RecordsHandler serves patient records and their vitals, always scoped to
// the account resolved for the request.
type RecordsHandler struct {
	patients *patient.Service
}

// NewRecordsHandler returns a RecordsHandler backed by svc.
func NewRecordsHandler(svc *patient.Service) *RecordsHandler {
	return &RecordsHandler{patients: svc}
}

type recordRequest struct {
	LastName   string `json:"lastname"`
	MiddleName string `json:"middlename"`
	FirstName  string `json:"firstname"`
	Suffix     string `json:"suffix"`
	Birthdate  string `json:"birthdate"`
	Gender     string `json:"gender"`
	Mobile     string `json:"mobile"`
	Email      string `json:"email"`

	AddressCountry  string `json:"address_country"`
	AddressProvince string `json:"address_province"`
	AddressCity     string `json:"address_city"`
	AddressBarangay string `json:"address_barangay"`
	AddressLine1    string `json:"address_line1"`
	AddressLine2    string `json:"address_line2"`
	Religion        string `json:"religion"`
}

type recordResponse struct {
	ID         string `json:"id"`
	AccountID  string `json:"account_id"`
	LastName   string `json:"lastname"`
	MiddleName string `json:"middlename,omitempty"`
	FirstName  string `json:"firstname"`
	Suffix     string `json:"suffix,omitempty"`
	Birthdate  string `json:"birthdate,omitempty"`
	Gender     string `json:"gender,omitempty"`
	Mobile     string `json:"mobile,omitempty"`
	Email      string `json:"email,omitempty"`

	AddressCountry  string `json:"address_country"`
	AddressProvince string `json:"address_province"`
	AddressCity     string `json:"address_city"`
	AddressBarangay string `json:"address_barangay"`
	AddressLine1    string `json:"address_line1"`
	AddressLine2    string `json:"address_line2,omitempty"`
	Religion        string `json:"religion"`

	CreatedAt string `json:"created_at"`
}

func toRecordResponse(rec *domain.PatientRecord) recordResponse {
	out := recordResponse{
		ID:              rec.ID,
		AccountID:       rec.AccountID,
		LastName:        rec.LastName,
		MiddleName:      rec.MiddleName,
		FirstName:       rec.FirstName,
		Suffix:          rec.Suffix,
		Gender:          rec.Gender,
		Mobile:          rec.Mobile,
		Email:           rec.Email,
		AddressCountry:  rec.AddressCountry,
		AddressProvince: rec.AddressProvince,
		AddressCity:     rec.AddressCity,
		AddressBarangay: rec.AddressBarangay,
		AddressLine1:    rec.AddressLine1,
		AddressLine2:    rec.AddressLine2,
		Religion:        rec.Religion,
		CreatedAt:       rec.CreatedAt.UTC().Format(time.RFC3339),
	}
	if rec.Birthdate != nil {
		out.Birthdate = rec.Birthdate.Format("2006-01-02")
	}
	return out
}

// Create handles POST /records.
func (h *RecordsHandler) Create(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		httperr.Unauthorized(w, "Not authenticated.", "token")
		return
	}

	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Unprocessable(w, "Malformed JSON body.", "")
		return
	}

	rec := &domain.PatientRecord{
		LastName:        req.LastName,
		MiddleName:      req.MiddleName,
		FirstName:       req.FirstName,
		Suffix:          req.Suffix,
		Gender:          req.Gender,
		Mobile:          req.Mobile,
		Email:           req.Email,
		AddressCountry:  req.AddressCountry,
		AddressProvince: req.AddressProvince,
		AddressCity:     req.AddressCity,
		AddressBarangay: req.AddressBarangay,
		AddressLine1:    req.AddressLine1,
		AddressLine2:    req.AddressLine2,
		Religion:        req.Religion,
	}
	if req.Birthdate != "" {
		bd, err := time.Parse("2006-01-02", req.Birthdate)
		if err != nil {
			httperr.Unprocessable(w, "birthdate must be YYYY-MM-DD.", "birthdate")
			return
		}
		rec.Birthdate = &bd
	}

	created, err := h.patients.CreateRecord(r.Context(), accountID, rec)
	if err != nil {
		httperr.Unprocessable(w, err.Error(), "")
		return
	}
	writeJSON(w, http.StatusCreated, toRecordResponse(created))
}

// List handles GET /records.
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		httperr.Unauthorized(w, "Not authenticated.", "token")
		return
	}

	recs, err := h.patients.ListRecords(r.Context(), accountID)
	if err != nil {
		httperr.Internal(w, err)
		return
	}
	out := make([]recordResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toRecordResponse(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /records/{recordID}.
func (h *RecordsHandler) Get(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		httperr.Unauthorized(w, "Not authenticated.", "token")
		return
	}

	rec, err := h.patients.GetRecord(r.Context(), accountID, chi.URLParam(r, "recordID"))
	if err != nil {
		writeRecordError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(rec))
}

// Delete handles DELETE /records/{recordID}.
func (h *RecordsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		httperr.Unauthorized(w, "Not authenticated.", "token")
		return
	}

	if err := h.patients.DeleteRecord(r.Context(), accountID, chi.URLParam(r, "recordID")); err != nil {
		writeRecordError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type bloodPressureRequest struct {
	Systolic  int `json:"systolic"`
	Diastolic int `json:"diastolic"`
}

type bloodPressureResponse struct {
	ID        string `json:"id"`
	RecordID  string `json:"record_id"`
	Systolic  int    `json:"systolic"`
	Diastolic int    `json:"diastolic"`
	CreatedAt string `json:"created_at"`
}

// AddBloodPressure handles POST /records/{recordID}/bloodpressures.
func (h *RecordsHandler) AddBloodPressure(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		httperr.Unauthorized(w, "Not authenticated.", "token")
		return
	}

	var req bloodPressureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Unprocessable(w, "Malformed JSON body.", "")
		return
	}

	bp, err := h.patients.AddBloodPressure(r.Context(), accountID, chi.URLParam(r, "recordID"), req.Systolic, req.Diastolic)
	if err != nil {
		writeRecordError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bloodPressureResponse{
		ID:        bp.ID,
		RecordID:  bp.RecordID,
		Systolic:  bp.Systolic,
		Diastolic: bp.Diastolic,
		CreatedAt: bp.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// ListBloodPressures handles GET /records/{recordID}/bloodpressures.
func (h *RecordsHandler) ListBloodPressures(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		httperr.Unauthorized(w, "Not authenticated.", "token")
		return
	}

	bps, err := h.patients.ListBloodPressures(r.Context(), accountID, chi.URLParam(r, "recordID"))
	if err != nil {
		writeRecordError(w, err)
		return
	}
	out := make([]bloodPressureResponse, 0, len(bps))
	for _, bp := range bps {
		out = append(out, bloodPressureResponse{
			ID:        bp.ID,
			RecordID:  bp.RecordID,
			Systolic:  bp.Systolic,
			Diastolic: bp.Diastolic,
			CreatedAt: bp.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type heartRateRequest struct {
	HeartRate int `json:"heart_rate"`
}

type heartRateResponse struct {
	ID        string `json:"id"`
	RecordID  string `json:"record_id"`
	HeartRate int    `json:"heart_rate"`
	CreatedAt string `json:"created_at"`
}

// AddHeartRate handles POST /records/{recordID}/heartrates.
func (h *RecordsHandler) AddHeartRate(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		httperr.Unauthorized(w, "Not authenticated.", "token")
		return
	}

	var req heartRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Unprocessable(w, "Malformed JSON body.", "")
		return
	}

	hr, err := h.patients.AddHeartRate(r.Context(), accountID, chi.URLParam(r, "recordID"), req.HeartRate)
	if err != nil {
		writeRecordError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, heartRateResponse{
		ID:        hr.ID,
		RecordID:  hr.RecordID,
		HeartRate: hr.BPM,
		CreatedAt: hr.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// ListHeartRates handles GET /records/{recordID}/heartrates.
func (h *RecordsHandler) ListHeartRates(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		httperr.Unauthorized(w, "Not authenticated.", "token")
		return
	}

	hrs, err := h.patients.ListHeartRates(r.Context(), accountID, chi.URLParam(r, "recordID"))
	if err != nil {
		writeRecordError(w, err)
		return
	}
	out := make([]heartRateResponse, 0, len(hrs))
	for _, hr := range hrs {
		out = append(out, heartRateResponse{
			ID:        hr.ID,
			RecordID:  hr.RecordID,
			HeartRate: hr.BPM,
			CreatedAt: hr.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type bodyTemperatureRequest struct {
	BodyTemperature float64 `json:"body_temperature"`
}

type bodyTemperatureResponse struct {
	ID              string  `json:"id"`
	RecordID        string  `json:"record_id"`
	BodyTemperature float64 `json:"body_temperature"`
	CreatedAt       string  `json:"created_at"`
}

// AddBodyTemperature handles POST /records/{recordID}/bodytemperatures.
func (h *RecordsHandler) AddBodyTemperature(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		httperr.Unauthorized(w, "Not authenticated.", "token")
		return
	}

	var req bodyTemperatureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Unprocessable(w, "Malformed JSON body.", "")
		return
	}

	bt, err := h.patients.AddBodyTemperature(r.Context(), accountID, chi.URLParam(r, "recordID"), req.BodyTemperature)
	if err != nil {
		writeRecordError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bodyTemperatureResponse{
		ID:              bt.ID,
		RecordID:        bt.RecordID,
		BodyTemperature: bt.Celsius,
		CreatedAt:       bt.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// ListBodyTemperatures handles GET /records/{recordID}/bodytemperatures.
func (h *RecordsHandler) ListBodyTemperatures(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		httperr.Unauthorized(w, "Not authenticated.", "token")
		return
	}

	bts, err := h.patients.ListBodyTemperatures(r.Context(), accountID, chi.URLParam(r, "recordID"))
	if err != nil {
		writeRecordError(w, err)
		return
	}
	out := make([]bodyTemperatureResponse, 0, len(bts))
	for _, bt := range bts {
		out = append(out, bodyTemperatureResponse{
			ID:              bt.ID,
			RecordID:        bt.RecordID,
			BodyTemperature: bt.Celsius,
			CreatedAt:       bt.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func writeRecordError(w http.ResponseWriter, err error) {
	if errors.Is(err, patient.ErrRecordNotFound) {
		httperr.NotFound(w, "Patient record not found.")
		return
	}
	httperr.Internal(w, err)
}

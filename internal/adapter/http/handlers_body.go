package adapthttp

import (
	"fmt"
	"net/http"
	"time"

	"bodymetrics/internal/analytics"
	"bodymetrics/internal/app"
	"bodymetrics/internal/domain"
)

func (s *Server) handleMeasurements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		items, err := s.measurements.ListRecent(ctx, user.ID, intQuery(r, "limit", 30))
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})

	case http.MethodPost:
		var body struct {
			Type  domain.MeasurementType `json:"type"`
			Value float64                `json:"value"`
			Unit  string                 `json:"unit"`
			Side  domain.Side            `json:"side"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if body.Unit == "" {
			body.Unit = "cm"
		}
		rec, err := s.measurements.Record(ctx, user.ID, body.Type, body.Value, body.Unit, body.Side)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"entry": rec})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleBloodPressure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		items, err := s.bloodPressure.List(ctx, user.ID)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})

	case http.MethodPost:
		var body struct {
			Systolic  int `json:"systolic"`
			Diastolic int `json:"diastolic"`
			Pulse     int `json:"pulse"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		reading, err := s.bloodPressure.Record(ctx, user.ID, body.Systolic, body.Diastolic, body.Pulse)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		guidelines := domain.GuidelinesUSAHA
		if p, err := s.profile.Get(ctx, user.ID); err == nil {
			guidelines = p.MedicalGuidelines
		}
		category, high := analytics.ClassifyBloodPressure(reading.Systolic, reading.Diastolic, guidelines)
		writeJSON(w, http.StatusCreated, map[string]any{"entry": reading, "category": category, "high": high})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// profileRequest is the writable part of a profile. Birth date uses the
// calendar-day layout.
type profileRequest struct {
	HeightCm          float64                  `json:"heightCm"`
	BirthDate         string                   `json:"birthDate"`
	Gender            domain.Gender            `json:"gender"`
	ActivityLevel     domain.ActivityLevel     `json:"activityLevel"`
	MeasurementSystem domain.MeasurementSystem `json:"measurementSystem"`
	MedicalGuidelines domain.MedicalGuidelines `json:"medicalGuidelines"`
	TargetWeightKg    *float64                 `json:"targetWeightKg"`
	TargetWaistCm     *float64                 `json:"targetWaistCm"`
}

func (req profileRequest) toProfile(userID int64) (domain.UserProfile, error) {
	p := domain.UserProfile{
		UserID:            userID,
		HeightCm:          req.HeightCm,
		Gender:            req.Gender,
		ActivityLevel:     req.ActivityLevel,
		MeasurementSystem: req.MeasurementSystem,
		MedicalGuidelines: req.MedicalGuidelines,
		TargetWeightKg:    req.TargetWeightKg,
		TargetWaistCm:     req.TargetWaistCm,
	}
	if req.BirthDate != "" {
		b, err := time.Parse(domain.DayLayout, req.BirthDate)
		if err != nil {
			return p, fmt.Errorf("%w: birthDate must be YYYY-MM-DD", app.ErrInvalidInput)
		}
		p.BirthDate = &b
	}
	return p, nil
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		p, err := s.profile.Get(ctx, user.ID)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"profile": p})

	case http.MethodPut:
		var req profileRequest
		if err := parseJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		p, err := req.toProfile(user.ID)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		saved, err := s.profile.Save(ctx, p)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"profile": saved})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

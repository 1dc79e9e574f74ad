package api

import (
	"net/http"
	"strconv"

	"hydromon/internal/types"
)

// maxTrendDays bounds the day-count query parameter on trend endpoints.
const maxTrendDays = 31

// addWaterRequest is the body of POST /v1/water. Amount is a pointer so a
// missing field is distinguishable from an explicit zero.
type addWaterRequest struct {
	Amount *float64 `json:"amount"`
}

// HandleAddWater logs an intake event and returns the resulting evaluation.
func (s *Server) HandleAddWater(w http.ResponseWriter, r *http.Request) {
	var req addWaterRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		Error(w, r, err)
		return
	}
	if req.Amount == nil {
		Error(w, r, types.NewAppError(types.ErrCodeValidationMissingField, "amount is required", nil))
		return
	}

	ev, err := s.engine.AddWater(r.Context(), *req.Amount)
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, r, http.StatusOK, APIResponse{Data: ev})
}

// HandleRecordSignals replaces the latest signal snapshot and returns the
// resulting evaluation.
func (s *Server) HandleRecordSignals(w http.ResponseWriter, r *http.Request) {
	var snap types.SignalSnapshot
	if err := DecodeJSON(w, r, &snap); err != nil {
		Error(w, r, err)
		return
	}

	ev, err := s.engine.RecordExternalSignals(r.Context(), snap)
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, r, http.StatusOK, APIResponse{Data: ev})
}

// HandleAppLaunch runs the launch evaluation.
func (s *Server) HandleAppLaunch(w http.ResponseWriter, r *http.Request) {
	JSON(w, r, http.StatusOK, APIResponse{Data: s.engine.OnAppLaunch(r.Context())})
}

// HandleRefresh runs a periodic-refresh evaluation.
func (s *Server) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	JSON(w, r, http.StatusOK, APIResponse{Data: s.engine.OnPeriodicTick(r.Context())})
}

// HandleGetFractions returns the current display fractions.
func (s *Server) HandleGetFractions(w http.ResponseWriter, r *http.Request) {
	JSON(w, r, http.StatusOK, APIResponse{Data: s.engine.Fractions()})
}

// HandleWaterDaily returns per-day intake totals with hourly breakdowns.
func (s *Server) HandleWaterDaily(w http.ResponseWriter, r *http.Request) {
	days, err := trendDays(r)
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, r, http.StatusOK, APIResponse{Data: s.water.DailyBreakdown(days)})
}

// HandleHistoryDaily returns per-day mean risk values for trend charts.
func (s *Server) HandleHistoryDaily(w http.ResponseWriter, r *http.Request) {
	days, err := trendDays(r)
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, r, http.StatusOK, APIResponse{Data: s.history.DailyAverages(days)})
}

// HandleClearHistory empties the risk history and its persisted state.
func (s *Server) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.history.Clear(r.Context()); err != nil {
		Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetProfile returns the stored user profile, or 404 when none exists.
func (s *Server) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	p := s.profiles.Current()
	if p == nil {
		Error(w, r, types.NewAppError(types.ErrCodeNotFoundProfile, "no user profile configured", nil))
		return
	}
	JSON(w, r, http.StatusOK, APIResponse{Data: p})
}

// HandlePutProfile validates and stores the user profile.
func (s *Server) HandlePutProfile(w http.ResponseWriter, r *http.Request) {
	var p types.UserProfile
	if err := DecodeJSON(w, r, &p); err != nil {
		Error(w, r, err)
		return
	}
	if err := s.validate.Struct(&p); err != nil {
		Error(w, r, types.NewAppError(types.ErrCodeValidationProfile, "profile failed validation", err))
		return
	}

	if err := s.profiles.Save(r.Context(), p); err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, r, http.StatusOK, APIResponse{Data: p})
}

// HandleHealth reports liveness.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// trendDays parses the optional "days" query parameter, defaulting to the
// retention horizon of five days.
func trendDays(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return 5, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 || days > maxTrendDays {
		return 0, types.NewAppError(types.ErrCodeValidationDays,
			"days must be an integer between 1 and 31", err)
	}
	return days, nil
}

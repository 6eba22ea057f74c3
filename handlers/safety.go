package handlers

import (
	"net/http"
	"strings"

	"github.com/rxguard/rxguard-api/checker"
	"github.com/rxguard/rxguard-api/labs"
	"github.com/rxguard/rxguard-api/metrics"
	"github.com/rxguard/rxguard-api/refdata/entities"
)

// CheckPrescription evaluates a proposed order and returns the ranked
// alert list.
func CheckPrescription(chk *checker.InteractionChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req entities.PrescriptionCheckRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		if len(req.NewDrugs) == 0 {
			RespondWithError(w, http.StatusBadRequest, "newDrugs cannot be empty")
			return
		}
		if req.Patient.Age < 0 {
			RespondWithError(w, http.StatusBadRequest, "age cannot be negative")
			return
		}
		if g := strings.ToUpper(strings.TrimSpace(req.Patient.Gender)); g != "" && g != "M" && g != "F" {
			RespondWithError(w, http.StatusBadRequest, "gender must be M or F")
			return
		}
		if req.Patient.Creatinine != nil && *req.Patient.Creatinine <= 0 {
			RespondWithError(w, http.StatusBadRequest, "creatinine must be positive")
			return
		}

		alerts := chk.CheckPrescription(req)

		metrics.PrescriptionChecksTotal.Inc()
		criticalCount := 0
		for _, alert := range alerts {
			metrics.AlertsEmittedTotal.WithLabelValues(alert.Type.String(), alert.Severity.String()).Inc()
			if alert.Severity == entities.SeverityCritical {
				criticalCount++
			}
		}

		RespondWithJSON(w, r, http.StatusOK, map[string]any{
			"alerts":         alerts,
			"alert_count":    len(alerts),
			"critical_count": criticalCount,
		})
	}
}

// labResultRequest is the body of a critical-value check.
type labResultRequest struct {
	Test  string  `json:"test"`
	Value float64 `json:"value"`
}

// CheckCriticalValue evaluates one lab result. A recognized test with
// an in-bounds value (and an unrecognized test) answers 204: no
// finding is a valid outcome, not an error.
func CheckCriticalValue(evaluator *labs.CriticalValueEvaluator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req labResultRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Test) == "" {
			RespondWithError(w, http.StatusBadRequest, "test cannot be empty")
			return
		}

		alert := evaluator.Check(req.Test, req.Value)
		if alert == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		metrics.AlertsEmittedTotal.WithLabelValues(alert.Type.String(), alert.Severity.String()).Inc()
		RespondWithJSON(w, r, http.StatusOK, alert)
	}
}

package handlers

import (
	"net/http"

	"github.com/rxguard/rxguard-api/dosing"
)

type egfrRequest struct {
	Creatinine float64 `json:"creatinine"`
	Age        int     `json:"age"`
	Gender     string  `json:"gender"`
}

// CalculateEGFR serves the CKD-EPI 2021 estimate with its CKD stage.
func CalculateEGFR() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req egfrRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		egfr, err := dosing.CalculateEGFR(req.Creatinine, req.Age, req.Gender)
		if err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		stage := dosing.CKDStage(egfr)
		RespondWithJSON(w, r, http.StatusOK, map[string]any{
			"egfr":  egfr,
			"stage": stage,
		})
	}
}

type crclRequest struct {
	Creatinine float64 `json:"creatinine"`
	Age        int     `json:"age"`
	WeightKg   float64 `json:"weightKg"`
	Gender     string  `json:"gender"`
}

// CalculateCreatinineClearance serves the Cockcroft-Gault estimate.
func CalculateCreatinineClearance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req crclRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		crcl, err := dosing.CalculateCreatinineClearance(req.Creatinine, req.Age, req.WeightKg, req.Gender)
		if err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		RespondWithJSON(w, r, http.StatusOK, map[string]any{"crcl": crcl})
	}
}

type renalDoseRequest struct {
	Drug         string  `json:"drug"`
	EGFR         float64 `json:"egfr"`
	OriginalDose string  `json:"originalDose,omitempty"`
}

// RenalDose serves the eGFR-banded dose adjustment for a drug.
func RenalDose(calculator *dosing.Calculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req renalDoseRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		rec, err := calculator.RenalDose(req.Drug, req.EGFR, req.OriginalDose)
		if err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		if rec == nil {
			RespondWithError(w, http.StatusNotFound, "No renal dosing rule for drug")
			return
		}

		RespondWithJSON(w, r, http.StatusOK, rec)
	}
}

type hepaticDoseRequest struct {
	Drug         string `json:"drug"`
	ChildPugh    string `json:"childPugh"`
	OriginalDose string `json:"originalDose,omitempty"`
}

// HepaticDose serves the Child-Pugh keyed dose adjustment.
func HepaticDose(calculator *dosing.Calculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req hepaticDoseRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		rec, err := calculator.HepaticDose(req.Drug, req.ChildPugh, req.OriginalDose)
		if err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		if rec == nil {
			RespondWithError(w, http.StatusNotFound, "No hepatic dosing rule for drug and score")
			return
		}

		RespondWithJSON(w, r, http.StatusOK, rec)
	}
}

type pediatricDoseRequest struct {
	Drug     string  `json:"drug"`
	WeightKg float64 `json:"weightKg"`
	AgeYears float64 `json:"ageYears"`
}

// PediatricDose serves weight-based pediatric dosing.
func PediatricDose(calculator *dosing.Calculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pediatricDoseRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		rec, err := calculator.PediatricDose(req.Drug, req.WeightKg, req.AgeYears)
		if err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		if rec == nil {
			RespondWithError(w, http.StatusNotFound, "No pediatric dosing rule for drug")
			return
		}

		RespondWithJSON(w, r, http.StatusOK, rec)
	}
}

type geriatricDoseRequest struct {
	Drug string   `json:"drug"`
	Age  int      `json:"age"`
	EGFR *float64 `json:"egfr,omitempty"`
}

// GeriatricDose serves the age-based dose adjustment.
func GeriatricDose(calculator *dosing.Calculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req geriatricDoseRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		rec, err := calculator.GeriatricDose(req.Drug, req.Age, req.EGFR)
		if err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		if rec == nil {
			RespondWithError(w, http.StatusNotFound, "No geriatric adjustment applies")
			return
		}

		RespondWithJSON(w, r, http.StatusOK, rec)
	}
}

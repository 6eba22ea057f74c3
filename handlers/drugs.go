package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rxguard/rxguard-api/checker"
	"github.com/rxguard/rxguard-api/drugkb"
	"github.com/rxguard/rxguard-api/interfaces"
	"github.com/rxguard/rxguard-api/logging"
)

const defaultSearchLimit = 20

// SearchDrugs searches the catalog by generic name, brand or salt.
func SearchDrugs(kb *drugkb.KnowledgeBase, validator interfaces.InputValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := chi.URLParam(r, "query")
		if err := validator.ValidateInput(query); err != nil {
			logging.Warn("Unusual search input rejected", "query", query)
			RespondWithError(w, http.StatusBadRequest, "Invalid search term")
			return
		}

		limit := defaultSearchLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > 100 {
				RespondWithError(w, http.StatusBadRequest, "limit must be between 1 and 100")
				return
			}
			limit = parsed
		}

		results := kb.Search(query, limit)
		if len(results) == 0 {
			RespondWithError(w, http.StatusNotFound, "No drugs found")
			return
		}

		RespondWithJSON(w, r, http.StatusOK, results)
	}
}

// GetDrug returns the catalog record for a generic name.
func GetDrug(kb *drugkb.KnowledgeBase, validator interfaces.InputValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if err := validator.ValidateInput(name); err != nil {
			RespondWithError(w, http.StatusBadRequest, "Invalid drug name")
			return
		}

		drug, ok := kb.GetByGenericName(name)
		if !ok {
			RespondWithError(w, http.StatusNotFound, "Drug not found")
			return
		}

		RespondWithJSON(w, r, http.StatusOK, drug)
	}
}

// GetFormulations returns the marketed formulations of a generic.
func GetFormulations(kb *drugkb.KnowledgeBase, validator interfaces.InputValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if err := validator.ValidateInput(name); err != nil {
			RespondWithError(w, http.StatusBadRequest, "Invalid drug name")
			return
		}

		formulations, ok := kb.GetFormulations(name)
		if !ok {
			RespondWithError(w, http.StatusNotFound, "Drug not found")
			return
		}

		RespondWithJSON(w, r, http.StatusOK, formulations)
	}
}

// GetDrugsBySalt returns every generic shipping the given salt.
func GetDrugsBySalt(kb *drugkb.KnowledgeBase, validator interfaces.InputValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		salt := chi.URLParam(r, "salt")
		if err := validator.ValidateInput(salt); err != nil {
			RespondWithError(w, http.StatusBadRequest, "Invalid salt name")
			return
		}

		results := kb.GetBySalt(salt)
		if len(results) == 0 {
			RespondWithError(w, http.StatusNotFound, "No drugs found for salt")
			return
		}

		RespondWithJSON(w, r, http.StatusOK, results)
	}
}

// GetAlternatives returns replacement candidates for a drug, filtered
// against the drugs listed in the avoid query parameter.
func GetAlternatives(chk *checker.InteractionChecker, validator interfaces.InputValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if err := validator.ValidateInput(name); err != nil {
			RespondWithError(w, http.StatusBadRequest, "Invalid drug name")
			return
		}

		condition := r.URL.Query().Get("condition")

		var avoid []string
		if raw := r.URL.Query().Get("avoid"); raw != "" {
			for _, drug := range strings.Split(raw, ",") {
				if trimmed := strings.TrimSpace(drug); trimmed != "" {
					avoid = append(avoid, trimmed)
				}
			}
		}

		alternatives := chk.GetAlternatives(name, condition, avoid)
		RespondWithJSON(w, r, http.StatusOK, map[string]any{
			"drug":         name,
			"alternatives": alternatives,
		})
	}
}

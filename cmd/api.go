package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/preluded103/gridintel-cli/internal/engine"
	"github.com/preluded103/gridintel-cli/internal/model"
)

// recommendRequest is the scoring request body. An optional preset
// applies to this request only and leaves the shared engine untouched.
type recommendRequest struct {
	Site          model.Site                    `json:"site"`
	Requirements  model.TechnicalRequirements   `json:"requirements"`
	Opportunities []model.ConnectionOpportunity `json:"opportunities"`
	Preset        string                        `json:"preset,omitempty"`
}

type presetRequest struct {
	Name string `json:"name"`
}

// buildRouter wires the HTTP API around a shared engine. Concurrent
// requests are safe: config access is lock-guarded and each scoring run
// uses a per-call snapshot.
func buildRouter(eng *engine.Engine) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/recommendations", handleRecommend(eng))

		r.Route("/engine/config", func(r chi.Router) {
			r.Get("/", handleGetConfig(eng))
			r.Patch("/", handlePatchConfig(eng))
			r.Post("/preset", handlePreset(eng))
			r.Post("/normalize", handleNormalize(eng))
		})
	})

	return r
}

func handleRecommend(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recommendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(req.Opportunities) == 0 {
			writeError(w, http.StatusBadRequest, "opportunities are required")
			return
		}

		scorer := eng
		if req.Preset != "" {
			snapshot := eng.Config()
			weights, err := engine.PresetWeights(req.Preset)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			snapshot.Weights = weights
			scorer = engine.New(snapshot)
		}

		actx := model.AnalysisContext{
			Site:          req.Site,
			Requirements:  req.Requirements,
			Opportunities: req.Opportunities,
		}
		recs := scorer.Recommend(req.Opportunities, actx)

		zap.L().Info("api: recommendations generated",
			zap.String("site", req.Site.Name),
			zap.Int("candidates", len(req.Opportunities)),
			zap.Int("ranked", len(recs)),
		)
		writeJSON(w, http.StatusOK, recs)
	}
}

func handleGetConfig(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, eng.Config())
	}
}

func handlePatchConfig(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update engine.ConfigUpdate
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		eng.UpdateConfig(update)
		writeJSON(w, http.StatusOK, eng.Config())
	}
}

func handlePreset(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req presetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := eng.ApplyPreset(req.Name); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, eng.Config())
	}
}

func handleNormalize(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		eng.NormalizeWeights()
		writeJSON(w, http.StatusOK, eng.Config())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

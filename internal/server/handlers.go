package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"lolmath/internal/analysis"
	"lolmath/internal/catalog"
	"lolmath/internal/logging"
	"lolmath/internal/perception"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxRequestBytes bounds request bodies; resolve payloads carry a full
// model answer plus metadata.
const maxRequestBytes = 4 << 20

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.APIDebug("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"catalog": s.catalog.IsLoaded(),
	})
}

func (s *Server) handleRoles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, perception.Roles())
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Stats())
}

// handleReload runs a catalog load. A failed load leaves the store empty
// and may be retried by calling this again.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Load(r.Context()); err != nil {
		logging.APIError("catalog reload failed: %v", err)
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, s.catalog.Stats())
}

func (s *Server) handleChampions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"version":   s.catalog.Version(),
		"champions": s.catalog.ChampionNames(),
	})
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	name := chi.URLParam(r, "name")

	var resolve func(string) string
	switch kind {
	case "champion":
		resolve = s.catalog.ResolveChampionIcon
	case "splash":
		resolve = s.catalog.ResolveChampionSplash
	case "item":
		resolve = s.catalog.ResolveItemIcon
	case "rune":
		resolve = s.catalog.ResolveRuneIcon
	case "summoner":
		resolve = s.catalog.ResolveSummonerIcon
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown asset kind %q", kind))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": resolve(name)})
}

type abilityIcon struct {
	Key  string `json:"key,omitempty"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

func (s *Server) handleAbilities(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "champion")
	detail, ok := s.catalog.FetchAbilityDetail(r.Context(), name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("no ability data for %q", name))
		return
	}

	spells := make([]abilityIcon, 0, len(detail.Spells))
	for i, sp := range detail.Spells {
		spells = append(spells, abilityIcon{
			Key:  catalog.SlotKeys[i],
			Name: sp.Name,
			Icon: s.catalog.SpellIconURL(sp.Image.Full),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"champion": detail.ID,
		"name":     detail.Name,
		"passive":  abilityIcon{Name: detail.Passive.Name, Icon: s.catalog.PassiveIconURL(detail.Passive.Image.Full)},
		"spells":   spells,
	})
}

// analysisResponse is the wire shape of an analysis. Assets maps every
// name in the record to its icon URL when the catalog is loaded.
type analysisResponse struct {
	ID        *uuid.UUID          `json:"id,omitempty"`
	Record    *analysis.Record    `json:"record"`
	Citations []analysis.Citation `json:"citations"`
	Assets    map[string]string   `json:"assets,omitempty"`
	Error     string              `json:"error,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.advisor == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("analysis is not configured (missing API key)"))
		return
	}

	var m perception.Matchup
	if err := decodeBody(w, r, &m); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := m.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	a, err := s.advisor.Analyze(r.Context(), m)
	switch {
	case err == nil:
	case errors.Is(err, perception.ErrNoAnalysis) && a != nil:
		writeJSON(w, http.StatusUnprocessableEntity, analysisResponse{
			ID:        &a.ID,
			Citations: a.Citations,
			Error:     perception.ErrNoAnalysis.Error(),
		})
		return
	default:
		logging.APIError("analyze %s failed: %v", m, err)
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJSON(w, http.StatusOK, analysisResponse{
		ID:        &a.ID,
		Record:    a.Record,
		Citations: a.Citations,
		Assets:    s.assetsFor(r.Context(), a.Record),
	})
}

type resolveRequest struct {
	Text              string          `json:"text"`
	GroundingMetadata json.RawMessage `json:"groundingMetadata"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rec, citations := analysis.ResolveJSON(req.Text, req.GroundingMetadata)
	if rec == nil {
		writeJSON(w, http.StatusUnprocessableEntity, analysisResponse{
			Citations: citations,
			Error:     "no valid analysis found in text",
		})
		return
	}
	writeJSON(w, http.StatusOK, analysisResponse{
		Record:    rec,
		Citations: citations,
		Assets:    s.assetsFor(r.Context(), rec),
	})
}

// assetsFor resolves every champion, rune and item named in rec, both
// champions' splash art and the champion's skill-order icons (keyed
// "ability:<slot>"). Names with no asset are omitted.
func (s *Server) assetsFor(ctx context.Context, rec *analysis.Record) map[string]string {
	if rec == nil || !s.catalog.IsLoaded() {
		return nil
	}
	out := make(map[string]string)
	add := func(prefix, name string, resolve func(string) string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if u := resolve(name); u != "" {
			out[prefix+":"+name] = u
		}
	}

	add("champion", rec.Champion, s.catalog.ResolveChampionIcon)
	add("champion", rec.Opponent, s.catalog.ResolveChampionIcon)
	add("splash", rec.Champion, s.catalog.ResolveChampionSplash)
	add("splash", rec.Opponent, s.catalog.ResolveChampionSplash)
	for _, slot := range rec.Skills.MaxOrder {
		add("ability", slot, func(slot string) string {
			return s.catalog.ResolveAbilityIcon(ctx, rec.Champion, slot)
		})
	}
	add("rune", rec.Runes.Keystone, s.catalog.ResolveRuneIcon)
	for _, group := range [][]string{rec.Runes.PrimaryTree, rec.Runes.SecondaryTree, rec.Runes.Shards} {
		for _, name := range group {
			add("rune", name, s.catalog.ResolveRuneIcon)
		}
	}
	for _, group := range [][]analysis.BuildEntry{rec.Build.Starting, rec.Build.Core, rec.Build.Situational} {
		for _, e := range group {
			add("item", e.Name, s.catalog.ResolveItemIcon)
		}
	}
	return out
}

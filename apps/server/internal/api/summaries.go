package api

import (
	"net/http"

	"wmx-replay/apps/server/internal/archive"
)

func (s *Server) handleUpdateSummary(w http.ResponseWriter, r *http.Request) {
	t, ok := s.loadTournament(w, r)
	if !ok {
		return
	}
	up, err := readTextUpload(w, r, s.maxUpload)
	if err != nil {
		writeUploadError(w, err)
		return
	}

	res := s.reconciler.Parse(up.Text())
	if err := s.archive.Put(r.Context(), archive.Key("summary", up.Digest), up.Body); err != nil {
		s.log.Warn().Err(err).Str("file", up.Filename).Msg("archive summary failed")
	}

	updated, err := s.store.ApplySummary(r.Context(), t.ID, res)
	if err != nil {
		s.writeStoreError(w, err, "failed to update tournament")
		return
	}
	s.log.Info().
		Str("tournament", t.ID).
		Int("entries", res.TotalEntries).
		Str("profit_loss", res.ProfitLoss.String()).
		Msg("summary applied")
	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "Tournament statistics updated",
		"summary_data": res,
		"tournament":   updated,
	})
}

// handleParseSummary reconciles a summary without touching the store.
func (s *Server) handleParseSummary(w http.ResponseWriter, r *http.Request) {
	up, err := readTextUpload(w, r, s.maxUpload)
	if err != nil {
		writeUploadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.reconciler.Parse(up.Text()))
}

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"wmx-replay/apps/server/internal/archive"
	"wmx-replay/apps/server/internal/store"
	"wmx-replay/replay"
	"wmx-replay/winamax"
)

type headerErrorResponse struct {
	Error   string `json:"error"`
	Reason  string `json:"reason"`
	Snippet string `json:"snippet"`
}

type uploadResponse struct {
	TournamentID   string              `json:"tournament_id"`
	Name           string              `json:"name"`
	TotalHands     int                 `json:"total_hands"`
	HandsCount     int                 `json:"hands_count,omitempty"`
	SkippedHands   int                 `json:"skipped_hands"`
	TournamentType string              `json:"tournament_type"`
	Message        string              `json:"message"`
	Status         string              `json:"status"`
	Existing       bool                `json:"existing"`
	Errors         []winamax.HandError `json:"errors,omitempty"`
}

func existsResponse(t *store.Tournament) uploadResponse {
	return uploadResponse{
		TournamentID:   t.ID,
		Name:           t.Name,
		TotalHands:     t.TotalHands,
		TournamentType: t.TournamentType,
		Message:        "This tournament is already in your collection",
		Status:         "exists",
		Existing:       true,
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	up, err := readTextUpload(w, r, s.maxUpload)
	if err != nil {
		writeUploadError(w, err)
		return
	}

	res, err := s.parser.ParseLog(up.Text())
	if err != nil {
		var he *winamax.HeaderError
		if errors.As(err, &he) {
			writeJSON(w, http.StatusBadRequest, headerErrorResponse{Error: he.Message, Reason: he.Reason, Snippet: he.Snippet})
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	existing, err := s.store.FindTournament(ctx, res.Header.Name, res.Header.Date)
	switch {
	case err == nil:
		s.log.Info().Str("tournament", existing.ID).Str("name", existing.Name).Msg("upload already imported")
		writeJSON(w, http.StatusOK, existsResponse(existing))
		return
	case !errors.Is(err, store.ErrNotFound):
		s.log.Error().Err(err).Msg("lookup tournament failed")
		writeError(w, http.StatusInternalServerError, "lookup tournament failed")
		return
	}

	if err := s.archive.Put(ctx, archive.Key("hands", up.Digest), up.Body); err != nil {
		s.log.Warn().Err(err).Str("file", up.Filename).Msg("archive upload failed")
	}

	created, err := s.store.CreateTournament(ctx, store.NewTournament(res.Header, res, up.Digest), res.Hands)
	if errors.Is(err, store.ErrDuplicate) {
		if dup, ferr := s.store.FindTournament(ctx, res.Header.Name, res.Header.Date); ferr == nil {
			writeJSON(w, http.StatusOK, existsResponse(dup))
			return
		}
	}
	if err != nil {
		s.log.Error().Err(err).Str("name", res.Header.Name).Msg("create tournament failed")
		writeError(w, http.StatusInternalServerError, "failed to store tournament")
		return
	}

	s.log.Info().
		Str("tournament", created.ID).
		Str("name", created.Name).
		Int("hands", created.TotalHands).
		Int("skipped", res.Skipped).
		Msg("tournament imported")
	writeJSON(w, http.StatusOK, uploadResponse{
		TournamentID:   created.ID,
		Name:           created.Name,
		TotalHands:     created.TotalHands,
		HandsCount:     res.HandsCount,
		SkippedHands:   res.Skipped,
		TournamentType: created.TournamentType,
		Message:        "Tournament uploaded and parsed",
		Status:         "created",
		Errors:         res.Errors,
	})
}

func (s *Server) handleListTournaments(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListTournaments(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("list tournaments failed")
		writeError(w, http.StatusInternalServerError, "failed to load tournaments")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetTournament(w http.ResponseWriter, r *http.Request) {
	t, ok := s.loadTournament(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tournament":  t,
		"total_hands": t.TotalHands,
		"hero_name":   t.HeroName,
	})
}

func (s *Server) handleListHands(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := queryInt(r, "limit", 20)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.store.ListHands(r.Context(), chi.URLParam(r, "id"), page, limit)
	if err != nil {
		s.writeStoreError(w, err, "failed to load hands")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGetHand(w http.ResponseWriter, r *http.Request) {
	h, ok := s.loadHand(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h)
}

// handleReplay returns the hand's replay tape; ?format=wire gives the
// compact camelCase form that carries envelopes only.
func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	h, ok := s.loadHand(w, r)
	if !ok {
		return
	}
	tape, err := replay.BuildTape(h)
	if err != nil {
		var re *replay.ReplayError
		if errors.As(err, &re) {
			writeJSON(w, http.StatusUnprocessableEntity, re)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if r.URL.Query().Get("format") == "wire" {
		writeJSON(w, http.StatusOK, replay.ToWireReplayTape(tape))
		return
	}
	writeJSON(w, http.StatusOK, tape)
}

func (s *Server) handleDeleteTournament(w http.ResponseWriter, r *http.Request) {
	t, ok := s.loadTournament(w, r)
	if !ok {
		return
	}
	n, err := s.store.DeleteTournament(r.Context(), t.ID)
	if err != nil {
		s.writeStoreError(w, err, "failed to delete tournament")
		return
	}
	s.log.Info().Str("tournament", t.ID).Int("hands", n).Msg("tournament deleted")
	writeJSON(w, http.StatusOK, map[string]any{
		"message":               "Tournament '" + t.Name + "' deleted",
		"success":               true,
		"deleted_tournament_id": t.ID,
		"deleted_hands_count":   n,
	})
}

func (s *Server) loadTournament(w http.ResponseWriter, r *http.Request) (*store.Tournament, bool) {
	t, err := s.store.GetTournament(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err, "failed to load tournament")
		return nil, false
	}
	return t, true
}

func (s *Server) loadHand(w http.ResponseWriter, r *http.Request) (*winamax.Hand, bool) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || number < 1 {
		writeError(w, http.StatusBadRequest, "hand number must be a positive integer")
		return nil, false
	}
	h, err := s.store.GetHand(r.Context(), chi.URLParam(r, "id"), number)
	if err != nil {
		s.writeStoreError(w, err, "failed to load hand")
		return nil, false
	}
	return h, true
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	s.log.Error().Err(err).Msg(msg)
	writeError(w, http.StatusInternalServerError, msg)
}

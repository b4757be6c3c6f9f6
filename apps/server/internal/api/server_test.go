package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wmx-replay/apps/server/internal/store"
	"wmx-replay/replay"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(Config{Log: zerolog.Nop(), Store: store.NewMemoryService()})
}

func fixture(t *testing.T, path string) []byte {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return raw
}

func handsFixture(t *testing.T) []byte {
	return fixture(t, "../../../../winamax/testdata/ex1_hands.txt")
}

func multipartRequest(t *testing.T, method, target, filename string, body []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(body)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func uploadHands(t *testing.T, s *Server) uploadResponse {
	t.Helper()
	rec := do(s, multipartRequest(t, http.MethodPost, "/api/tournaments/upload", "ex1.txt", handsFixture(t)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res uploadResponse
	decode(t, rec, &res)
	return res
}

func TestRootAndHealth(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/", "/health"} {
		rec := do(s, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		var body map[string]string
		decode(t, rec, &body)
		assert.Equal(t, "ok", body["status"])
	}
}

func TestUploadCreatesThenReportsExisting(t *testing.T) {
	s := newTestServer(t)

	first := uploadHands(t, s)
	assert.Equal(t, "created", first.Status)
	assert.False(t, first.Existing)
	assert.Equal(t, "Ex1", first.Name)
	assert.Equal(t, 3, first.TotalHands)
	assert.Equal(t, 4, first.HandsCount)
	assert.Equal(t, 1, first.SkippedHands)
	require.Len(t, first.Errors, 1)
	assert.NotEmpty(t, first.TournamentID)

	second := uploadHands(t, s)
	assert.Equal(t, "exists", second.Status)
	assert.True(t, second.Existing)
	assert.Equal(t, first.TournamentID, second.TournamentID)
	assert.Equal(t, 3, second.TotalHands)
}

func TestUploadRejections(t *testing.T) {
	s := newTestServer(t)

	rec := do(s, multipartRequest(t, http.MethodPost, "/api/tournaments/upload", "ex1.csv", handsFixture(t)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(s, multipartRequest(t, http.MethodPost, "/api/tournaments/upload", "bad.txt", []byte{0xff, 0xfe, 'x'}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(s, httptest.NewRequest(http.MethodPost, "/api/tournaments/upload", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(s, multipartRequest(t, http.MethodPost, "/api/tournaments/upload", "empty.txt", []byte("nothing to see\n")))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var he headerErrorResponse
	decode(t, rec, &he)
	assert.Equal(t, "no_tournament", he.Reason)
	assert.Equal(t, "nothing to see", he.Snippet)
}

func TestUploadTooLarge(t *testing.T) {
	s := New(Config{Log: zerolog.Nop(), Store: store.NewMemoryService(), MaxUploadBytes: 256})
	rec := do(s, multipartRequest(t, http.MethodPost, "/api/tournaments/upload", "ex1.txt", handsFixture(t)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestBrowseTournament(t *testing.T) {
	s := newTestServer(t)
	id := uploadHands(t, s).TournamentID

	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/tournaments", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []store.Tournament
	decode(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Hero", list[0].HeroName)

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/tournaments/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var detail struct {
		Tournament store.Tournament `json:"tournament"`
		TotalHands int              `json:"total_hands"`
		HeroName   string           `json:"hero_name"`
	}
	decode(t, rec, &detail)
	assert.Equal(t, id, detail.Tournament.ID)
	assert.Equal(t, 3, detail.TotalHands)
	assert.Equal(t, "Hero", detail.HeroName)

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/tournaments/"+id+"/hands?page=2&limit=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var page store.HandPage
	decode(t, rec, &page)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Hands, 1)
	assert.Equal(t, 3, page.Hands[0].HandNumber)

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/tournaments/"+id+"/hands?page=x", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/tournaments/"+id+"/hands/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/tournaments/"+id+"/hands/7", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/tournaments/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReplayEndpoint(t *testing.T) {
	s := newTestServer(t)
	id := uploadHands(t, s).TournamentID

	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/tournaments/"+id+"/hands/1/replay", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var tape replay.ReplayTape
	decode(t, rec, &tape)
	require.NotEmpty(t, tape.Events)
	assert.Equal(t, replay.EventTableSnapshot, tape.Events[0].Type)

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/tournaments/"+id+"/hands/1/replay?format=wire", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var wire replay.WireReplayTape
	decode(t, rec, &wire)
	assert.Len(t, wire.Events, len(tape.Events))
	assert.NotEmpty(t, wire.Events[0].EnvelopeB64)
}

func TestUpdateSummary(t *testing.T) {
	s := newTestServer(t)
	id := uploadHands(t, s).TournamentID
	summary := fixture(t, "../../../../reconcile/testdata/ex1_summary.txt")

	rec := do(s, multipartRequest(t, http.MethodPost, "/api/tournaments/"+id+"/update-summary", "summary.txt", summary))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		SummaryData struct {
			EntriesCount  int `json:"entries_count"`
			FinalPosition int `json:"final_position"`
		} `json:"summary_data"`
		Tournament store.Tournament `json:"tournament"`
	}
	decode(t, rec, &body)
	assert.Equal(t, 2, body.SummaryData.EntriesCount)
	assert.Equal(t, 12, body.Tournament.FinalPosition)
	assert.Equal(t, 134, body.Tournament.TotalPlayers)
	assert.Equal(t, 1, body.Tournament.ReEntriesCount)
	assert.True(t, body.Tournament.SummaryApplied)

	rec = do(s, multipartRequest(t, http.MethodPost, "/api/tournaments/missing/update-summary", "summary.txt", summary))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestParseSummaryDoesNotPersist(t *testing.T) {
	s := newTestServer(t)
	summary := fixture(t, "../../../../reconcile/testdata/ex1_summary.txt")

	rec := do(s, multipartRequest(t, http.MethodPost, "/api/summaries/parse", "summary.txt", summary))
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	decode(t, rec, &body)
	assert.EqualValues(t, 2, body["entries_count"])
	assert.EqualValues(t, 1, body["late_registration_count"])

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/tournaments", nil))
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestDeleteTournament(t *testing.T) {
	s := newTestServer(t)
	id := uploadHands(t, s).TournamentID

	rec := do(s, httptest.NewRequest(http.MethodDelete, "/api/tournaments/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	decode(t, rec, &body)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 3, body["deleted_hands_count"])

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/tournaments/"+id, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(s, httptest.NewRequest(http.MethodDelete, "/api/tournaments/"+id, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

package apiserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spellfix/internal/corrector"
)

func newTestServer(t *testing.T) (*Server, *corrector.SpellCorrector) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	unigram := map[string]int64{}
	for _, c := range "abcdefghijklmnopqrstuvwxyz" {
		unigram[string(c)] = 1000
	}
	snap := &corrector.Snapshot{
		Corpus: corrector.NewFrequencyCorpus(map[string]int64{"awesome": 1000, "puppy": 400}),
		Letters: corrector.LetterStatistics{
			Unigram: unigram,
			Bigram:  map[string]int64{"es": 100},
		},
		Errors: corrector.ConfusionModel{
			Substitution: map[corrector.ConfusionKey]int64{{Context: "s", Char: "d"}: 50},
			Deletion:     map[corrector.ConfusionKey]int64{{Context: "e", Char: "s"}: 30},
			Insertion:    map[corrector.ConfusionKey]int64{{Context: "p", Char: "p"}: 40},
		},
	}
	sc, err := corrector.NewSpellCorrector(context.Background(), corrector.NewConfig(), snap, nil)
	require.NoError(t, err)
	return New(sc, ":0", 3), sc
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(w, req)
	return w
}

func TestHandleCorrect(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/v1/correct", `{"word": "awedome"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
	var res corrector.Correction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "awesome", res.Corrected)
	assert.False(t, res.Degraded)
	require.Len(t, res.Candidates, 1)

	w = do(t, s, http.MethodPost, "/api/v1/correct", `{"word": "umb"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "umb", res.Corrected)
	assert.True(t, res.Degraded)
	assert.Equal(t, corrector.ReasonNoCandidates, res.Reason)

	w = do(t, s, http.MethodPost, "/api/v1/correct", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request")
}

func TestHandleCorrectBatch(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/v1/correct/batch", `{"words": ["awedome", "pupppy", "umb"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Results []corrector.Correction `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Results, 3)
	assert.Equal(t, "awesome", body.Results[0].Corrected)
	assert.Equal(t, "puppy", body.Results[1].Corrected)
	assert.Equal(t, "umb", body.Results[2].Corrected)

	w = do(t, s, http.MethodPost, "/api/v1/correct/batch", `{"words": ["a", "b", "c", "d"]}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = do(t, s, http.MethodPost, "/api/v1/correct/batch", `{"words": []}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCustomWord(t *testing.T) {
	s, sc := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/v1/custom-word", `{"word": "umb"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "umb", sc.Correct("umb"))
	assert.False(t, sc.CorrectDetailed("umb").Degraded)

	w = do(t, s, http.MethodGet, "/api/v1/snapshot", "")
	require.Equal(t, http.StatusOK, w.Code)
	var info map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.EqualValues(t, 3, info["vocabularySize"])
	assert.EqualValues(t, 1, info["customWords"])

	w = do(t, s, http.MethodDelete, "/api/v1/custom-word/umb", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, sc.CorrectDetailed("umb").Degraded)

	w = do(t, s, http.MethodPost, "/api/v1/custom-word", `{"word": " "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsAndHealth(t *testing.T) {
	s, _ := newTestServer(t)
	do(t, s, http.MethodPost, "/api/v1/correct", `{"word": "awedome"}`)

	w := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "spellfix_corrections_total")
}

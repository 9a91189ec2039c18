package apiserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"spellfix/internal/corrector"
)

const requestIDHeader = "X-Request-Id"

type Server struct {
	corrector *corrector.SpellCorrector
	maxBatch  int
	server    *http.Server
}

func New(sc *corrector.SpellCorrector, addr string, maxBatch int) *Server {
	s := &Server{corrector: sc, maxBatch: maxBatch}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Router() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	engine.POST("/api/v1/correct", s.handleCorrect)
	engine.POST("/api/v1/correct/batch", s.handleCorrectBatch)
	engine.POST("/api/v1/custom-word", s.handleAddCustomWord)
	engine.DELETE("/api/v1/custom-word/:word", s.handleRemoveCustomWord)
	engine.GET("/api/v1/snapshot", s.handleSnapshot)
	engine.GET("/healthz", func(ctx *gin.Context) { ctx.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return engine
}

// Start serves until Stop is called.
func (s *Server) Start() error {
	log.Info().Str("address", s.server.Addr).Msg("listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	log.Warn().Msg("shutting down http server")
	return s.server.Shutdown(ctx)
}

func requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		t0 := time.Now()
		reqID := ctx.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		ctx.Header(requestIDHeader, reqID)
		ctx.Next()

		status := ctx.Writer.Status()
		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		took := time.Since(t0)
		requestDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(took.Seconds())
		log.Info().
			Str("requestId", reqID).
			Str("method", ctx.Request.Method).
			Str("route", route).
			Int("status", status).
			Dur("took", took).
			Msg("request")
	}
}

func respondWithError(ctx *gin.Context, status int, err error) {
	ctx.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func observe(res corrector.Correction) {
	switch {
	case res.Degraded:
		correctionsTotal.WithLabelValues("degraded").Inc()
	case res.Corrected == res.Original:
		correctionsTotal.WithLabelValues("unchanged").Inc()
	default:
		correctionsTotal.WithLabelValues("corrected").Inc()
	}
	candidatesPerWord.Observe(float64(len(res.Candidates)))
	skippedHypotheses.Add(float64(res.Skipped))
}

func (s *Server) handleCorrect(ctx *gin.Context) {
	var req struct {
		Word string `json:"word"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, http.StatusBadRequest, fmt.Errorf("invalid request"))
		return
	}
	res := s.corrector.CorrectDetailed(req.Word)
	observe(res)
	ctx.JSON(http.StatusOK, res)
}

func (s *Server) handleCorrectBatch(ctx *gin.Context) {
	var req struct {
		Words []string `json:"words"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || len(req.Words) == 0 {
		respondWithError(ctx, http.StatusBadRequest, fmt.Errorf("invalid request"))
		return
	}
	if len(req.Words) > s.maxBatch {
		respondWithError(ctx, http.StatusRequestEntityTooLarge,
			fmt.Errorf("too many words, at most %d allowed", s.maxBatch))
		return
	}
	results, err := s.corrector.CorrectBatch(ctx.Request.Context(), req.Words)
	if err != nil {
		respondWithError(ctx, http.StatusServiceUnavailable, err)
		return
	}
	for _, r := range results {
		observe(r)
	}
	ctx.JSON(http.StatusOK, gin.H{"results": results})
}

func (s *Server) handleAddCustomWord(ctx *gin.Context) {
	var req struct {
		Word string `json:"word"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Word) == "" {
		respondWithError(ctx, http.StatusBadRequest, fmt.Errorf("invalid request"))
		return
	}
	if err := s.corrector.AddCustomWord(ctx.Request.Context(), req.Word); err != nil {
		respondWithError(ctx, http.StatusInternalServerError, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

func (s *Server) handleRemoveCustomWord(ctx *gin.Context) {
	word := strings.TrimSpace(ctx.Param("word"))
	if word == "" {
		respondWithError(ctx, http.StatusBadRequest, fmt.Errorf("word is required"))
		return
	}
	if err := s.corrector.RemoveCustomWord(ctx.Request.Context(), word); err != nil {
		respondWithError(ctx, http.StatusInternalServerError, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleSnapshot(ctx *gin.Context) {
	snap := s.corrector.Snapshot()
	ctx.JSON(http.StatusOK, gin.H{
		"vocabularySize": snap.Corpus.Size(),
		"corpusSize":     snap.Corpus.Total(),
		"customWords":    len(s.corrector.CustomWords()),
		"loadedAt":       snap.LoadedAt,
	})
}

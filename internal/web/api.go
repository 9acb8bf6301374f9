package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/grecsai/grecs/internal/auth"
	"github.com/grecsai/grecs/internal/history"
	"github.com/grecsai/grecs/internal/ocr"
	"github.com/grecsai/grecs/internal/schema"
	"github.com/grecsai/grecs/internal/sectionizer"
	"github.com/grecsai/grecs/internal/store"
	"github.com/grecsai/grecs/internal/study"
)

var askRequestSchema = map[string]any{
	"type":     "object",
	"required": []string{"mode", "text"},
	"properties": map[string]any{
		"mode": map[string]any{"type": "string", "enum": []string{string(study.ModeGRESA), string(study.ModeConcept)}},
		"text": map[string]any{"type": "string"},
		"melc": map[string]any{"type": "string"},
	},
	"additionalProperties": false,
}

var loginRequestSchema = map[string]any{
	"type":                 "object",
	"required":             []string{"passphrase"},
	"properties":           map[string]any{"passphrase": map[string]any{"type": "string"}},
	"additionalProperties": false,
}

type askRequest struct {
	Mode study.Mode `json:"mode"`
	Text string     `json:"text"`
	MELC string     `json:"melc"`
}

type askResponse struct {
	ID       string                `json:"id"`
	Mode     study.Mode            `json:"mode"`
	Input    string                `json:"input"`
	Failed   bool                  `json:"failed"`
	Raw      string                `json:"raw"`
	Sections []sectionizer.Section `json:"sections"`
}

// bindSchema reads the body, validates it against def and decodes it
// into dst. It writes a 400 response and returns false on failure.
func bindSchema(c *gin.Context, name string, def map[string]any, dst any) bool {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read request body"})
		return false
	}
	if err := schema.ValidateJSON(name, def, raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return false
	}
	return true
}

// POST /api/v1/login
func (s *Server) apiLogin(c *gin.Context) {
	var req struct {
		Passphrase string `json:"passphrase"`
	}
	if !bindSchema(c, "api.login", loginRequestSchema, &req) {
		return
	}
	if err := s.deps.Gate.Check(req.Passphrase); err != nil {
		if errors.Is(err, auth.ErrBadPassphrase) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	sess, tok, err := s.ensureSession(c)
	if err == nil && tok == "" {
		tok, err = s.deps.Gate.IssueToken(sess.ID)
	}
	if err != nil {
		s.logger.Error("issue session token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	sess.SetAuthenticated(true)
	c.JSON(http.StatusOK, gin.H{"token": tok, "session": sess.ID})
}

// POST /api/v1/ask
func (s *Server) apiAsk(c *gin.Context) {
	var req askRequest
	if !bindSchema(c, "api.ask", askRequestSchema, &req) {
		return
	}

	sess, _, err := s.ensureSession(c)
	if err != nil {
		s.logger.Error("issue session token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start a session"})
		return
	}

	out := s.deps.Tutor.Ask(c.Request.Context(), sess, req.Mode, req.Text, req.MELC)
	if !out.Accepted() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": out.Rejected.Message,
			"check": out.Rejected.Check,
		})
		return
	}

	sections := out.Document.Sections
	if sections == nil {
		sections = []sectionizer.Section{}
	}
	c.JSON(http.StatusOK, askResponse{
		ID:       out.Entry.ID,
		Mode:     out.Mode,
		Input:    out.Input,
		Failed:   out.Failed,
		Raw:      out.Raw,
		Sections: sections,
	})
}

// GET /api/v1/history?scope=session|archive&limit=N
func (s *Server) apiHistory(c *gin.Context) {
	sess := currentSession(c)
	if c.Query("scope") != "archive" {
		c.JSON(http.StatusOK, gin.H{"entries": sess.Ledger.List()})
		return
	}

	if s.deps.Archive == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "history archive is not configured"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	archived, err := s.deps.Archive.QueryHistory(c.Request.Context(), store.HistoryQuery{
		QueryOpts: store.QueryOpts{Limit: limit},
		SessionID: sess.ID,
		Mode:      c.Query("mode"),
	})
	if err != nil {
		s.logger.Error("query history", "session", sess.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load history"})
		return
	}
	entries := make([]history.Entry, len(archived))
	for i, a := range archived {
		entries[i] = a.Entry
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// POST /api/v1/ocr (multipart: image)
func (s *Server) apiOCR(c *gin.Context) {
	if s.deps.OCR == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "ocr is not configured"})
		return
	}
	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image is required"})
		return
	}
	if !ocr.AllowedFile(fh.Filename) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"warning": ocr.ErrUnsupportedType.Error()})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image"})
		return
	}

	text, err := s.deps.OCR.ExtractText(c.Request.Context(), data)
	if err != nil {
		s.logger.Warn("ocr failed", "file", fh.Filename, "error", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"warning": ocrWarning(err)})
		return
	}
	if text == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"warning": "no text found in the image"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

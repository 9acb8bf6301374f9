package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grecsai/grecs/internal/export"
	"github.com/grecsai/grecs/internal/history"
	"github.com/grecsai/grecs/internal/ocr"
	"github.com/grecsai/grecs/internal/session"
	"github.com/grecsai/grecs/internal/store"
	"github.com/grecsai/grecs/internal/study"
	"github.com/grecsai/grecs/internal/tutor"
)

// GET /login
func (s *Server) loginPage(c *gin.Context) {
	if s.deps.Gate.Open() || authenticated(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.HTML(http.StatusOK, "login.tmpl", loginView{})
}

// POST /login
func (s *Server) login(c *gin.Context) {
	if err := s.deps.Gate.Check(c.PostForm("passphrase")); err != nil {
		s.logger.Info("login rejected", "ip", c.ClientIP())
		c.HTML(http.StatusUnauthorized, "login.tmpl", loginView{Error: "Incorrect passphrase."})
		return
	}
	sess := s.writableSession(c)
	if sess == nil {
		return
	}
	sess.SetAuthenticated(true)
	c.Redirect(http.StatusSeeOther, "/")
}

// POST /logout
func (s *Server) logout(c *gin.Context) {
	if sess := liveSession(c); sess != nil {
		s.deps.Sessions.End(sess.ID)
	}
	s.clearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, "/login")
}

// GET /?mode=gresa|concept
func (s *Server) indexPage(c *gin.Context) {
	sess := currentSession(c)
	mode := modeParam(c.Query("mode"))
	v := newIndexView(mode, sess.LastInput(mode), sess.Ledger.Len(), !s.deps.Gate.Open())
	c.HTML(http.StatusOK, "index.tmpl", v)
}

// POST /ask (multipart: mode, text, melc, image)
func (s *Server) ask(c *gin.Context) {
	mode, err := study.ParseMode(c.PostForm("mode"))
	if err != nil {
		c.String(http.StatusBadRequest, "%v", err)
		return
	}
	sess := s.writableSession(c)
	if sess == nil {
		return
	}
	text := c.PostForm("text")
	melc := c.PostForm("melc")

	extracted, warning := s.extractUpload(c)
	text = tutor.ChooseInput(text, extracted)

	v := newIndexView(mode, text, sess.Ledger.Len(), !s.deps.Gate.Open())
	v.MELC = melc
	v.Warning = warning

	out := s.deps.Tutor.Ask(c.Request.Context(), sess, mode, text, melc)
	if !out.Accepted() {
		if v.Warning == "" {
			v.Warning = out.Rejected.Message
		}
		c.HTML(http.StatusUnprocessableEntity, "index.tmpl", v)
		return
	}

	v.Result = newResultView(out)
	v.Count = sess.Ledger.Len()
	c.HTML(http.StatusOK, "index.tmpl", v)
}

// POST /reset
func (s *Server) reset(c *gin.Context) {
	if sess := liveSession(c); sess != nil {
		sess.ResetInputs()
	}
	c.Redirect(http.StatusSeeOther, "/?mode="+string(modeParam(c.PostForm("mode"))))
}

// GET /history
func (s *Server) historyPage(c *gin.Context) {
	c.HTML(http.StatusOK, "history.tmpl", historyView{
		Entries: currentSession(c).Ledger.List(),
		Gated:   !s.deps.Gate.Open(),
	})
}

// GET /export/:id?format=txt|pdf
func (s *Server) exportEntry(c *gin.Context) {
	entry, err := s.findEntry(c.Request.Context(), currentSession(c), c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "entry not found")
		return
	}
	doc := export.FromEntry(entry)

	switch format := c.DefaultQuery("format", "txt"); format {
	case "txt":
		attachment(c, export.Filename(entry.Mode, entry.Input, "txt"))
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(doc.Text()))
	case "pdf":
		var buf bytes.Buffer
		if err := export.PDF(&buf, doc, s.deps.PDF); err != nil {
			s.logger.Error("render pdf", "entry", entry.ID, "error", err)
			c.String(http.StatusInternalServerError, "could not render PDF")
			return
		}
		attachment(c, export.Filename(entry.Mode, entry.Input, "pdf"))
		c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	default:
		c.String(http.StatusBadRequest, "unknown format %q", format)
	}
}

// findEntry looks in the live ledger first, then in the archive. Archived
// entries of other sessions are not visible.
func (s *Server) findEntry(ctx context.Context, sess *session.Context, id string) (history.Entry, error) {
	if e, ok := sess.Ledger.Find(id); ok {
		return e, nil
	}
	if s.deps.Archive == nil {
		return history.Entry{}, store.ErrNotFound
	}
	archived, err := s.deps.Archive.GetHistory(ctx, id)
	if err != nil {
		return history.Entry{}, err
	}
	if archived.SessionID != sess.ID {
		return history.Entry{}, store.ErrNotFound
	}
	return archived.Entry, nil
}

// extractUpload runs OCR on the optional "image" field. It returns the
// text found, or a warning for the page. A missing upload yields neither.
func (s *Server) extractUpload(c *gin.Context) (string, string) {
	fh, err := c.FormFile("image")
	if err != nil {
		return "", ""
	}
	if !ocr.AllowedFile(fh.Filename) {
		return "", ocr.ErrUnsupportedType.Error()
	}
	if s.deps.OCR == nil {
		return "", "Image text extraction is not available. Please type your input."
	}
	if fh.Size > s.cfg.MaxUploadBytes {
		return "", fmt.Sprintf("Image is larger than %d bytes.", s.cfg.MaxUploadBytes)
	}

	f, err := fh.Open()
	if err != nil {
		return "", "Could not read the uploaded image."
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes))
	if err != nil {
		return "", "Could not read the uploaded image."
	}

	text, err := s.deps.OCR.ExtractText(c.Request.Context(), data)
	switch {
	case err != nil:
		s.logger.Warn("ocr failed", "file", fh.Filename, "error", err)
		return "", ocrWarning(err)
	case text == "":
		return "", "No text found in the image. Please type your input."
	}
	return text, ""
}

func ocrWarning(err error) string {
	if errors.Is(err, ocr.ErrUnsupportedType) || errors.Is(err, ocr.ErrEmptyImage) {
		return err.Error()
	}
	return "Could not read text from the image. Please type your input."
}

func modeParam(v string) study.Mode {
	if m, err := study.ParseMode(v); err == nil {
		return m
	}
	return study.ModeGRESA
}

func attachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
}

package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grecsai/grecs/internal/auth"
	"github.com/grecsai/grecs/internal/completion"
	"github.com/grecsai/grecs/internal/history"
	"github.com/grecsai/grecs/internal/session"
	"github.com/grecsai/grecs/internal/store"
	"github.com/grecsai/grecs/internal/study"
	"github.com/grecsai/grecs/internal/tutor"
)

const (
	validProblem = "A car travels 60 km in 1.5 hours. What is its speed?"
	gresaReply   = "Given: d = 60 km, t = 1.5 h\nRequired: v\nEquation: v = d / t\nSolution: v = 60 / 1.5\nAnswer: 40 km/h"
)

type stubCompleter struct {
	result completion.Result
	calls  int
}

func (s *stubCompleter) Complete(_ context.Context, _ string, _ completion.Options) completion.Result {
	s.calls++
	return s.result
}

type stubOCR struct {
	text string
	err  error
}

func (s stubOCR) ExtractText(context.Context, []byte) (string, error) {
	return s.text, s.err
}

type memArchive struct {
	entries map[string]store.ArchivedEntry
}

func (m *memArchive) AppendHistory(_ context.Context, sessionID string, e history.Entry) error {
	m.entries[e.ID] = store.ArchivedEntry{Entry: e, SessionID: sessionID}
	return nil
}

func (m *memArchive) QueryHistory(_ context.Context, q store.HistoryQuery) ([]store.ArchivedEntry, error) {
	var out []store.ArchivedEntry
	for _, e := range m.entries {
		if e.SessionID == q.SessionID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memArchive) GetHistory(_ context.Context, id string) (*store.ArchivedEntry, error) {
	e, ok := m.entries[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &e, nil
}

type testEnv struct {
	srv       *Server
	completer *stubCompleter
	gate      *auth.Gate
	sessions  *session.Manager
	cookies   []*http.Cookie
}

func newTestEnv(t *testing.T, gateCfg auth.Config, deps Deps) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gateCfg.Secret = []byte("test-secret")
	gate, err := auth.NewGate(gateCfg)
	require.NoError(t, err)

	env := &testEnv{
		completer: &stubCompleter{result: completion.Result{Text: gresaReply}},
		gate:      gate,
		sessions:  session.NewManager(time.Hour, nil),
	}
	deps.Tutor = tutor.NewService(env.completer, completion.DefaultOptions(), nil)
	deps.Sessions = env.sessions
	deps.Gate = gate

	env.srv, err = NewServer(DefaultConfig(), deps)
	require.NoError(t, err)
	return env
}

// do sends req with the cookies collected so far and keeps any new ones.
func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range e.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(w, req)
	if got := w.Result().Cookies(); len(got) > 0 {
		e.cookies = got
	}
	return w
}

func formRequest(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func multipartRequest(t *testing.T, path string, fields map[string]string, filename string, file []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonRequest(path string, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, auth.DefaultConfig(), Deps{})
	w := env.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestNewServerRequiresDeps(t *testing.T) {
	_, err := NewServer(DefaultConfig(), Deps{})
	assert.Error(t, err)
}

func TestIndexOpenGate(t *testing.T) {
	env := newTestEnv(t, auth.DefaultConfig(), Deps{})

	w := env.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "GRESA Mode")
	assert.Empty(t, env.cookies, "reading a page should not start a session")
	assert.Equal(t, 0, env.sessions.Len())

	env.do(multipartRequest(t, "/ask", map[string]string{"mode": "concept", "text": "photosynthesis"}, "", nil))
	require.Len(t, env.cookies, 1)
	assert.Equal(t, "grecs_session", env.cookies[0].Name)
	assert.True(t, env.cookies[0].HttpOnly)
	assert.Equal(t, 1, env.sessions.Len())

	w = env.do(httptest.NewRequest(http.MethodGet, "/?mode=concept", nil))
	assert.Contains(t, w.Body.String(), "Concept Simplifier Mode")
	assert.Contains(t, w.Body.String(), "photosynthesis")
	assert.Equal(t, 1, env.sessions.Len(), "cookie should resume the same session")
}

func TestAnonymousReadsDoNotCreateSessions(t *testing.T) {
	serve := func(env *testEnv, method, path string) int {
		w := httptest.NewRecorder()
		env.srv.Handler().ServeHTTP(w, httptest.NewRequest(method, path, nil))
		assert.Empty(t, w.Result().Cookies(), "%s %s set a cookie", method, path)
		return w.Code
	}

	gated := newTestEnv(t, auth.Config{Passphrase: "letmein"}, Deps{})
	for i := 0; i < 500; i++ {
		require.Equal(t, http.StatusOK, serve(gated, http.MethodGet, "/login"))
	}
	assert.Equal(t, http.StatusSeeOther, serve(gated, http.MethodGet, "/"))
	assert.Equal(t, http.StatusUnauthorized, serve(gated, http.MethodGet, "/api/v1/history"))
	assert.Equal(t, 0, gated.sessions.Len())

	open := newTestEnv(t, auth.DefaultConfig(), Deps{})
	for _, path := range []string{"/", "/?mode=concept", "/history", "/api/v1/history", "/export/missing"} {
		serve(open, http.MethodGet, path)
	}
	assert.Equal(t, http.StatusSeeOther, serve(open, http.MethodPost, "/reset"))
	assert.Equal(t, 0, open.sessions.Len())
}

func TestLoginFlow(t *testing.T) {
	env := newTestEnv(t, auth.Config{Passphrase: "letmein"}, Deps{})

	w := env.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = env.do(httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(formRequest("/login", url.Values{"passphrase": {"wrong"}}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Incorrect passphrase")
	assert.Equal(t, 0, env.sessions.Len())

	w = env.do(formRequest("/login", url.Values{"passphrase": {"letmein"}}))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, 1, env.sessions.Len())

	w = env.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(httptest.NewRequest(http.MethodPost, "/logout", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, 0, env.sessions.Len())
}

func TestAskGresa(t *testing.T) {
	env := newTestEnv(t, auth.DefaultConfig(), Deps{})

	w := env.do(multipartRequest(t, "/ask", map[string]string{"mode": "gresa", "text": validProblem}, "", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	for _, label := range []string{"Given", "Required", "Equation", "Solution", "Answer"} {
		assert.Contains(t, body, "<summary>"+label+"</summary>")
	}
	assert.Contains(t, body, `class="blue"`)
	assert.Contains(t, body, "40 km/h")
	assert.Equal(t, 1, env.completer.calls)
}

func TestAskConceptPanels(t *testing.T) {
	env := newTestEnv(t, auth.DefaultConfig(), Deps{})
	env.completer.result = completion.Result{Text: "Easy: plants eat light. Intermediate: chlorophyll. Advanced: Calvin cycle."}

	w := env.do(multipartRequest(t, "/ask", map[string]string{"mode": "concept", "text": "photosynthesis", "melc": "S7LT-IIe"}, "", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Easy Explanation")
	assert.Contains(t, body, "Advanced Explanation")
	assert.Contains(t, body, `value="S7LT-IIe"`)
}

func TestAskRejected(t *testing.T) {
	env := newTestEnv(t, auth.DefaultConfig(), Deps{})

	w := env.do(multipartRequest(t, "/ask", map[string]string{"mode": "gresa", "text": "too short"}, "", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "too short")
	assert.Equal(t, 0, env.completer.calls)
}

func TestAskBadMode(t *testing.T) {
	env := newTestEnv(t, auth.DefaultConfig(), Deps{})
	w := env.do(multipartRequest(t, "/ask", map[string]string{"mode": "poetry", "text": "x"}, "", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAskGenerationFailure(t *testing.T) {
	env := newTestEnv(t, auth.DefaultConfig(), Deps{})
	env.completer.result = completion.Result{Err: completion.ErrorMarker + "the service is busy"}

	w := env.do(multipartRequest(t, "/ask", map[string]string{"mode": "gresa", "text": validProblem}, "", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "the service is busy")
	assert.NotContains(t, w.Body.String(), "<details")
}

func TestAskWithImage(t *testing.T) {
	t.Run("ocr text used when nothing typed", func(t *testing.T) {
		env := newTestEnv(t, auth.DefaultConfig(), Deps{OCR: stubOCR{text: validProblem}})
		w := env.do(multipartRequest(t, "/ask", map[string]string{"mode": "gresa"}, "problem.png", []byte("png")))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, env.completer.calls)
	})

	t.Run("typed text wins", func(t *testing.T) {
		env := newTestEnv(t, auth.DefaultConfig(), Deps{OCR: stubOCR{text: "ignored"}})
		w := env.do(multipartRequest(t, "/ask", map[string]string{"mode": "gresa", "text": validProblem}, "problem.jpg", []byte("jpg")))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), validProblem)
	})

	t.Run("ocr failure is a warning", func(t *testing.T) {
		env := newTestEnv(t, auth.DefaultConfig(), Deps{OCR: stubOCR{err: errors.New("tesseract missing")}})
		w := env.do(multipartRequest(t, "/ask", map[string]string{"mode": "gresa"}, "problem.png", []byte("png")))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Could not read text from the image")
		assert.Equal(t, 0, env.completer.calls)
	})

	t.Run("no text found", func(t *testing.T) {
		env := newTestEnv(t, auth.DefaultConfig(), Deps{OCR: stubOCR{}})
		w := env.do(multipartRequest(t, "/ask", map[string]string{"mode": "gresa"}, "problem.png", []byte("png")))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "No text found")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		env := newTestEnv(t, auth.DefaultConfig(), Deps{OCR: stubOCR{text: validProblem}})
		w := env.do(multipartRequest(t, "/ask", map[string]string{"mode": "gresa"}, "problem.gif", []byte("gif")))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "unsupported image type")
	})
}

func TestResetClearsInputs(t *testing.T) {
	env := newTestEnv(t, auth.DefaultConfig(), Deps{})
	env.do(multipartRequest(t, "/ask", map[string]string{"mode": "gresa", "text": validProblem}, "", nil))

	w := env.do(httptest.NewRequest(http.MethodGet, "/?mode=gresa", nil))
	assert.Contains(t, w.Body.String(), validProblem)

	w = env.do(formRequest("/reset", url.Values{"mode": {"gresa"}}))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/?mode=gresa", w.Header().Get("Location"))

	w = env.do(httptest.NewRequest(http.MethodGet, "/?mode=gresa", nil))
	assert.NotContains(t, w.Body.String(), validProblem)
}

func askViaAPI(t *testing.T, env *testEnv) askResponse {
	t.Helper()
	w := env.do(jsonRequest("/api/v1/ask", `{"mode":"gresa","text":"`+validProblem+`"}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp askResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHistoryAndExport(t *testing.T) {
	env := newTestEnv(t, auth.DefaultConfig(), Deps{})
	resp := askViaAPI(t, env)
	require.NotEmpty(t, resp.ID)

	w := env.do(httptest.NewRequest(http.MethodGet, "/history", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/export/"+resp.ID)

	w = env.do(httptest.NewRequest(http.MethodGet, "/export/"+resp.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="GRESA_A_car_travels_60_km_in_1_5_hou.txt"`)
	assert.True(t, strings.HasPrefix(w.Body.String(), "Mode: GRESA Mode\nDate: "))
	assert.Contains(t, w.Body.String(), "Response:\n"+gresaReply)

	w = env.do(httptest.NewRequest(http.MethodGet, "/export/"+resp.ID+"?format=pdf", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w = env.do(httptest.NewRequest(http.MethodGet, "/export/"+resp.ID+"?format=docx", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(httptest.NewRequest(http.MethodGet, "/export/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportFromArchive(t *testing.T) {
	archive := &memArchive{entries: map[string]store.ArchivedEntry{}}
	env := newTestEnv(t, auth.DefaultConfig(), Deps{Archive: archive})

	sess := env.sessions.Create()
	tok, err := env.gate.IssueToken(sess.ID)
	require.NoError(t, err)

	entry := history.Entry{ID: "old", Timestamp: time.Now(), Mode: study.ModeConcept, Input: "inertia", Response: "Easy: stays put"}
	require.NoError(t, archive.AppendHistory(context.Background(), sess.ID, entry))
	require.NoError(t, archive.AppendHistory(context.Background(), "someone-else", history.Entry{ID: "theirs", Mode: study.ModeGRESA}))

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		w := httptest.NewRecorder()
		env.srv.Handler().ServeHTTP(w, req)
		return w
	}

	w := get("/export/old")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Concept_inertia.txt")

	w = get("/export/theirs")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = get("/api/v1/history?scope=archive")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Entries []history.Entry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Entries, 1)
	assert.Equal(t, "old", body.Entries[0].ID)
}

func TestAPIAsk(t *testing.T) {
	env := newTestEnv(t, auth.DefaultConfig(), Deps{})

	resp := askViaAPI(t, env)
	assert.Equal(t, study.ModeGRESA, resp.Mode)
	assert.False(t, resp.Failed)
	require.Len(t, resp.Sections, 5)
	assert.Equal(t, "Given", resp.Sections[0].Label)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"not json", `mode=gresa`, http.StatusBadRequest},
		{"missing text", `{"mode":"gresa"}`, http.StatusBadRequest},
		{"unknown mode", `{"mode":"poetry","text":"x"}`, http.StatusBadRequest},
		{"extra field", `{"mode":"gresa","text":"x","model":"gpt-5"}`, http.StatusBadRequest},
		{"rejected input", `{"mode":"concept","text":"one two three four five six seven eight nine ten eleven"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(jsonRequest("/api/v1/ask", tt.body))
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}
	assert.Equal(t, 1, env.completer.calls)

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/history", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Entries []history.Entry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Entries, 1)
	assert.Equal(t, resp.ID, body.Entries[0].ID)
}

func TestAPIRejectedCarriesCheck(t *testing.T) {
	env := newTestEnv(t, auth.DefaultConfig(), Deps{})
	w := env.do(jsonRequest("/api/v1/ask", `{"mode":"gresa","text":"How far?"}`))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "problem", body["check"])
	assert.NotEmpty(t, body["error"])
}

func TestAPILoginAndBearer(t *testing.T) {
	env := newTestEnv(t, auth.Config{Passphrase: "letmein"}, Deps{})

	w := env.do(jsonRequest("/api/v1/ask", `{"mode":"gresa","text":"`+validProblem+`"}`))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(jsonRequest("/api/v1/login", `{"passphrase":"nope"}`))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(jsonRequest("/api/v1/login", `{"passphrase":"letmein"}`))
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	req := jsonRequest("/api/v1/ask", `{"mode":"gresa","text":"`+validProblem+`"}`)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec := httptest.NewRecorder()
	env.srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = jsonRequest("/api/v1/ask", `{"mode":"gresa","text":"`+validProblem+`"}`)
	req.Header.Set("Authorization", "Bearer forged")
	rec = httptest.NewRecorder()
	env.srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPIOCR(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		env := newTestEnv(t, auth.DefaultConfig(), Deps{})
		w := env.do(multipartRequest(t, "/api/v1/ocr", nil, "p.png", []byte("png")))
		assert.Equal(t, http.StatusNotImplemented, w.Code)
	})

	t.Run("missing image", func(t *testing.T) {
		env := newTestEnv(t, auth.DefaultConfig(), Deps{OCR: stubOCR{text: "x"}})
		w := env.do(multipartRequest(t, "/api/v1/ocr", map[string]string{"mode": "gresa"}, "", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("text found", func(t *testing.T) {
		env := newTestEnv(t, auth.DefaultConfig(), Deps{OCR: stubOCR{text: "2 + 2?"}})
		w := env.do(multipartRequest(t, "/api/v1/ocr", nil, "p.png", []byte("png")))
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"text":"2 + 2?"}`, w.Body.String())
	})

	t.Run("nothing found", func(t *testing.T) {
		env := newTestEnv(t, auth.DefaultConfig(), Deps{OCR: stubOCR{}})
		w := env.do(multipartRequest(t, "/api/v1/ocr", nil, "p.png", []byte("png")))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "warning")
	})
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, auth.DefaultConfig(), Deps{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/ask", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	env.srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("GRECS_ADDR", "127.0.0.1:9000")
	t.Setenv("GRECS_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("GRECS_SECURE_COOKIE", "true")

	cfg := ConfigFromEnv()
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowOrigins)
	assert.True(t, cfg.SecureCookie)
}

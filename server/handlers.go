package server

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"ai_blog_generator/generator"
	"ai_blog_generator/publisher"
)

// --- Actions shared by the form and JSON endpoints ---

// actionInput is what an action reads from the request, regardless of encoding.
type actionInput struct {
	Keyword string `json:"keyword"`
	Title   string `json:"title"`
	Index   *int   `json:"index"`
}

type action func(ctx context.Context, sess *generator.Session, in actionInput) error

// errBadInput marks client mistakes (400) as opposed to stage failures.
var errBadInput = errors.New("bad input")

func (s *Server) doTitles(ctx context.Context, sess *generator.Session, in actionInput) error {
	if strings.TrimSpace(in.Keyword) == "" {
		return badInput(generator.ErrEmptyKeyword)
	}
	_, err := sess.GenerateTitles(ctx, in.Keyword)
	return err
}

func (s *Server) doSelect(_ context.Context, sess *generator.Session, in actionInput) error {
	return badInput(selectFrom(sess, in))
}

func (s *Server) doContent(ctx context.Context, sess *generator.Session, in actionInput) error {
	if in.Index != nil || in.Title != "" {
		if err := selectFrom(sess, in); err != nil {
			return badInput(err)
		}
	}
	_, err := sess.GenerateContent(ctx)
	if errors.Is(err, generator.ErrNoSelection) || errors.Is(err, generator.ErrContentExists) {
		return badInput(err)
	}
	return err
}

func (s *Server) doReset(_ context.Context, sess *generator.Session, _ actionInput) error {
	sess.Reset()
	return nil
}

func selectFrom(sess *generator.Session, in actionInput) error {
	if in.Index != nil {
		return sess.SelectIndex(*in.Index)
	}
	if in.Title == "" {
		return generator.ErrNoSelection
	}
	return sess.Select(in.Title)
}

func badInput(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(errBadInput, err)
}

// --- HTML front end ---

type pageView struct {
	State       generator.BlogState
	Selected    int
	Notice      string
	ContentHTML template.HTML
	Filename    string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	state, _ := sess.Snapshot()
	view := pageView{
		State:    state,
		Selected: max(state.SelectedIndex(), 0),
		Notice:   sess.TakeNotice(),
	}
	if state.HasContent() {
		html, err := publisher.RenderHTML(state.BlogContent)
		if err != nil {
			s.logger.Error("rendering markdown failed", "error", err)
			view.Notice = "Rendering failed: " + err.Error()
		}
		view.ContentHTML = template.HTML(html)
		view.Filename = publisher.Filename(state.SelectedTitle)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := s.page.Execute(w, view); err != nil {
		s.logger.Error("rendering page failed", "error", err)
	}
}

// formAction runs act for a form post and redirects back to the page; stage
// failures are already recorded as the session notice.
func (s *Server) formAction(act action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		in := actionInput{
			Keyword: r.PostFormValue("keyword"),
			Title:   r.PostFormValue("title"),
		}
		if raw := r.PostFormValue("index"); raw != "" {
			i, err := strconv.Atoi(raw)
			if err != nil {
				http.Error(w, "invalid index", http.StatusBadRequest)
				return
			}
			in.Index = &i
		}

		sess := s.session(w, r)
		ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
		defer cancel()
		err := act(ctx, sess, in)
		switch {
		case errors.Is(err, generator.ErrEmptyKeyword), errors.Is(err, generator.ErrContentExists):
			// 空关键词或正文已存在：什么都不做，回到页面。
		case errors.Is(err, errBadInput):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	state, _ := sess.Snapshot()
	if !state.HasContent() {
		http.Error(w, "no blog post generated yet", http.StatusNotFound)
		return
	}
	doc := publisher.NewDocument(state.SelectedTitle, state.BlogContent)
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename}))
	_, _ = io.WriteString(w, doc.Markdown)
}

// --- JSON API ---

type stateResp struct {
	SessionID string              `json:"session_id"`
	State     generator.BlogState `json:"state"`
	Error     string              `json:"error,omitempty"`
	Kind      string              `json:"kind,omitempty"`
}

func (s *Server) apiState(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	state, notice := sess.Snapshot()
	writeJSON(w, http.StatusOK, stateResp{SessionID: sess.ID, State: state, Error: notice})
}

func (s *Server) apiAction(act action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in actionInput
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil && !errors.Is(err, io.EOF) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}

		sess := s.session(w, r)
		ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
		defer cancel()
		err := act(ctx, sess, in)
		state, _ := sess.Snapshot()
		resp := stateResp{SessionID: sess.ID, State: state}

		status := http.StatusOK
		switch {
		case err == nil:
		case errors.Is(err, errBadInput):
			status = http.StatusBadRequest
			resp.Error = strings.TrimPrefix(err.Error(), errBadInput.Error()+"\n")
		default:
			// 阶段失败：降级后的状态照常返回，并附上错误类型。
			status = http.StatusBadGateway
			resp.Error = err.Error()
			sess.TakeNotice()
			resp.Kind = string(generator.KindOf(err))
		}
		writeJSON(w, status, resp)
	}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

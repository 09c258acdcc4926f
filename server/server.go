package server

import (
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"moments_copywriter/generator"
	"moments_copywriter/logger"
)

//go:embed web
var embeddedStatic embed.FS

// SessionCookie 保存会话 ID 的 cookie 名。
const SessionCookie = "copywriter_session"

type Server struct {
	genAgent *generator.Agent
	store    *sessionStore
	staticFS http.Handler
}

// Options 服务端可调参数。
type Options struct {
	SessionIdleTTL time.Duration
}

func New(genAgent *generator.Agent, opts Options) (*Server, error) {
	if genAgent == nil {
		return nil, errors.New("generator agent required")
	}
	if opts.SessionIdleTTL <= 0 {
		opts.SessionIdleTTL = 2 * time.Hour
	}

	sub, err := fs.Sub(embeddedStatic, "web")
	if err != nil {
		return nil, err
	}

	return &Server{
		genAgent: genAgent,
		store:    newStore(genAgent, opts.SessionIdleTTL),
		staticFS: http.FileServer(http.FS(sub)),
	}, nil
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/options", s.handleOptions)
		r.Get("/session", s.handleSessionGet)
		r.Delete("/session", s.handleSessionEnd)
		r.Post("/generate", s.handleGenerate)
		r.Post("/copy", s.handleCopy)
	})

	r.Handle("/*", s.staticFS)
	return r
}

// --- Handlers ---

type optionsResp struct {
	Scenes []generator.Scene `json:"scenes"`
	Styles []generator.Style `json:"styles"`
}

type generateReq struct {
	APIKey string `json:"api_key"`
	Scene  string `json:"scene"`
	Style  string `json:"style"`
	Extra  string `json:"extra"`
}

type sessionResp struct {
	generator.Snapshot
	HTML         string `json:"html,omitempty"`
	CopyButtonID string `json:"copy_button_id,omitempty"`
}

type errorBody struct {
	Code    generator.ErrorKind `json:"code"`
	Message string              `json:"message"`
	Detail  string              `json:"detail,omitempty"`
}

type errorResp struct {
	Error   errorBody   `json:"error"`
	Session sessionResp `json:"session"`
}

func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, optionsResp{Scenes: generator.Scenes(), Styles: generator.Styles()})
}

func (s *Server) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	sess, r := s.session(w, r)
	writeJSON(w, http.StatusOK, s.sessionView(r, sess, false))
}

func (s *Server) handleSessionEnd(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		s.store.delete(c.Value)
		logger.Info(r.Context(), "session ended", "session_id", c.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	sess, r := s.session(w, r)

	var req generateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, sess, generator.ValidationError("请求格式错误: "+err.Error()))
		return
	}
	// 场景/风格的取值校验在 Submit 中完成
	res, err := sess.Submit(r.Context(), generator.Request{
		Scene:  generator.Scene(req.Scene),
		Style:  generator.Style(req.Style),
		Extra:  req.Extra,
		APIKey: req.APIKey,
	})
	if err != nil {
		s.writeError(w, r, sess, err)
		return
	}
	logger.Info(r.Context(), "copy generated", "scene", req.Scene, "style", req.Style, "variants", len(res.Variants))
	writeJSON(w, http.StatusOK, s.sessionView(r, sess, true))
}

func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	sess, _ := s.session(w, r)
	text, err := sess.CopyText()
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody{Code: "nothing_to_copy", Message: "暂无可复制的文案"})
		return
	}
	writeJSON(w, http.StatusOK, newCopyCommand(text, sess.NextWidgetID("copy_ack")))
}

// --- Helpers ---

// session 取出或新建当前用户的会话，并把会话 ID 注入日志上下文。
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*generator.Session, *http.Request) {
	var sess *generator.Session
	if c, err := r.Cookie(SessionCookie); err == nil {
		sess, _ = s.store.get(c.Value)
	}
	if sess == nil {
		sess = s.store.create()
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		logger.Debug(r.Context(), "session created", "session_id", sess.ID)
	}
	ctx := logger.WithContext(r.Context(), logger.SessionIDKey, sess.ID)
	return sess, r.WithContext(ctx)
}

func (s *Server) sessionView(r *http.Request, sess *generator.Session, withCopyButton bool) sessionResp {
	resp := sessionResp{}
	if withCopyButton {
		resp.CopyButtonID = sess.NextWidgetID("copy_btn")
	}
	resp.Snapshot = sess.Snapshot()
	if resp.Result != nil {
		html, err := renderCopy(resp.Result.Text)
		if err != nil {
			logger.Warn(r.Context(), "render copy failed", "error", err.Error())
		}
		resp.HTML = html
	}
	return resp
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, sess *generator.Session, err error) {
	body := errorBody{Code: generator.KindOf(err), Message: err.Error()}
	var ge *generator.GenerationError
	if errors.As(err, &ge) {
		body.Message = ge.UserMessage()
		body.Detail = ge.Detail
	}
	status := generator.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Warn(r.Context(), "generate failed", "code", body.Code, "status", status)
	}
	writeJSON(w, status, errorResp{Error: body, Session: s.sessionView(r, sess, false)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

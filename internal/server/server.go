package server

import (
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/sw33tLie/dispensa/internal/utils"
	"github.com/sw33tLie/dispensa/pkg/form"
)

//go:embed web
var WebFS embed.FS

type Server struct {
	Controller *form.Controller
	Username   string
	Password   string
	// Now is the clock used for days-remaining; time.Now when nil.
	Now func() time.Time
}

func New(ctrl *form.Controller, user, pass string) *Server {
	return &Server{
		Controller: ctrl,
		Username:   user,
		Password:   pass,
		Now:        time.Now,
	}
}

// Handler returns the routes of the web UI.
func (s *Server) Handler() (http.Handler, error) {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.basicAuth(s.handleIndex))
	mux.HandleFunc("GET /help", s.basicAuth(s.handleHelp))
	mux.HandleFunc("POST /form/new", s.basicAuth(s.handleOpenCreate))
	mux.HandleFunc("POST /form/edit", s.basicAuth(s.handleOpenEdit))
	mux.HandleFunc("POST /form/cancel", s.basicAuth(s.handleCancel))
	mux.HandleFunc("POST /form/submit", s.basicAuth(s.handleSubmit))
	mux.HandleFunc("POST /items/delete", s.basicAuth(s.handleDelete))
	mux.HandleFunc("GET /api/snapshot", s.basicAuth(s.handleSnapshot))

	// Static Files
	webRoot, err := fs.Sub(WebFS, "web")
	if err != nil {
		return nil, err
	}
	fileServer := http.FileServer(http.FS(webRoot))
	mux.Handle("GET /static/", s.basicAuthMiddlewareForStatic(http.StripPrefix("/static/", fileServer)))

	return mux, nil
}

func (s *Server) Start(addr string) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	utils.Log.Infof("Starting server on %s", addr)
	return srv.ListenAndServe()
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.authorized(w, r) {
			next(w, r)
		}
	}
}

func (s *Server) basicAuthMiddlewareForStatic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.authorized(w, r) {
			next.ServeHTTP(w, r)
		}
	})
}

func (s *Server) authorized(w http.ResponseWriter, r *http.Request) bool {
	if s.Username == "" && s.Password == "" {
		return true
	}
	user, pass, ok := r.BasicAuth()
	if !ok || user != s.Username || pass != s.Password {
		w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

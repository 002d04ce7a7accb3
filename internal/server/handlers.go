package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sw33tLie/dispensa/internal/utils"
	"github.com/sw33tLie/dispensa/pkg/form"
	"github.com/sw33tLie/dispensa/pkg/inventory"
	"github.com/sw33tLie/dispensa/pkg/view"
	g "maragu.dev/gomponents"
)

const pageTitle = "Inventario Alimenti"

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, view.Page(pageTitle, s.app()))
}

func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, view.Page("Aiuto - "+pageTitle, view.Help()))
}

func (s *Server) handleOpenCreate(w http.ResponseWriter, r *http.Request) {
	s.Controller.OpenCreate()
	s.respond(w, r)
}

func (s *Server) handleOpenEdit(w http.ResponseWriter, r *http.Request) {
	category, id := r.FormValue("category"), r.FormValue("id")
	if err := s.Controller.OpenEdit(category, id); err != nil {
		s.fail(w, err)
		return
	}
	s.respond(w, r)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.Controller.Cancel()
	s.respond(w, r)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	fields := form.Fields{
		Name:     r.FormValue("name"),
		Category: r.FormValue("category"),
		Expiry:   r.FormValue("expiry"),
		Price:    r.FormValue("price"),
	}

	item, err := s.Controller.Submit(r.Context(), fields)
	var verr *form.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.Log.Infof("submit rejected: %v", verr)
		trigger, _ := json.Marshal(map[string]string{"invalid-form": form.AlertInvalid})
		w.Header().Set("HX-Trigger", string(trigger))
	case err != nil:
		s.fail(w, err)
		return
	default:
		utils.Log.Infof("item %q saved (%s)", item.Name, item.ID)
	}
	s.respond(w, r)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	category, id := r.FormValue("category"), r.FormValue("id")
	// hx-confirm or the confirmation page sets the marker; anything else is asked first.
	confirmed := func(string) bool { return r.FormValue(view.ConfirmedField) == "1" }
	deleted, err := s.Controller.Delete(r.Context(), category, id, confirmed)
	if err != nil {
		s.fail(w, err)
		return
	}
	if !deleted {
		var it inventory.Item
		s.Controller.Read(func(store *inventory.Store, _ form.State) {
			it, err = store.Get(category, id)
		})
		if err != nil {
			s.fail(w, err)
			return
		}
		confirm := view.ConfirmDelete(category, it)
		if r.Header.Get("HX-Request") != "true" {
			confirm = view.Page(pageTitle, confirm)
		}
		s.render(w, http.StatusOK, confirm)
		return
	}
	utils.Log.Infof("item %s deleted from %s", id, category)
	s.respond(w, r)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	var (
		data []byte
		err  error
	)
	s.Controller.Read(func(store *inventory.Store, _ form.State) {
		data, err = json.Marshal(store)
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// respond answers a state-changing request. htmx requests get the freshly
// rendered app fragment; plain form posts are redirected to the page.
func (s *Server) respond(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("HX-Request") != "true" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, http.StatusOK, s.app())
}

func (s *Server) app() g.Node {
	var node g.Node
	now := s.now()
	s.Controller.Read(func(store *inventory.Store, state form.State) {
		// Render while holding the lock: the node reads the store lazily.
		var buf strings.Builder
		if err := view.App(view.Model{Store: store, State: state, Now: now}).Render(&buf); err != nil {
			utils.Log.Errorf("render failed: %v", err)
		}
		node = g.Raw(buf.String())
	})
	return node
}

func (s *Server) render(w http.ResponseWriter, status int, n g.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := n.Render(w); err != nil {
		utils.Log.Errorf("render failed: %v", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, form.ErrUnknownCategory):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, form.ErrClosed):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		utils.Log.Errorf("request failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/zaocat/Purrfit/internal/chart"
	"github.com/zaocat/Purrfit/internal/reconcile"
	"github.com/zaocat/Purrfit/internal/service"
	"github.com/zaocat/Purrfit/pkg/domain"
)

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Snapshot(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.renderLogin(w, r, http.StatusOK, loginData{
		Title:   view.Settings.Title,
		Favicon: view.Settings.Favicon,
		Error:   r.URL.Query().Get("err") == "1",
	})
}

func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	token, err := s.auth.Login(r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			view, verr := s.svc.Snapshot(r.Context())
			if verr != nil {
				s.internalError(w, r, verr)
				return
			}
			s.renderLogin(w, r, http.StatusUnauthorized, loginData{
				Title:   view.Settings.Title,
				Favicon: view.Settings.Favicon,
				Error:   true,
			})
			return
		}
		s.internalError(w, r, err)
		return
	}
	http.SetCookie(w, s.auth.SessionCookie(token))
	http.Redirect(w, r, "/add", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, s.auth.ClearCookie())
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, false)
}

func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, true)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, admin bool) {
	view, err := s.svc.Snapshot(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	cat := r.URL.Query().Get("cat")
	if cat == "" || !view.Settings.HasCat(cat) {
		cat = view.Settings.Cats[0]
	}
	window := chart.ParseWindow(r.URL.Query().Get("range"))

	var catRecords []domain.WeightRecord
	for _, rec := range view.Records {
		if rec.Name == cat {
			catRecords = append(catRecords, rec)
		}
	}
	windowed := chart.FilterWindow(catRecords, window, s.now())

	data := pageData{
		Title:     view.Settings.Title,
		Favicon:   view.Settings.Favicon,
		Cats:      view.Settings.Cats,
		ActiveCat: cat,
		Window:    window,
		Records:   windowed,
		Chart:     chart.Project(windowed, chart.DefaultLayout),
		Layout:    chart.DefaultLayout,
		Admin:     admin,
	}
	name := "home"
	if admin {
		name = "admin"
	}
	s.render(w, r, http.StatusOK, name, data)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	weight, err := strconv.ParseFloat(r.PostFormValue("weight"), 64)
	if err != nil {
		http.Error(w, "invalid weight", http.StatusBadRequest)
		return
	}
	cat, err := s.svc.SaveRecord(r.Context(), service.RecordInput{
		ID:     r.PostFormValue("id"),
		Date:   r.PostFormValue("date"),
		Weight: weight,
		Name:   r.PostFormValue("name"),
		Note:   r.PostFormValue("note"),
	})
	if err != nil {
		var verr domain.ValidationError
		if errors.As(err, &verr) {
			http.Error(w, verr.Error(), http.StatusBadRequest)
			return
		}
		s.internalError(w, r, err)
		return
	}
	if current := r.PostFormValue("current_cat"); current != "" {
		cat = current
	}
	s.redirectToAdmin(w, r, cat)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	if err := s.svc.DeleteRecord(r.Context(), r.PostFormValue("id")); err != nil {
		s.internalError(w, r, err)
		return
	}
	s.redirectToAdmin(w, r, r.PostFormValue("current_cat"))
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	csvText, err := importPayload(r)
	if err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	cat := r.FormValue("cat")
	summary, err := s.svc.ImportCSV(r.Context(), csvText, cat)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.log.Info("import handled",
		zap.Int("imported", summary.Imported),
		zap.Int("skipped", summary.Skipped))
	s.redirectToAdmin(w, r, cat)
}

// importPayload reads the CSV either from an uploaded file or the paste
// textarea, preferring the file.
func importPayload(r *http.Request) (string, error) {
	if err := r.ParseMultipartForm(4 << 20); err != nil {
		if err := r.ParseForm(); err != nil {
			return "", err
		}
		return r.PostFormValue("csv"), nil
	}
	file, _, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return "", err
		}
		if len(data) > 0 {
			return string(data), nil
		}
	}
	return r.FormValue("csv"), nil
}

func (s *Server) handleRenameCat(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	oldName := r.PostFormValue("old")
	newName := r.PostFormValue("new")
	if oldName == "" || newName == "" {
		http.Error(w, "old and new names required", http.StatusBadRequest)
		return
	}
	if err := s.svc.RenameCat(r.Context(), oldName, newName); err != nil {
		s.internalError(w, r, err)
		return
	}
	s.redirectToAdmin(w, r, newName)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	settings := domain.Settings{
		Title:   r.PostFormValue("title"),
		Favicon: r.PostFormValue("favicon"),
		Cats:    splitLines(r.PostFormValue("cats")),
	}
	if err := s.svc.UpdateSettings(r.Context(), settings); err != nil {
		s.internalError(w, r, err)
		return
	}
	s.redirectToAdmin(w, r, "")
}

func splitLines(v string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(v, "\r\n", "\n"), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Reset(r.Context()); err != nil {
		s.internalError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Snapshot(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	cat := r.URL.Query().Get("cat")
	if cat == "" {
		cat = view.Settings.Cats[0]
	}
	payload := reconcile.ExportCSV(view.Records, cat)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s.csv", url.PathEscape(cat)))
	_, _ = io.WriteString(w, payload)
}

func (s *Server) handleBackupCreate(w http.ResponseWriter, r *http.Request) {
	if s.backups == nil {
		writeError(w, http.StatusServiceUnavailable, "backups not configured")
		return
	}
	job, err := s.backups.Enqueue(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"job": job})
}

func (s *Server) handleBackupStatus(w http.ResponseWriter, r *http.Request) {
	if s.backups == nil {
		writeError(w, http.StatusServiceUnavailable, "backups not configured")
		return
	}
	job, ok := s.backups.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "backup not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"job": job})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) redirectToAdmin(w http.ResponseWriter, r *http.Request, cat string) {
	target := "/add"
	if cat != "" {
		target += "?cat=" + url.QueryEscape(cat)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		s.log.Error("template render failed", zap.String("template", name), zap.Error(err))
	}
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, status int, data loginData) {
	s.render(w, r, status, "login", data)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

package server

import (
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/blueprint/pkg/buildinfo"
	apperrors "github.com/matzehuels/blueprint/pkg/errors"
	"github.com/matzehuels/blueprint/pkg/overlay"
	"github.com/matzehuels/blueprint/pkg/session"
	"github.com/matzehuels/blueprint/pkg/viewer"
)

type healthResponse struct {
	Status   string         `json:"status"`
	Build    buildinfo.Info `json:"build"`
	Sessions int            `json:"sessions"`
}

type drawingSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
	URL   string `json:"url"`
}

type sessionResponse struct {
	ID        string      `json:"id"`
	ExpiresAt time.Time   `json:"expiresAt"`
	View      viewer.View `json:"view"`
}

type calibrateRequest struct {
	Pairs []overlay.PointPair `json:"pairs"`
}

type calibrateResponse struct {
	Solution overlay.Solution `json:"solution"`
	View     viewer.View      `json:"view"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:   s.Status(),
		Build:    buildinfo.Get(),
		Sessions: s.sessions.Len(),
	})
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Metadata())
}

func (s *Server) handleDrawings(w http.ResponseWriter, r *http.Request) {
	sheets := s.Metadata().Sheets()
	out := make([]drawingSummary, 0, len(sheets))
	for _, d := range sheets {
		out = append(out, drawingSummary{
			ID:    d.ID,
			Name:  d.Name,
			Image: d.Image,
			URL:   viewer.AssetURL(s.opts.AssetPrefix, d.Image),
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var u viewer.Update
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &u); err != nil {
			s.writeError(w, err)
			return
		}
	}

	v := s.newViewer(s.Metadata())
	if err := v.Apply(u); err != nil {
		s.writeError(w, err)
		return
	}

	sess := session.New(v, s.opts.SessionTTL)
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Debug("session created", "session", sess.ID)
	s.writeJSON(w, http.StatusCreated, sessionResponse{ID: sess.ID, ExpiresAt: sess.ExpiresAt(), View: sess.View()})
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, sessionResponse{ID: sess.ID, ExpiresAt: sess.ExpiresAt(), View: sess.View()})
}

func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var u viewer.Update
	if err := decodeJSON(r, &u); err != nil {
		s.writeError(w, err)
		return
	}

	view, err := applyUpdate(sess, u)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sessionResponse{ID: sess.ID, ExpiresAt: sess.ExpiresAt(), View: view})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePolygonSVG(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var svg []byte
	_ = sess.Do(func(v *viewer.Viewer) error {
		svg = v.PolygonSVG()
		return nil
	})

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(svg)
}

func (s *Server) handleCalibrate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req calibrateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	var resp calibrateResponse
	err := sess.Do(func(v *viewer.Viewer) error {
		res := v.Resolved()
		sol, err := overlay.SolveCalibration(res.OverlayTransform, res.Image, s.opts.Anchor, req.Pairs)
		if err != nil {
			return err
		}
		if err := v.SetCalibration(sol.Calibration); err != nil {
			return err
		}
		resp = calibrateResponse{Solution: sol, View: v.View()}
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleAsset serves an image from the asset directory. Subfolder names
// arrive either escaped ("sub%2Fx.png") or as literal path segments.
func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(name)
		if err != nil {
			s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidPath, err, "invalid image name"))
			return
		}
		name = unescaped
	}
	if s.opts.Prober == nil {
		s.writeError(w, apperrors.New(apperrors.ErrCodeImageNotFound, "no asset directory configured"))
		return
	}

	path, err := s.opts.Prober.Path(name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	f, err := os.Open(path)
	if err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeImageNotFound, err, "image %q not found", name))
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		s.writeError(w, apperrors.New(apperrors.ErrCodeImageNotFound, "image %q not found", name))
		return
	}
	http.ServeContent(w, r, name, info.ModTime(), f)
}

func applyUpdate(sess *session.Session, u viewer.Update) (viewer.View, error) {
	var view viewer.View
	err := sess.Do(func(v *viewer.Viewer) error {
		if err := v.Apply(u); err != nil {
			return err
		}
		view = v.View()
		return nil
	})
	return view, err
}

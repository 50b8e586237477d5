package api

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/markremodeling/renovation/internal/blob"
	"github.com/markremodeling/renovation/internal/httputil"
	"github.com/markremodeling/renovation/internal/utils"
	"github.com/markremodeling/renovation/pkg/crop"
)

type deleteRequest struct {
	URL string `json:"url"`
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	up, ok := s.readUpload(w, r, "file")
	if !ok {
		return
	}
	folder := r.FormValue("folder")
	if folder == "" {
		folder = utils.DefaultFolder
	}

	item, err := s.blobs.Put(r.Context(), blob.Object{
		Folder:      folder,
		Filename:    up.filename,
		Data:        up.data,
		ContentType: up.info.MIMEType,
		Width:       up.info.Width,
		Height:      up.info.Height,
	})
	if err != nil {
		s.log.Error("upload failed", zap.Error(err))
		httputil.InternalServerError(w, "Upload failed")
		return
	}
	httputil.WriteJSONOK(w, map[string]string{"url": item.URL, "path": item.Pathname})
}

func (s *Server) listImages(w http.ResponseWriter, r *http.Request) {
	items, err := s.blobs.List(r.Context(), r.URL.Query().Get("folder"))
	if err != nil {
		s.log.Error("list images failed", zap.Error(err))
		httputil.InternalServerError(w, "Failed to list images")
		return
	}
	if items == nil {
		items = []blob.Item{}
	}
	httputil.WriteJSONOK(w, map[string]any{"items": items})
}

func (s *Server) deleteImage(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := httputil.DecodeJSON(r, &req); err != nil || req.URL == "" {
		httputil.BadRequest(w, "Missing url")
		return
	}

	if err := s.blobs.Delete(r.Context(), req.URL); err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			httputil.NotFound(w, "Image not found")
			return
		}
		s.log.Error("delete image failed", zap.String("url", req.URL), zap.Error(err))
		httputil.InternalServerError(w, "Failed to delete image")
		return
	}
	httputil.WriteJSONOK(w, map[string]bool{"ok": true})
}

func (s *Server) thumbnail(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		httputil.BadRequest(w, "Missing url")
		return
	}

	size := s.thumbSize
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 16 || n > 1024 {
			httputil.BadRequest(w, "Invalid 'size' parameter")
			return
		}
		size = n
	}

	ratio, ok := crop.ParseRatio(r.URL.Query().Get("ratio"))
	if !ok {
		httputil.BadRequest(w, "Invalid 'ratio' parameter")
		return
	}

	data, err := s.blobs.Read(r.Context(), url)
	if errors.Is(err, blob.ErrNotFound) {
		httputil.NotFound(w, "Image not found")
		return
	}
	if err != nil {
		httputil.InternalServerError(w, "Failed to read image")
		return
	}

	thumb, err := s.processor.Thumbnail(data, size, ratio)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/webp")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(thumb)
}

func (s *Server) listLeads(w http.ResponseWriter, r *http.Request) {
	if s.leads == nil {
		httputil.NotFound(w, "Leads are not stored")
		return
	}

	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			httputil.BadRequest(w, "Invalid 'limit' parameter")
			return
		}
		limit = n
	}

	leads, err := s.leads.ListLeads(r.Context(), limit)
	if err != nil {
		s.log.Error("list leads failed", zap.Error(err))
		httputil.InternalServerError(w, "Failed to list leads")
		return
	}
	httputil.WriteJSONOK(w, map[string]any{"leads": leads})
}

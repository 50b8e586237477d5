package api

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/markremodeling/renovation/internal/httputil"
	"github.com/markremodeling/renovation/pkg/analyzer"
	"github.com/markremodeling/renovation/pkg/assistant"
	"github.com/markremodeling/renovation/pkg/client"
	"github.com/markremodeling/renovation/pkg/processing"
	"github.com/markremodeling/renovation/pkg/types"
)

// multipartMemory is how much of a multipart body is kept in memory
const multipartMemory = 32 << 20

type chatRequest struct {
	Messages []types.Message `json:"messages"`
}

type redesignRequest struct {
	Style       string `json:"style"`
	Description string `json:"description"`
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.BadRequest(w, "Bad JSON")
		return
	}
	if len(req.Messages) == 0 {
		httputil.BadRequest(w, "No messages provided.")
		return
	}

	reply, err := s.assistant.Chat(r.Context(), req.Messages)
	if err != nil {
		s.modelError(w, "chat", err, "Server error: "+err.Error())
		return
	}
	httputil.WriteJSONOK(w, map[string]string{"reply": reply})
}

func (s *Server) photoAnalyze(w http.ResponseWriter, r *http.Request) {
	img, ok := s.readModelImage(w, r, "file")
	if !ok {
		return
	}

	analysis, err := s.assistant.AnalyzePhoto(r.Context(), img)
	if err != nil {
		s.log.Error("photo analysis failed", zap.Error(err))
		httputil.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Processing failed",
			"details": err.Error(),
		})
		return
	}
	httputil.WriteJSONOK(w, map[string]any{"analysis": analysis})
}

func (s *Server) redesign(w http.ResponseWriter, r *http.Request) {
	var req redesignRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.BadRequest(w, "Bad JSON")
		return
	}

	output, err := s.assistant.RedesignText(r.Context(), req.Style, req.Description)
	if err != nil {
		s.modelError(w, "redesign", err, "Failed to generate design plan")
		return
	}
	httputil.WriteJSONOK(w, map[string]string{"output": output})
}

func (s *Server) redesignVision(w http.ResponseWriter, r *http.Request) {
	img, ok := s.readModelImage(w, r, "image")
	if !ok {
		return
	}

	output, err := s.assistant.RedesignVision(r.Context(), img)
	if err != nil {
		s.modelError(w, "redesign-vision", err, "Failed to analyze room")
		return
	}
	httputil.WriteJSONOK(w, map[string]string{"output": output})
}

func (s *Server) redesignImage(w http.ResponseWriter, r *http.Request) {
	img, ok := s.readModelImage(w, r, "image")
	if !ok {
		return
	}
	style := r.FormValue("style")
	if style == "" {
		httputil.BadRequest(w, "No design style provided")
		return
	}

	out, err := s.assistant.RedesignImage(r.Context(), style, &img)
	if err != nil {
		s.modelError(w, "redesign-image", err, "Failed to generate redesign image")
		return
	}
	if len(out.Data) == 0 {
		httputil.InternalServerError(w, "No image returned from AI")
		return
	}
	httputil.WriteJSONOK(w, map[string]string{"imageUrl": processing.DataURL(out.MIMEType, out.Data)})
}

func (s *Server) renovationAssistant(w http.ResponseWriter, r *http.Request) {
	var details types.ProjectDetails
	if err := httputil.DecodeJSON(r, &details); err != nil {
		httputil.BadRequest(w, "Bad JSON")
		return
	}

	advice, err := s.assistant.Advise(r.Context(), details)
	if err != nil {
		s.modelError(w, "renovation-assistant", err, "Failed to generate advice")
		return
	}
	httputil.WriteJSONOK(w, map[string]string{"advice": advice})
}

// readModelImage reads a multipart image field, validates it and shrinks it
// for a vision model. It writes the error response itself.
func (s *Server) readModelImage(w http.ResponseWriter, r *http.Request, field string) (types.Image, bool) {
	up, ok := s.readUpload(w, r, field)
	if !ok {
		return types.Image{}, false
	}

	img, err := s.processor.PrepareForModel(up.data)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return types.Image{}, false
	}
	return img, true
}

type uploadedImage struct {
	data     []byte
	filename string
	info     analyzer.ImageInfo
}

// readUpload reads and validates the image in a multipart field
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, field string) (uploadedImage, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.analyzer.MaxBytes()+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		httputil.BadRequest(w, "Invalid form data")
		return uploadedImage{}, false
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		if field == "image" {
			httputil.BadRequest(w, "No image uploaded")
		} else {
			httputil.BadRequest(w, "No file uploaded")
		}
		return uploadedImage{}, false
	}
	defer file.Close()

	data, err := s.analyzer.ReadUpload(file)
	if err != nil {
		httputil.BadRequest(w, s.uploadMessage(err))
		return uploadedImage{}, false
	}
	info, err := s.analyzer.Inspect(data)
	if err != nil {
		httputil.BadRequest(w, s.uploadMessage(err))
		return uploadedImage{}, false
	}
	return uploadedImage{data: data, filename: header.Filename, info: info}, true
}

func (s *Server) uploadMessage(err error) string {
	switch {
	case errors.Is(err, analyzer.ErrImageTooLarge):
		return fmt.Sprintf("Image too large. Max = %dMB.", s.analyzer.MaxBytes()>>20)
	case errors.Is(err, analyzer.ErrEmptyImage):
		return "No file uploaded"
	default:
		return err.Error()
	}
}

// modelError maps assistant and backend errors onto HTTP statuses
func (s *Server) modelError(w http.ResponseWriter, op string, err error, msg string) {
	switch {
	case errors.Is(err, assistant.ErrNoMessages),
		errors.Is(err, assistant.ErrNoImage),
		errors.Is(err, assistant.ErrNoStyle),
		errors.Is(err, assistant.ErrEmptyDesign):
		httputil.BadRequest(w, err.Error())
	case errors.Is(err, client.ErrUnsupported):
		httputil.WriteJSONError(w, http.StatusNotImplemented, err.Error())
	default:
		s.log.Error("model call failed", zap.String("op", op), zap.Error(err))
		httputil.InternalServerError(w, msg)
	}
}

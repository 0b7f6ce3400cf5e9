package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/wargaair/water-safety-service/internal/domain"
)

const maxBodyBytes = 1 << 20

// verdictResponse is returned by the classify endpoints. Diseases and Report
// are only set when requested with ?diseases=true or ?report=true.
type verdictResponse struct {
	domain.Verdict
	Diseases []string `json:"diseases,omitempty"`
	Report   string   `json:"report,omitempty"`
}

func (s *Server) handleClassifySensory(w http.ResponseWriter, r *http.Request) {
	var in domain.SensoryInput
	if !s.decode(w, r, &in) {
		return
	}
	if missing := in.Missing(); len(missing) > 0 {
		writeError(w, http.StatusBadRequest, "missing required fields: "+strings.Join(missing, ", "))
		return
	}

	resp := verdictResponse{Verdict: s.svc.ClassifySensory(r.Context(), in)}
	if flag(r, "report") {
		resp.Report = s.svc.FormatReport(resp.Verdict)
	}
	sharedobs.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClassifyLab(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeLab(w, r)
	if !ok {
		return
	}

	v, err := s.svc.ClassifyLab(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	resp := verdictResponse{Verdict: v}
	if flag(r, "diseases") {
		resp.Diseases = s.svc.PredictDiseases(r.Context(), in)
	}
	if flag(r, "report") {
		resp.Report = s.svc.FormatReport(v)
	}
	sharedobs.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePredictDiseases(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeLab(w, r)
	if !ok {
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, map[string][]string{
		"diseases": s.svc.PredictDiseases(r.Context(), in),
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var v domain.Verdict
	if !s.decode(w, r, &v) {
		return
	}
	level, err := domain.ParseSafetyLevel(string(v.SafetyLevel))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	v.SafetyLevel = level

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, s.svc.FormatReport(v)) //nolint:errcheck // client may have gone away
}

func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	reading, err := domain.DecodeReading(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if reading.Source == "" {
		reading.Source = "http"
	}

	a, err := s.svc.Assess(r.Context(), reading)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, a)
}

func (s *Server) handleStandards(w http.ResponseWriter, r *http.Request) {
	standards, err := s.svc.ParameterStandards(r.Context())
	if err != nil {
		s.writeServiceError(w, &domain.ConfigurationError{Reason: "load parameter standards", Err: err})
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{"standards": standards})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body, ok := readBody(w, r)
	if !ok {
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return false
	}
	return true
}

// decodeLab keeps numbers as json.Number so the lab classifier does the coercion.
func (s *Server) decodeLab(w http.ResponseWriter, r *http.Request) (domain.LabInput, bool) {
	body, ok := readBody(w, r)
	if !ok {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var in domain.LabInput
	if err := dec.Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return nil, false
	}
	if len(in) == 0 {
		writeError(w, http.StatusBadRequest, "no lab measurements")
		return nil, false
	}
	return in, true
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "could not read request body")
		return nil, false
	}
	return body, true
}

// writeServiceError maps configuration problems to 503 and everything else
// the service rejects to 422.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	if domain.IsConfigurationError(err) {
		s.logger.Error("reference data unavailable", "error", err)
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeError(w, http.StatusUnprocessableEntity, err.Error())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}

func flag(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}

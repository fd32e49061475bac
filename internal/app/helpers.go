package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/klabast/wb-services/holiday-planner/internal/planner"
)

// writeJSON writes v with the given status. Non-ASCII and HTML characters
// are left unescaped, matching the data file.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		s.log.Error("encoding response", zap.Error(err))
	}
}

// writeResult maps err to a Result body and status code
func (s *Server) writeResult(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		s.writeJSON(w, http.StatusOK, Result{Success: true})
		return
	}
	status := statusFor(err)
	res := Result{Success: false, Error: err.Error()}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		res.Error = ErrFailedToSave
	}
	s.writeJSON(w, status, res)
}

// statusFor returns the HTTP status for a store error. A stale index is an
// expected outcome and is reported in the body, not the status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, planner.ErrIndexOutOfRange):
		return http.StatusOK
	case errors.Is(err, planner.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeAndValidate reads a JSON body into req and runs struct validation.
// On failure it writes a 400 response and returns false.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, Result{Error: ErrInvalidBody})
		return false
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, Result{Error: validationMessage(err)})
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, strings.ToLower(fe.Field())+": failed "+fe.Tag())
	}
	return strings.Join(msgs, "; ")
}

// pathDate returns the {date} path value if it is a valid YYYY-MM-DD date
func (s *Server) pathDate(w http.ResponseWriter, r *http.Request) (string, bool) {
	date := r.PathValue("date")
	if _, err := planner.ParseDate(date); err != nil {
		s.writeJSON(w, http.StatusBadRequest, Result{Error: ErrInvalidDateFormat})
		return "", false
	}
	return date, true
}

// pathIndex returns the {index} path value as an int
func (s *Server) pathIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	idx, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, Result{Error: ErrInvalidIndex})
		return 0, false
	}
	return idx, true
}

package votes

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"votes-api/internal/domain/agecheck"
	"votes-api/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/votes", func(vr chi.Router) {
		vr.Post("/", castVoteHandler(svc))
		vr.Get("/{voteID}", getVoteHandler(svc))
		vr.Put("/{voteID}", updateVoteHandler(svc))
	})

	r.Get("/me/votes", listMyVotesHandler(svc))
}

type castVoteRequest struct {
	PollID string `json:"pollId"`
	Choice string `json:"choice"`
}

type updateVoteRequest struct {
	Choice string `json:"choice"`
}

type voteResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	PollID         string    `json:"pollId"`
	Choice         string    `json:"choice"`
	PreviousChoice string    `json:"previousChoice,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

type voteEnvelope struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// errorResponse es el contrato que consume la UI para remediar (pedir birthdate, etc).
type errorResponse struct {
	Message     string `json:"message"`
	Code        string `json:"code,omitempty"`
	RequiredAge *int   `json:"requiredAge,omitempty"`
	CurrentAge  *int   `json:"currentAge,omitempty"`
}

// @Summary Emitir voto
// @Description Registra un voto del usuario autenticado. Requiere fecha de nacimiento informada y edad mínima según la política del poll (18 por defecto).
// @Tags votes
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body castVoteRequest true "Poll y elección"
// @Success 201 {object} voteEnvelope{data=voteResponse}
// @Failure 400 {object} errorResponse "invalid json / validación"
// @Failure 401 {object} errorResponse "Authentication required"
// @Failure 403 {object} errorResponse "BIRTHDATE_REQUIRED / AGE_RESTRICTED"
// @Failure 503 {object} errorResponse "service unavailable"
// @Router /votes [post]
func castVoteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, ErrUnauthenticated)
			return
		}

		var req castVoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid json"})
			return
		}

		ev, err := svc.CastVote(r.Context(), claims.UserID, CastInput{PollID: req.PollID, Choice: req.Choice})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, voteEnvelope{
			Message: "Vote cast successfully",
			Data: voteResponse{
				ID:        ev.VoteID,
				UserID:    ev.UserID,
				PollID:    ev.PollID,
				Choice:    ev.Choice,
				Timestamp: ev.Timestamp,
			},
		})
	}
}

// @Summary Cambiar voto
// @Description Cambia la elección de un voto propio. Mismo gate de edad que al votar.
// @Tags votes
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param voteID path string true "ID del voto"
// @Param payload body updateVoteRequest true "Nueva elección"
// @Success 200 {object} voteEnvelope{data=voteResponse}
// @Failure 400 {object} errorResponse "invalid json / validación"
// @Failure 401 {object} errorResponse "Authentication required"
// @Failure 403 {object} errorResponse "forbidden / BIRTHDATE_REQUIRED / AGE_RESTRICTED"
// @Failure 404 {object} errorResponse "vote not found"
// @Failure 503 {object} errorResponse "service unavailable"
// @Router /votes/{voteID} [put]
func updateVoteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, ErrUnauthenticated)
			return
		}

		var req updateVoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid json"})
			return
		}

		ev, err := svc.UpdateVote(r.Context(), claims.UserID, chi.URLParam(r, "voteID"), req.Choice)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, voteEnvelope{
			Message: "Vote updated successfully",
			Data: voteResponse{
				ID:             ev.VoteID,
				UserID:         ev.UserID,
				PollID:         ev.PollID,
				Choice:         ev.NewChoice,
				PreviousChoice: ev.PreviousChoice,
				Timestamp:      ev.Timestamp,
			},
		})
	}
}

// @Summary Ver voto
// @Tags votes
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param voteID path string true "ID del voto"
// @Success 200 {object} voteEnvelope{data=voteResponse}
// @Failure 401 {object} errorResponse "Authentication required"
// @Failure 403 {object} errorResponse "forbidden"
// @Failure 404 {object} errorResponse "vote not found"
// @Router /votes/{voteID} [get]
func getVoteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, ErrUnauthenticated)
			return
		}

		v, err := svc.GetVote(r.Context(), claims.UserID, chi.URLParam(r, "voteID"))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, voteEnvelope{Message: "ok", Data: toVoteResponse(v)})
	}
}

// @Summary Mis votos
// @Tags votes
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} voteEnvelope{data=[]voteResponse}
// @Failure 401 {object} errorResponse "Authentication required"
// @Router /me/votes [get]
func listMyVotesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, ErrUnauthenticated)
			return
		}

		items, err := svc.ListMine(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]voteResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toVoteResponse(v))
		}
		writeJSON(w, http.StatusOK, voteEnvelope{Message: "ok", Data: out})
	}
}

func writeError(w http.ResponseWriter, err error) {
	var denied *AgeRestrictedError
	switch {
	case errors.As(err, &denied):
		writeJSON(w, http.StatusForbidden, denialResponse(denied.Denial))
	case errors.Is(err, ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Authentication required"})
	case errors.Is(err, ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "vote not found"})
	case errors.Is(err, ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Message: "forbidden"})
	case errors.Is(err, ErrPersistenceUnavailable):
		// el detalle ya quedó logueado en el service
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Message: "service unavailable"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal error"})
	}
}

func denialResponse(d agecheck.Denial) errorResponse {
	if d.Reason == agecheck.ReasonBirthdateMissing {
		return errorResponse{
			Message: "Birthdate is required for age verification",
			Code:    string(d.Reason),
		}
	}
	required, current := d.RequiredAge, d.ActualAge
	return errorResponse{
		Message:     fmt.Sprintf("You must be at least %d years old to access this resource", required),
		Code:        string(d.Reason),
		RequiredAge: &required,
		CurrentAge:  &current,
	}
}

func toVoteResponse(v Vote) voteResponse {
	return voteResponse{
		ID:        v.ID,
		UserID:    v.UserID,
		PollID:    v.PollID,
		Choice:    v.Choice,
		Timestamp: v.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

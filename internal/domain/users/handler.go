package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"votes-api/internal/domain/agecheck"
	"votes-api/internal/middleware"
	"votes-api/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /auth/*. issuer puede ser nil (modo dev, sin tokens).
func RegisterRoutes(r chi.Router, svc *Service, issuer auth.TokenIssuer) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/register", registerHandler(svc, issuer))
		ar.Post("/login", loginHandler(svc, issuer))

		ar.Get("/me", meHandler(svc))
		ar.Put("/me", updateMeHandler(svc))
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateMeRequest struct {
	Birthdate string `json:"birthdate"` // YYYY-MM-DD
}

type userResponse struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	Name      string         `json:"name"`
	Role      Role           `json:"role"`
	Birthdate *agecheck.Date `json:"birthdate" swaggertype:"string" example:"2008-03-15"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type authData struct {
	User      userResponse `json:"user"`
	Token     string       `json:"token,omitempty"`
	ExpiresAt *time.Time   `json:"expiresAt,omitempty"`
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// @Summary Registrar usuario
// @Description Crea una cuenta local. name 2-100 caracteres, email válido, password 8-32 caracteres. Si hay emisor de tokens configurado, devuelve también un Bearer token.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body registerRequest true "Datos de registro"
// @Success 201 {object} envelope{data=authData}
// @Failure 400 {object} envelope "invalid json / validación"
// @Failure 409 {object} envelope "email already registered"
// @Router /auth/register [post]
func registerHandler(svc *Service, issuer auth.TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, envelope{Message: "invalid json"})
			return
		}

		u, err := svc.Register(r.Context(), RegisterInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		data, err := issueFor(issuer, u)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, envelope{Message: "internal error"})
			return
		}

		writeJSON(w, http.StatusCreated, envelope{
			Success: true,
			Message: "User registered successfully",
			Data:    data,
		})
	}
}

// @Summary Login
// @Description Verifica credenciales locales y devuelve un Bearer token.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciales"
// @Success 200 {object} envelope{data=authData}
// @Failure 400 {object} envelope "invalid json"
// @Failure 401 {object} envelope "invalid credentials"
// @Router /auth/login [post]
func loginHandler(svc *Service, issuer auth.TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, envelope{Message: "invalid json"})
			return
		}

		u, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}

		data, err := issueFor(issuer, u)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, envelope{Message: "internal error"})
			return
		}

		writeJSON(w, http.StatusOK, envelope{
			Success: true,
			Message: "Login successful",
			Data:    data,
		})
	}
}

// @Summary Perfil del usuario autenticado
// @Tags auth
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} envelope{data=userResponse}
// @Failure 401 {object} envelope "unauthorized"
// @Router /auth/me [get]
func meHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeJSON(w, http.StatusUnauthorized, envelope{Message: "unauthorized"})
			return
		}

		u, err := svc.GetByID(r.Context(), claims.UserID)
		if err != nil {
			// token válido pero el usuario ya no existe
			if errors.Is(err, ErrNotFound) {
				writeJSON(w, http.StatusUnauthorized, envelope{Message: "unauthorized"})
				return
			}
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, envelope{Success: true, Message: "ok", Data: toUserResponse(u)})
	}
}

// @Summary Informar fecha de nacimiento
// @Description Guarda la fecha de nacimiento del usuario autenticado (YYYY-MM-DD). No verifica edad mínima: eso ocurre al votar.
// @Tags auth
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body updateMeRequest true "Fecha de nacimiento"
// @Success 200 {object} envelope{data=userResponse}
// @Failure 400 {object} envelope "invalid json / birthdate inválida"
// @Failure 401 {object} envelope "unauthorized"
// @Router /auth/me [put]
func updateMeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeJSON(w, http.StatusUnauthorized, envelope{Message: "unauthorized"})
			return
		}

		var req updateMeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, envelope{Message: "invalid json"})
			return
		}

		bd, err := agecheck.ParseDate(req.Birthdate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, envelope{Message: "birthdate must be YYYY-MM-DD"})
			return
		}

		u, err := svc.SetBirthdate(r.Context(), claims.UserID, bd)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeJSON(w, http.StatusUnauthorized, envelope{Message: "unauthorized"})
				return
			}
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, envelope{
			Success: true,
			Message: "Profile updated successfully",
			Data:    toUserResponse(u),
		})
	}
}

func issueFor(issuer auth.TokenIssuer, u User) (authData, error) {
	out := authData{User: toUserResponse(u)}
	if issuer == nil {
		return out, nil
	}
	token, exp, err := issuer.Issue(auth.Claims{UserID: u.ID, Email: u.Email, Role: string(u.Role)})
	if err != nil {
		return authData{}, err
	}
	out.Token = token
	out.ExpiresAt = &exp
	return out, nil
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, agecheck.ErrInvalidDate):
		writeJSON(w, http.StatusBadRequest, envelope{Message: err.Error()})
	case errors.Is(err, ErrEmailTaken):
		writeJSON(w, http.StatusConflict, envelope{Message: err.Error()})
	case errors.Is(err, ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, envelope{Message: err.Error()})
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, envelope{Message: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, envelope{Message: "internal error"})
	}
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Birthdate: u.Birthdate,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

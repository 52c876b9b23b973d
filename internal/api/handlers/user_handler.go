package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/user-crud-be/internal/models"
	"github.com/isdelr/user-crud-be/internal/services"
	"github.com/rs/zerolog/log"
)

// MaxBodyBytes caps the size of JSON request bodies.
const MaxBodyBytes = 2 << 20

const greeting = "Jai Mata Di"

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// UserPayload is the request body for add and update. Both fields must be present.
type UserPayload struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

// Greet answers the root route with a fixed greeting.
func (h *UserHandler) Greet(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, greeting)
}

// Add handles creating a user unless the email is already taken.
func (h *UserHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, ok := decodeUser(w, r)
	if !ok {
		return
	}

	_, err := h.service.CreateUser(r.Context(), user)
	switch {
	case errors.Is(err, services.ErrUserAlreadyExists):
		writeText(w, http.StatusOK, "User already available")
	case err != nil:
		log.Error().Err(err).Str("email", user.Email).Msg("Error inserting user")
		writeText(w, http.StatusInternalServerError, "Error: "+err.Error())
	default:
		writeText(w, http.StatusOK, "User added successfully")
	}
}

// Get handles retrieving a user by email, case-insensitively.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	email := emailParam(r)
	user, err := h.service.GetUserByEmail(r.Context(), email)
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		writeText(w, http.StatusNotFound, "User not found")
	case err != nil:
		log.Error().Err(err).Str("email", email).Msg("Error finding user")
		w.WriteHeader(http.StatusInternalServerError)
	default:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(user)
	}
}

// Update handles replacing the user stored under the exact path email.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	email := emailParam(r)
	user, ok := decodeUser(w, r)
	if !ok {
		return
	}

	_, err := h.service.ReplaceUser(r.Context(), email, user)
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		writeText(w, http.StatusNotFound, "User not found in the database")
	case err != nil:
		log.Error().Err(err).Str("email", email).Msg("Error updating user")
		writeText(w, http.StatusInternalServerError, "Error: "+err.Error())
	default:
		writeText(w, http.StatusOK, "User updated successfully")
	}
}

// Delete handles removing the user stored under the exact path email.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	email := emailParam(r)
	err := h.service.DeleteUser(r.Context(), email)
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		writeText(w, http.StatusNotFound, "User not found in the database")
	case err != nil:
		log.Error().Err(err).Str("email", email).Msg("Error deleting user")
		writeText(w, http.StatusInternalServerError, "Error: "+err.Error())
	default:
		writeText(w, http.StatusOK, "User deleted successfully")
	}
}

// emailParam returns the decoded {email} path segment.
func emailParam(r *http.Request) string {
	email := chi.URLParam(r, "email")
	// chi matches against RawPath when the client escaped the path.
	if r.URL.RawPath != "" {
		if decoded, err := url.PathUnescape(email); err == nil {
			return decoded
		}
	}
	return email
}

// decodeUser reads a UserPayload and writes the client error itself on failure.
func decodeUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	var payload UserPayload
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	err := dec.Decode(&payload)
	if err == nil {
		// Only whitespace may follow the object.
		if extra := dec.Decode(&struct{}{}); !errors.Is(extra, io.EOF) {
			err = errors.New("trailing characters after JSON value")
			if extra != nil {
				err = extra
			}
		}
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeText(w, http.StatusRequestEntityTooLarge, "Request body too large")
		case errors.Is(err, io.EOF):
			writeText(w, http.StatusBadRequest, "Invalid request body: empty body")
		default:
			writeText(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		}
		return models.User{}, false
	}

	var missing string
	switch {
	case payload.Username == nil:
		missing = "username"
	case payload.Email == nil:
		missing = "email"
	}
	if missing != "" {
		writeText(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: missing field `%s`", missing))
		return models.User{}, false
	}

	return models.User{Username: *payload.Username, Email: *payload.Email}, true
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

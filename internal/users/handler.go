package users

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/arrorpranav/user-registry/internal/auth"
	"github.com/arrorpranav/user-registry/internal/models"
	"github.com/arrorpranav/user-registry/internal/store"
	"github.com/arrorpranav/user-registry/internal/upload"
)

// maxFormBytes bounds the whole multipart signup body: nine text fields
// plus one image capped at upload.MaxImageBytes.
const maxFormBytes = upload.MaxImageBytes + 64*1024

// UserStore defines the interface for user persistence.
type UserStore interface {
	Insert(ctx context.Context, u *models.User) error
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Search(ctx context.Context, keyword string) ([]models.User, error)
}

// SessionCreator issues a session for an authenticated username.
type SessionCreator interface {
	Create(ctx context.Context, username string) (string, error)
}

// Handler holds the registration, login, and search HTTP handlers.
type Handler struct {
	users    UserStore
	sessions SessionCreator
}

func NewHandler(users UserStore, sessions SessionCreator) *Handler {
	return &Handler{users: users, sessions: sessions}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// Signup registers a new user from a multipart form with an optional
// profile image.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseMultipartForm(maxFormBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	form := map[string]string{}
	for _, field := range []string{
		"firstname", "lastname", "username", "password", "dob",
		"email", "phone", "gender", "qualifications",
	} {
		v := r.FormValue(field)
		if v == "" {
			writeError(w, http.StatusBadRequest, "All fields required")
			return
		}
		form[field] = v
	}

	dob, err := parseDOB(form["dob"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid dob")
		return
	}

	var image []byte
	var imageType string
	if files := r.MultipartForm.File["image"]; len(files) > 0 {
		image, imageType, err = upload.Accept(files[0])
		if err != nil {
			switch {
			case errors.Is(err, upload.ErrUnsupportedMediaType):
				writeError(w, http.StatusBadRequest, "Only JPEG/PNG allowed")
			case errors.Is(err, upload.ErrPayloadTooLarge):
				writeError(w, http.StatusBadRequest, "Image size exceeds 2MB")
			default:
				log.Printf("signup image: %v", err)
				writeError(w, http.StatusInternalServerError, "Server error")
			}
			return
		}
	}

	// Advisory pre-check. The unique indexes are the real guard against
	// a concurrent registration slipping through between this lookup and
	// the insert.
	existing, err := h.users.FindByUsernameOrEmail(r.Context(), form["username"], form["email"])
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Printf("signup lookup: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if existing != nil {
		writeError(w, http.StatusBadRequest, "Username or email already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(form["password"]), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	user := &models.User{
		Firstname:      form["firstname"],
		Lastname:       form["lastname"],
		Username:       form["username"],
		Password:       string(hashed),
		Image:          image,
		ImageType:      imageType,
		DOB:            dob,
		Email:          form["email"],
		Phone:          form["phone"],
		Gender:         form["gender"],
		Qualifications: form["qualifications"],
	}

	if err := h.users.Insert(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "Username or email already exists")
			return
		}
		log.Printf("signup insert: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Registration successful"})
}

// Signin authenticates a user, issues a session cookie, and returns the
// public projection. Unknown usernames and wrong passwords are
// indistinguishable to the caller.
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	var req models.SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.FindByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "Invalid credentials")
			return
		}
		log.Printf("signin lookup: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	sid, err := h.sessions.Create(r.Context(), user.Username)
	if err != nil {
		log.Printf("signin session: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(auth.SessionTTL / time.Second),
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user":    user.Project(),
	})
}

// Search returns projections of every user whose username or email
// contains the keyword as a case-insensitive substring. An empty keyword
// matches the whole directory.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")

	users, err := h.users.Search(r.Context(), keyword)
	if err != nil {
		log.Printf("search: %v", err)
		writeError(w, http.StatusInternalServerError, "Error in search")
		return
	}

	results := make([]models.Projection, 0, len(users))
	for i := range users {
		results = append(results, users[i].Project())
	}
	writeJSON(w, http.StatusOK, results)
}

// parseDOB accepts the plain calendar form the signup page sends, with
// RFC 3339 as a fallback for API clients.
func parseDOB(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

package http

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"centavo/internal/domain/user"
	"centavo/internal/shared/auth"
)

// AuthHandler owns registration, login, and the Google OAuth flow
type AuthHandler struct {
	users       user.Repository
	oauth       auth.OAuthProvider
	jwt         *auth.JWT
	frontendURL string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users user.Repository, oauth auth.OAuthProvider, jwt *auth.JWT, frontendURL string) *AuthHandler {
	return &AuthHandler{
		users:       users,
		oauth:       oauth,
		jwt:         jwt,
		frontendURL: frontendURL,
	}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

type AuthURLResponse struct {
	URL string `json:"url"`
}

// HandleRegister creates a new user with password authentication
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error hashing password during registration: %v", err)
		http.Error(w, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	userModel, err := h.users.Create(r.Context(), user.CreateUserParams{
		Username:     req.Username,
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: &passwordHash,
	})
	if err != nil {
		if errors.Is(err, user.ErrDuplicateUsername) {
			http.Error(w, "Username is already taken", http.StatusConflict)
			return
		}
		log.Printf("Error creating user %q: %v", req.Username, err)
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	h.respondWithToken(w, r, userModel)
}

// HandleLogin authenticates a user with username and password
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	userModel, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		http.Error(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	if userModel.PasswordHash == nil {
		http.Error(w, "This account uses Google sign-in", http.StatusBadRequest)
		return
	}

	if err := auth.VerifyPassword(*userModel.PasswordHash, req.Password); err != nil {
		http.Error(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	h.respondWithToken(w, r, userModel)
}

// HandleLogout clears the auth cookie
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	secure := r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	w.WriteHeader(http.StatusNoContent)
}

// HandleOAuthURL generates the Google OAuth authorization URL
func (h *AuthHandler) HandleOAuthURL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	state, err := generateState()
	if err != nil {
		log.Printf("Error generating OAuth state: %v", err)
		http.Error(w, "Failed to generate state", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AuthURLResponse{URL: h.oauth.GetAuthURL(state)})
}

// HandleOAuthCallback processes the Google redirect: exchanges the code,
// finds or creates the user by their Google ID, sets the cookie, and
// sends them back to the app.
func (h *AuthHandler) HandleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if oauthError := r.URL.Query().Get("error"); oauthError != "" {
		http.Error(w, fmt.Sprintf("OAuth error: %s", oauthError), http.StatusBadRequest)
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Code is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	token, err := h.oauth.ExchangeCode(ctx, code)
	if err != nil {
		log.Printf("OAuth: failed to exchange code: %v", err)
		http.Error(w, "Failed to exchange code", http.StatusBadRequest)
		return
	}

	info, err := h.oauth.GetUserInfo(ctx, token.AccessToken)
	if err != nil {
		log.Printf("OAuth: failed to get user info: %v", err)
		http.Error(w, "Failed to get user info", http.StatusBadRequest)
		return
	}

	userModel, err := h.users.GetByGoogleID(ctx, info.ID)
	if err != nil {
		params := user.CreateUserParams{
			Username:  oauthUsername(info),
			Email:     info.Email,
			Name:      info.Name,
			GoogleID:  &info.ID,
			AvatarURL: &info.AvatarURL,
		}
		userModel, err = h.users.Create(ctx, params)
		if errors.Is(err, user.ErrDuplicateUsername) {
			// Someone already owns the email handle; the Google subject is unique
			params.Username = "google_" + info.ID
			userModel, err = h.users.Create(ctx, params)
		}
		if err != nil {
			log.Printf("OAuth: failed to create user for google id %s: %v", info.ID, err)
			http.Error(w, "Failed to create user", http.StatusInternalServerError)
			return
		}
	}

	jwtToken, err := h.jwt.Generate(userModel.ID, userModel.Username)
	if err != nil {
		log.Printf("OAuth: error generating JWT for user %d: %v", userModel.ID, err)
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	setAuthCookie(w, r, jwtToken)
	http.Redirect(w, r, h.frontendURL+"/oauth-callback", http.StatusFound)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, userModel *user.User) {
	token, err := h.jwt.Generate(userModel.ID, userModel.Username)
	if err != nil {
		log.Printf("Error generating JWT for user %d: %v", userModel.ID, err)
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	setAuthCookie(w, r, token)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AuthResponse{Token: token, User: userModel})
}

// oauthUsername derives a username for first-time Google sign-ins. The
// email local part is the natural handle; the Google subject is unique
// when the email is missing.
func oauthUsername(info *auth.OAuthUserInfo) string {
	if at := strings.Index(info.Email, "@"); at > 0 {
		return strings.ToLower(info.Email[:at])
	}
	return "google_" + info.ID
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// setAuthCookie sets the JWT as an HttpOnly cookie
func setAuthCookie(w http.ResponseWriter, r *http.Request, token string) {
	secure := r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(auth.TokenTTL.Seconds()),
	})
}

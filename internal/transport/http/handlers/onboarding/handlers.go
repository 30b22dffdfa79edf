package onboardinghandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"hrportal/internal/platform/sessionstore"
	"hrportal/internal/platform/upstream"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/views"
)

type Handler struct {
	Upstream *upstream.Client
	validate *validator.Validate
}

func NewHandler(client *upstream.Client) *Handler {
	return &Handler{Upstream: client, validate: validator.New()}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/onboarding", func(r chi.Router) {
		r.With(middleware.GuardOnboardingStep(middleware.StepPhoneAuth)).Get("/phone-auth", h.handlePhoneAuthPage)
		r.With(middleware.GuardOnboardingStep(middleware.StepPhoneAuth)).Post("/phone-auth", h.handlePhoneAuth)
		r.With(middleware.GuardOnboardingStep(middleware.StepAccountSetup)).Get("/account-setup", h.handleAccountSetupPage)
		r.With(middleware.GuardOnboardingStep(middleware.StepAccountSetup)).Post("/account-setup", h.handleAccountSetup)
		r.With(middleware.GuardOnboardingStep(middleware.StepPasswordSetup)).Get("/password-setup", h.handlePasswordSetupPage)
		r.With(middleware.GuardOnboardingStep(middleware.StepPasswordSetup)).Post("/password-setup", h.handlePasswordSetup)
		r.With(middleware.GuardOnboardingStep(middleware.StepComplete)).Get("/complete", h.handleCompletePage)
	})
}

type phoneAuthForm struct {
	Phone string `validate:"required,e164"`
	Code  string `validate:"required,len=6,numeric"`
}

type accountSetupForm struct {
	Username string `validate:"required,alphanum,min=3,max=32"`
}

type passwordSetupForm struct {
	Password string `validate:"required,min=10"`
	Confirm  string `validate:"required,eqfield=Password"`
}

func (h *Handler) handlePhoneAuthPage(w http.ResponseWriter, r *http.Request) {
	h.renderStep(w, http.StatusOK, "Verify Your Phone", "/onboarding/phone-auth", "", []views.FormField{
		{Label: "Phone number", Name: "phone", Type: "tel"},
		{Label: "Verification code", Name: "code", Type: "text"},
	})
}

func (h *Handler) handlePhoneAuth(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderPhoneAuthError(w, "invalid form submission")
		return
	}
	form := phoneAuthForm{Phone: r.PostFormValue("phone"), Code: r.PostFormValue("code")}
	if err := h.validate.Struct(form); err != nil {
		h.renderPhoneAuthError(w, "enter a valid phone number and 6-digit code")
		return
	}

	var resp struct {
		SetupToken string          `json:"setupToken"`
		Employee   json.RawMessage `json:"employee"`
	}
	err := h.Upstream.PostJSON(r.Context(), "", "/api/v1/onboarding/verify-phone", map[string]string{
		"phone": form.Phone,
		"code":  form.Code,
	}, &resp)
	if err != nil {
		h.renderPhoneAuthError(w, "verification failed, check the code and try again")
		return
	}

	session, ok := middleware.GetSession(r.Context())
	if !ok {
		h.renderPhoneAuthError(w, "could not start onboarding, try again")
		return
	}
	ctx := r.Context()
	if err := session.Set(ctx, sessionstore.KeySetupAuthToken, resp.SetupToken); err != nil {
		h.renderPhoneAuthError(w, "could not save progress, try again")
		return
	}
	if err := session.Set(ctx, sessionstore.KeySetupEmployeeData, string(resp.Employee)); err != nil {
		h.renderPhoneAuthError(w, "could not save progress, try again")
		return
	}

	http.Redirect(w, r, "/onboarding/account-setup", http.StatusSeeOther)
}

func (h *Handler) handleAccountSetupPage(w http.ResponseWriter, r *http.Request) {
	h.renderStep(w, http.StatusOK, "Choose a Username", "/onboarding/account-setup", "", []views.FormField{
		{Label: "Username", Name: "username", Type: "text"},
	})
}

func (h *Handler) handleAccountSetup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderAccountSetupError(w, "invalid form submission")
		return
	}
	form := accountSetupForm{Username: r.PostFormValue("username")}
	if err := h.validate.Struct(form); err != nil {
		h.renderAccountSetupError(w, "usernames are 3-32 letters and digits")
		return
	}

	session, _ := middleware.GetSession(r.Context())
	setupToken, _ := session.Get(r.Context(), sessionstore.KeySetupAuthToken)

	var resp struct {
		Username string `json:"username"`
	}
	err := h.Upstream.PostJSON(r.Context(), setupToken, "/api/v1/onboarding/username", map[string]string{
		"username": form.Username,
	}, &resp)
	if err != nil {
		h.renderAccountSetupError(w, "that username is not available")
		return
	}
	if resp.Username == "" {
		resp.Username = form.Username
	}

	if err := session.Set(r.Context(), sessionstore.KeySetupUsername, resp.Username); err != nil {
		h.renderAccountSetupError(w, "could not save progress, try again")
		return
	}

	http.Redirect(w, r, "/onboarding/password-setup", http.StatusSeeOther)
}

func (h *Handler) handlePasswordSetupPage(w http.ResponseWriter, r *http.Request) {
	h.renderStep(w, http.StatusOK, "Set Your Password", "/onboarding/password-setup", "", []views.FormField{
		{Label: "Password", Name: "password", Type: "password"},
		{Label: "Confirm password", Name: "confirm", Type: "password"},
	})
}

func (h *Handler) handlePasswordSetup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderPasswordSetupError(w, "invalid form submission")
		return
	}
	form := passwordSetupForm{
		Password: r.PostFormValue("password"),
		Confirm:  r.PostFormValue("confirm"),
	}
	if err := h.validate.Struct(form); err != nil {
		h.renderPasswordSetupError(w, "passwords must match and be at least 10 characters")
		return
	}

	// The plaintext never leaves this handler; the backend receives
	// and stores the bcrypt hash.
	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		h.renderPasswordSetupError(w, "could not secure your password, try again")
		return
	}

	session, _ := middleware.GetSession(r.Context())
	ctx := r.Context()
	setupToken, _ := session.Get(ctx, sessionstore.KeySetupAuthToken)
	username, _ := session.Get(ctx, sessionstore.KeySetupUsername)

	var resp struct {
		Token       string          `json:"token"`
		Roles       []string        `json:"roles"`
		Permissions []string        `json:"permissions"`
		User        json.RawMessage `json:"user"`
	}
	err = h.Upstream.PostJSON(ctx, setupToken, "/api/v1/onboarding/complete", map[string]string{
		"username":     username,
		"passwordHash": string(hash),
	}, &resp)
	if err != nil {
		h.renderPasswordSetupError(w, "could not complete onboarding, try again")
		return
	}

	roles, err := json.Marshal(resp.Roles)
	if err != nil {
		h.renderPasswordSetupError(w, "could not complete onboarding, try again")
		return
	}
	perms, err := json.Marshal(resp.Permissions)
	if err != nil {
		h.renderPasswordSetupError(w, "could not complete onboarding, try again")
		return
	}

	writes := map[string]string{
		sessionstore.KeyAuthToken:       resp.Token,
		sessionstore.KeyUserRoles:       string(roles),
		sessionstore.KeyUserPermissions: string(perms),
		sessionstore.KeyUser:            string(resp.User),
	}
	for key, value := range writes {
		if err := session.Set(ctx, key, value); err != nil {
			h.renderPasswordSetupError(w, "could not complete onboarding, try again")
			return
		}
	}
	if err := session.Delete(ctx, sessionstore.KeySetupAuthToken, sessionstore.KeySetupEmployeeData, sessionstore.KeySetupUsername); err != nil {
		slog.Warn("cleanup setup keys failed", "err", err)
	}

	if provider, ok := middleware.GetAuthz(r.Context()); ok {
		if err := provider.Reload(ctx); err != nil {
			slog.Warn("provider reload failed", "err", err)
		}
	}

	http.Redirect(w, r, "/onboarding/complete", http.StatusSeeOther)
}

func (h *Handler) handleCompletePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.RenderPage(w, "onboarding_complete", views.PageData{Title: "Welcome"}); err != nil {
		slog.Warn("render onboarding complete failed", "err", err)
	}
}

func (h *Handler) renderPhoneAuthError(w http.ResponseWriter, errText string) {
	h.renderStep(w, http.StatusBadRequest, "Verify Your Phone", "/onboarding/phone-auth", errText, []views.FormField{
		{Label: "Phone number", Name: "phone", Type: "tel"},
		{Label: "Verification code", Name: "code", Type: "text"},
	})
}

func (h *Handler) renderAccountSetupError(w http.ResponseWriter, errText string) {
	h.renderStep(w, http.StatusBadRequest, "Choose a Username", "/onboarding/account-setup", errText, []views.FormField{
		{Label: "Username", Name: "username", Type: "text"},
	})
}

func (h *Handler) renderPasswordSetupError(w http.ResponseWriter, errText string) {
	h.renderStep(w, http.StatusBadRequest, "Set Your Password", "/onboarding/password-setup", errText, []views.FormField{
		{Label: "Password", Name: "password", Type: "password"},
		{Label: "Confirm password", Name: "confirm", Type: "password"},
	})
}

func (h *Handler) renderStep(w http.ResponseWriter, status int, title, action, errText string, fields []views.FormField) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	err := views.RenderPage(w, "onboarding_step", views.PageData{
		Title:  title,
		Action: action,
		Error:  errText,
		Fields: fields,
	})
	if err != nil {
		slog.Warn("render onboarding step failed", "err", err)
	}
}

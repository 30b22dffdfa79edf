package middleware

import (
	"net/http"

	"hrportal/internal/platform/sessionstore"
)

type OnboardingStep string

const (
	StepPhoneAuth     OnboardingStep = "phone-auth"
	StepAccountSetup  OnboardingStep = "account-setup"
	StepPasswordSetup OnboardingStep = "password-setup"
	StepComplete      OnboardingStep = "complete"
)

const (
	PathPhoneAuth = "/onboarding/phone-auth"
	PathDashboard = "/dashboard"
)

// GuardOnboardingStep enforces the staged-access rules for the
// onboarding flow on every request. Check order is fixed: a full
// session always wins, then the step's own preconditions; only the
// entry step is allowed by default. Missing or ambiguous state
// redirects rather than rendering.
func GuardOnboardingStep(step OnboardingStep) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := GetSession(r.Context())
			if !ok {
				if step == StepPhoneAuth {
					next.ServeHTTP(w, r)
					return
				}
				http.Redirect(w, r, PathPhoneAuth, http.StatusSeeOther)
				return
			}

			ctx := r.Context()
			if session.Has(ctx, sessionstore.KeyAuthToken) {
				// Already onboarded; earlier steps never render.
				if step == StepComplete {
					next.ServeHTTP(w, r)
					return
				}
				http.Redirect(w, r, PathDashboard, http.StatusSeeOther)
				return
			}

			switch step {
			case StepPhoneAuth:
				next.ServeHTTP(w, r)
			case StepAccountSetup:
				if session.Has(ctx, sessionstore.KeySetupAuthToken) && session.Has(ctx, sessionstore.KeySetupEmployeeData) {
					next.ServeHTTP(w, r)
					return
				}
				http.Redirect(w, r, PathPhoneAuth, http.StatusSeeOther)
			case StepPasswordSetup:
				if session.Has(ctx, sessionstore.KeySetupAuthToken) &&
					session.Has(ctx, sessionstore.KeySetupEmployeeData) &&
					session.Has(ctx, sessionstore.KeySetupUsername) {
					next.ServeHTTP(w, r)
					return
				}
				http.Redirect(w, r, PathPhoneAuth, http.StatusSeeOther)
			case StepComplete:
				http.Redirect(w, r, PathPhoneAuth, http.StatusSeeOther)
			default:
				http.Redirect(w, r, PathPhoneAuth, http.StatusSeeOther)
			}
		})
	}
}

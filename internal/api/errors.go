package api

import (
	"net/http"
	"strings"

	"github.com/magabrotheeeer/bukafresh-client/internal/lib/apperr"
)

const (
	msgNoConnection   = "Cannot connect to server. Please check your internet connection."
	msgCheckInternet  = "Please check your internet connection and try again."
	msgServerTrouble  = "We're experiencing technical difficulties. Please try again in a few minutes."
	msgTimeout        = "This is taking longer than usual. Please try again."
	msgAlreadyVerifed = "Your email is already verified! You can start shopping now."
	msgCheckInfo      = "Please check your information and try again."
)

func newError(kind apperr.Kind, f failure, msg string) *apperr.Error {
	return &apperr.Error{Kind: kind, Message: msg, Status: f.status, Err: f.err}
}

// networkError классифицирует отсутствие ответа.
func networkError(f failure) *apperr.Error {
	if f.timeout {
		return newError(apperr.KindTimeout, f, msgTimeout)
	}
	return newError(apperr.KindNetwork, f, msgNoConnection)
}

func contains(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), sub)
}

// conflictError разбирает 409 по тексту бэкенда: почта, телефон или прочее.
func conflictError(f failure, emailMsg string) *apperr.Error {
	switch {
	case contains(f.message, "email"):
		return newError(apperr.KindConflictEmail, f, emailMsg)
	case contains(f.message, "phone"):
		return newError(apperr.KindConflictPhone, f, "This phone number is already in use. Please use a different number.")
	default:
		return newError(apperr.KindConflict, f, "This information is already registered. Please check your details.")
	}
}

func loginError(f failure) *apperr.Error {
	switch {
	case f.status == 0:
		return networkError(f)
	case f.status == http.StatusUnauthorized:
		return newError(apperr.KindUnauthenticated, f, "Invalid email or password. Please check your credentials and try again.")
	case f.status == http.StatusForbidden:
		if contains(f.message, "verify") {
			return newError(apperr.KindPermissionDenied, f, "Please verify your email before signing in. Check your inbox for the verification link.")
		}
		return newError(apperr.KindPermissionDenied, f, "Access denied. Please contact support if this continues.")
	case f.status == http.StatusNotFound:
		return newError(apperr.KindNotFound, f, "No account found with this email. Please check your email or create a new account.")
	case f.status >= 500:
		return newError(apperr.KindServer, f, "We're having trouble signing you in right now. Please try again in a few minutes.")
	case f.message != "":
		return newError(apperr.KindUnknown, f, f.message)
	default:
		return newError(apperr.KindUnknown, f, "Login failed. Please try again.")
	}
}

func registerError(f failure) *apperr.Error {
	switch {
	case f.status == 0:
		return networkError(f)
	case f.status == http.StatusConflict:
		return conflictError(f, "This email is already registered. Try signing in instead.")
	case f.status == http.StatusUnprocessableEntity:
		return newError(apperr.KindValidation, f, msgCheckInfo)
	case f.status >= 500:
		return newError(apperr.KindServer, f, "We're having trouble creating your account right now. Please try again in a few minutes.")
	case f.message != "":
		return newError(apperr.KindUnknown, f, f.message)
	default:
		return newError(apperr.KindUnknown, f, "Registration failed. Please try again.")
	}
}

func verifyError(f failure) *apperr.Error {
	switch {
	case f.status == 0:
		if f.timeout {
			return newError(apperr.KindTimeout, f, msgTimeout)
		}
		return newError(apperr.KindNetwork, f, msgCheckInternet)
	case f.status == http.StatusBadRequest:
		return newError(apperr.KindInvalidLink, f, "This verification link is not valid. Please check your email for the correct link.")
	case f.status == http.StatusNotFound:
		return newError(apperr.KindNotFound, f, "We couldn't find your verification request. Please try requesting a new verification email.")
	case f.status == http.StatusGone || contains(f.message, "expired"):
		return newError(apperr.KindLinkExpired, f, "This verification link has expired. Please request a new one.")
	case contains(f.message, "already verified"):
		return newError(apperr.KindAlreadyVerified, f, msgAlreadyVerifed)
	case f.status >= 500:
		return newError(apperr.KindServer, f, "We're having trouble verifying your email right now. Please try again in a few minutes.")
	default:
		return newError(apperr.KindUnknown, f, "We couldn't verify your email. Please try again or contact support if the problem continues.")
	}
}

func resendError(f failure) *apperr.Error {
	switch {
	case f.status == 0:
		if f.timeout {
			return newError(apperr.KindTimeout, f, msgTimeout)
		}
		return newError(apperr.KindNetwork, f, msgCheckInternet)
	case f.status == http.StatusBadRequest:
		return newError(apperr.KindValidation, f, "Please enter a valid email address.")
	case f.status == http.StatusNotFound:
		return newError(apperr.KindNotFound, f, "We couldn't find an account with that email address. Please check your email or create a new account.")
	case f.status == http.StatusTooManyRequests:
		return newError(apperr.KindRateLimited, f, "You've requested too many verification emails. Please wait a few minutes before trying again.")
	case contains(f.message, "already verified"):
		return newError(apperr.KindAlreadyVerified, f, msgAlreadyVerifed)
	case f.status >= 500:
		return newError(apperr.KindServer, f, "We're having trouble sending your verification email right now. Please try again in a few minutes.")
	default:
		return newError(apperr.KindUnknown, f, "We couldn't send your verification email. Please try again or contact support if the problem continues.")
	}
}

func profileError(f failure) *apperr.Error {
	switch {
	case f.status == 0:
		return networkError(f)
	case f.status == http.StatusUnauthorized:
		return newError(apperr.KindUnauthenticated, f, "Please log in to view your profile.")
	case f.status == http.StatusForbidden:
		return newError(apperr.KindPermissionDenied, f, "You don't have permission to view this profile.")
	case f.status == http.StatusNotFound:
		return newError(apperr.KindNotFound, f, "Profile not found. Please contact support.")
	case f.status >= 500:
		return newError(apperr.KindServer, f, "We're having trouble loading your profile right now. Please try again in a few minutes.")
	case f.message != "":
		return newError(apperr.KindUnknown, f, f.message)
	default:
		return newError(apperr.KindUnknown, f, "Failed to load profile. Please try again.")
	}
}

func checkoutError(f failure) *apperr.Error {
	switch {
	case f.status == 0:
		return networkError(f)
	case f.status == http.StatusForbidden:
		return newError(apperr.KindPermissionDenied, f, "Server access denied. Please try again later.")
	case f.status == http.StatusUnauthorized:
		return newError(apperr.KindUnauthenticated, f, "Authentication required. Please refresh and try again.")
	case f.status == http.StatusNotFound:
		return newError(apperr.KindNotFound, f, "Registration endpoint not found. Please try again later.")
	case f.status == http.StatusConflict:
		return conflictError(f, "This email is already registered. Try logging in instead.")
	case f.status == http.StatusUnprocessableEntity:
		return newError(apperr.KindValidation, f, msgCheckInfo)
	case f.status >= 500:
		return newError(apperr.KindServer, f, msgServerTrouble)
	case contains(f.message, "email") && contains(f.message, "exists"):
		return newError(apperr.KindConflictEmail, f, "This email is already registered. Try logging in instead.")
	case contains(f.message, "phone") && contains(f.message, "exists"):
		return newError(apperr.KindConflictPhone, f, "This phone number is already in use. Please use a different number.")
	case contains(f.message, "validation"):
		return newError(apperr.KindValidation, f, msgCheckInfo)
	case f.message != "":
		return newError(apperr.KindUnknown, f, f.message)
	default:
		return newError(apperr.KindUnknown, f, "Something went wrong. Please try again.")
	}
}

// genericError — классификатор для подписок и платежей.
// "not found" в тексте и 404 дают KindNotFound, чтобы политика повторов
// не повторяла такие запросы.
func genericError(fallback string) classifier {
	return func(f failure) *apperr.Error {
		switch {
		case f.status == 0:
			return networkError(f)
		case f.status == http.StatusUnauthorized:
			return newError(apperr.KindUnauthenticated, f, "Please log in to continue.")
		case f.status == http.StatusForbidden:
			return newError(apperr.KindPermissionDenied, f, "You don't have permission to perform this action.")
		case f.status == http.StatusNotFound || contains(f.message, "not found"):
			msg := f.message
			if msg == "" {
				msg = "The requested resource was not found."
			}
			return newError(apperr.KindNotFound, f, msg)
		case f.status == http.StatusTooManyRequests:
			return newError(apperr.KindRateLimited, f, "Too many requests. Please wait a moment and try again.")
		case f.status == http.StatusBadRequest || f.status == http.StatusUnprocessableEntity:
			msg := f.message
			if msg == "" {
				msg = msgCheckInfo
			}
			return newError(apperr.KindValidation, f, msg)
		case f.status == http.StatusConflict:
			msg := f.message
			if msg == "" {
				msg = fallback
			}
			return newError(apperr.KindConflict, f, msg)
		case f.status >= 500:
			return newError(apperr.KindServer, f, msgServerTrouble)
		case f.message != "":
			return newError(apperr.KindUnknown, f, f.message)
		default:
			return newError(apperr.KindUnknown, f, fallback)
		}
	}
}

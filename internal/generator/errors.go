package generator

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// Kind classifies why a generation failed. None of them is retried.
type Kind int8

const (
	// KindUnknown is the default for unclassified failures.
	KindUnknown Kind = iota
	// KindMissingCredential means no API key is configured.
	KindMissingCredential
	// KindRateLimited means the provider answered 429.
	KindRateLimited
	// KindServiceUnavailable means the provider answered 503.
	KindServiceUnavailable
	// KindModelUnavailable means the model does not exist or is not enabled for the key.
	KindModelUnavailable
	// KindMalformedResponse means the payload could not be parsed as a session.
	KindMalformedResponse
)

// String returns the snake_case name used in logs, metrics and API bodies.
func (k Kind) String() string {
	switch k {
	case KindMissingCredential:
		return "missing_credential"
	case KindRateLimited:
		return "rate_limited"
	case KindServiceUnavailable:
		return "service_unavailable"
	case KindModelUnavailable:
		return "model_unavailable"
	case KindMalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// HTTPStatus is the status the API answers with for this kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindMissingCredential:
		return http.StatusServiceUnavailable
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

// Error is a classified generation failure.
type Error struct {
	Kind  Kind
	Model string
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("generation failed (%s)", e.Kind)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage is the short message shown to the coach. The underlying error
// is never part of it.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindMissingCredential:
		return "Clé API manquante. Vérifiez votre configuration."
	case KindRateLimited:
		return "Trop de demandes. Attendez une minute."
	case KindServiceUnavailable:
		return "Les serveurs Google surchauffent. Réessayez dans 30s."
	case KindModelUnavailable:
		return fmt.Sprintf("Le modèle %s n'est pas activé sur votre clé API.", e.Model)
	case KindMalformedResponse:
		return "La réponse de l'IA est illisible. Relancez la génération."
	default:
		return "Erreur de génération. Vérifiez la clé API et réessayez."
	}
}

// KindOf returns the kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var genErr *Error
	if errors.As(err, &genErr) {
		return genErr.Kind
	}
	return KindUnknown
}

// Is reports whether err is a generation error of the given kind.
func Is(err error, kind Kind) bool {
	var genErr *Error
	return errors.As(err, &genErr) && genErr.Kind == kind
}

// UserMessage returns the coach-facing message for any error.
func UserMessage(err error) string {
	var genErr *Error
	if errors.As(err, &genErr) {
		return genErr.UserMessage()
	}
	return (&Error{Kind: KindUnknown}).UserMessage()
}

var statusCodeKinds = map[int]Kind{
	http.StatusTooManyRequests:    KindRateLimited,
	http.StatusServiceUnavailable: KindServiceUnavailable,
	http.StatusNotFound:           KindModelUnavailable,
}

// statusTextKinds covers provider errors that only carry the RPC status name.
var statusTextKinds = map[string]Kind{
	"RESOURCE_EXHAUSTED": KindRateLimited,
	"UNAVAILABLE":        KindServiceUnavailable,
	"NOT_FOUND":          KindModelUnavailable,
}

// classify maps a provider failure to a Kind. Errors that are already
// classified keep their kind.
func classify(err error) Kind {
	var genErr *Error
	if errors.As(err, &genErr) {
		return genErr.Kind
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if kind, ok := statusCodeKinds[apiErr.Code]; ok {
			return kind
		}
		if kind, ok := statusTextKinds[strings.ToUpper(apiErr.Status)]; ok {
			return kind
		}
		return KindUnknown
	}

	var coded interface{ StatusCode() int }
	if errors.As(err, &coded) {
		if kind, ok := statusCodeKinds[coded.StatusCode()]; ok {
			return kind
		}
	}
	return KindUnknown
}

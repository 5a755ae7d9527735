// Package apperrors définit les erreurs métier de la boutique et leur
// correspondance HTTP.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// NotFoundError : l'identifiant demandé n'existe pas.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s introuvable: %s", e.Resource, e.ID)
}

// ValidationError : entrée manquante ou mal formée, rejetée avant toute écriture.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return e.Message + " (" + strings.Join(parts, ", ") + ")"
}

// StaleReferenceError : une ligne de panier pointe vers une fleur supprimée ou désactivée.
type StaleReferenceError struct {
	ProductIDs []string
}

func (e *StaleReferenceError) Error() string {
	return "produits indisponibles: " + strings.Join(e.ProductIDs, ", ")
}

// CollaboratorError : échec d'un service externe (stockage, paiement, e-mail).
type CollaboratorError struct {
	Collaborator string
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Collaborator, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func Validation(message string, fields map[string]string) error {
	return &ValidationError{Message: message, Fields: fields}
}

func StaleReference(productIDs ...string) error {
	return &StaleReferenceError{ProductIDs: productIDs}
}

func Collaborator(name string, err error) error {
	return &CollaboratorError{Collaborator: name, Err: err}
}

// Status renvoie le code HTTP associé à l'erreur.
func Status(err error) int {
	var (
		nf *NotFoundError
		ve *ValidationError
		sr *StaleReferenceError
		ce *CollaboratorError
	)
	switch {
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &sr):
		return http.StatusConflict
	case errors.As(err, &ce):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Body construit la réponse JSON d'erreur renvoyée au client.
func Body(err error) map[string]any {
	var (
		ve *ValidationError
		sr *StaleReferenceError
		ce *CollaboratorError
	)
	switch {
	case errors.As(err, &ve):
		body := map[string]any{"error": ve.Message}
		if len(ve.Fields) > 0 {
			body["fields"] = ve.Fields
		}
		return body
	case errors.As(err, &sr):
		return map[string]any{"error": "Certains produits ne sont plus disponibles", "product_ids": sr.ProductIDs}
	case errors.As(err, &ce):
		return map[string]any{"error": "Service indisponible: " + ce.Collaborator}
	case Status(err) == http.StatusNotFound:
		return map[string]any{"error": err.Error()}
	default:
		return map[string]any{"error": "Erreur interne du serveur"}
	}
}

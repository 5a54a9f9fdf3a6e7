// Package admin holds the dashboard's JSON handlers: creation wizards,
// catalog status, contacts and sales schemes. Every backend call is made
// with the signed-in admin's token.
package admin

import (
	"errors"

	"github.com/gin-gonic/gin"

	"silicon.com/app/internal/backend"
	"silicon.com/app/internal/form"
	"silicon.com/app/internal/http/middleware"
	"silicon.com/app/internal/modules/accessories"
	"silicon.com/app/internal/modules/products"
	"silicon.com/app/internal/modules/schemes"
	"silicon.com/app/internal/shared/apperr"
	"silicon.com/app/internal/storage"
	"silicon.com/app/internal/wizard"
)

var errUnknownKind = errors.New("unknown wizard kind")

// fail maps domain errors onto the app error taxonomy, then aborts.
func fail(c *gin.Context, err error) {
	middleware.Fail(c, toAppError(err))
}

func toAppError(err error) error {
	if _, ok := apperr.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, wizard.ErrNotFound):
		return apperr.NotFoundErr("Wizard not found or expired.")
	case errors.Is(err, wizard.ErrNoSuchStep),
		errors.Is(err, errUnknownKind),
		errors.Is(err, form.ErrUnknownField),
		errors.Is(err, form.ErrNotList),
		errors.Is(err, form.ErrNotScalar),
		errors.Is(err, form.ErrUnknownPart),
		errors.Is(err, form.ErrIndexRange),
		errors.Is(err, form.ErrMinItems),
		errors.Is(err, products.ErrNotImage),
		errors.Is(err, storage.ErrTooLarge),
		errors.Is(err, products.ErrInvalidStatus),
		errors.Is(err, accessories.ErrInvalidStatus),
		errors.Is(err, schemes.ErrUnknownScheme):
		return &apperr.AppError{Kind: apperr.Invalid, PublicMsg: err.Error(), Err: err}
	case errors.Is(err, wizard.ErrBusy):
		return &apperr.AppError{Kind: apperr.Conflict, PublicMsg: "This step is already being submitted.", Err: err}
	case errors.Is(err, wizard.ErrOutOfOrder),
		errors.Is(err, wizard.ErrCompleted),
		errors.Is(err, wizard.ErrClosed),
		errors.Is(err, wizard.ErrAtFirstStep),
		errors.Is(err, wizard.ErrMissingTokens):
		return &apperr.AppError{Kind: apperr.Conflict, PublicMsg: err.Error(), Err: err}
	case errors.Is(err, schemes.ErrNoProduct):
		return &apperr.AppError{Kind: apperr.NotFound, PublicMsg: err.Error(), Err: err}
	}
	return backend.AsAppError(err)
}

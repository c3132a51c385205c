package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ariefcatur/go-storefront/internal/auth"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/users"
)

// Error kind yang machine-checkable di body response.
const (
	KindNotFound           = "not-found"
	KindInvalidArgument    = "invalid-argument"
	KindInsufficientStock  = "insufficient-stock"
	KindPreconditionFailed = "precondition-failed"
	KindConflict           = "conflict"
	KindUnauthorized       = "unauthorized"
	KindForbidden          = "forbidden"
	KindInternal           = "internal"
)

var errInvalidCredentials = errors.New("invalid email or password")

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorKind(w http.ResponseWriter, code int, kind, msg string) {
	writeJSON(w, code, map[string]string{"error": msg, "kind": kind})
}

// writeError petakan error domain ke status + kind. Error tak dikenal =
// storage/internal, jangan bocorkan detailnya ke client.
func writeError(w http.ResponseWriter, err error) {
	var ise *orders.InsufficientStockError

	switch {
	case errors.As(err, &ise):
		writeErrorKind(w, http.StatusBadRequest, KindInsufficientStock, ise.Error())

	case errors.Is(err, orders.ErrOrderNotFound),
		errors.Is(err, orders.ErrProductNotFound),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, catalog.ErrCategoryNotFound),
		errors.Is(err, users.ErrUserNotFound):
		writeErrorKind(w, http.StatusNotFound, KindNotFound, err.Error())

	case errors.Is(err, orders.ErrNoItems),
		errors.Is(err, orders.ErrInvalidStatus),
		errors.Is(err, orders.ErrInvalidQuantity),
		errors.Is(err, orders.ErrInvalidPrice),
		errors.Is(err, orders.ErrInvalidDiscount),
		errors.Is(err, orders.ErrDiscountRequired),
		errors.Is(err, orders.ErrEmptyUpdate),
		errors.Is(err, catalog.ErrInvalidName),
		errors.Is(err, catalog.ErrInvalidPrice),
		errors.Is(err, catalog.ErrInvalidStock),
		errors.Is(err, catalog.ErrInvalidSlug),
		errors.Is(err, users.ErrInvalidRole),
		errors.Is(err, users.ErrInvalidEmail),
		errors.Is(err, auth.ErrPasswordTooShort):
		writeErrorKind(w, http.StatusBadRequest, KindInvalidArgument, err.Error())

	case errors.Is(err, orders.ErrOrderCompleted),
		errors.Is(err, catalog.ErrProductInUse),
		errors.Is(err, users.ErrLastAdmin):
		writeErrorKind(w, http.StatusConflict, KindPreconditionFailed, err.Error())

	case errors.Is(err, catalog.ErrSlugTaken),
		errors.Is(err, users.ErrEmailTaken):
		writeErrorKind(w, http.StatusConflict, KindConflict, err.Error())

	case errors.Is(err, errInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		writeErrorKind(w, http.StatusUnauthorized, KindUnauthorized, err.Error())

	default:
		writeErrorKind(w, http.StatusInternalServerError, KindInternal, "internal error")
	}
}

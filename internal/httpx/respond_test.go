package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/users"
)

func TestWriteError_Mapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"order not found", orders.ErrOrderNotFound, http.StatusNotFound, KindNotFound},
		{"wrapped not found", fmt.Errorf("%w: abc", orders.ErrProductNotFound), http.StatusNotFound, KindNotFound},
		{"no items", orders.ErrNoItems, http.StatusBadRequest, KindInvalidArgument},
		{"invalid status", orders.ErrInvalidStatus, http.StatusBadRequest, KindInvalidArgument},
		{"insufficient stock", &orders.InsufficientStockError{
			ProductID: "p1", ProductName: "Kopi", Available: 2, Required: 5,
		}, http.StatusBadRequest, KindInsufficientStock},
		{"delete completed", orders.ErrOrderCompleted, http.StatusConflict, KindPreconditionFailed},
		{"product in use", catalog.ErrProductInUse, http.StatusConflict, KindPreconditionFailed},
		{"slug taken", fmt.Errorf("%w: %q", catalog.ErrSlugTaken, "kopi"), http.StatusConflict, KindConflict},
		{"email taken", users.ErrEmailTaken, http.StatusConflict, KindConflict},
		{"last admin", users.ErrLastAdmin, http.StatusConflict, KindPreconditionFailed},
		{"bad credentials", errInvalidCredentials, http.StatusUnauthorized, KindUnauthorized},
		{"unknown", errors.New("pg down"), http.StatusInternalServerError, KindInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.wantKind, body["kind"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestWriteError_InsufficientStockMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, &orders.InsufficientStockError{
		ProductID: "p1", ProductName: "Kopi Gayo", Available: 0, Required: 1,
	})

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Insufficient stock for Kopi Gayo. Available: 0, Required: 1", body["error"])
}

func TestWriteError_DoesNotLeakInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New(`connect to "10.0.0.3:5432" refused`))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal error", body["error"])
}

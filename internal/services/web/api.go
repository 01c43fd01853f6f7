package web

import (
	"log"
	"net/http"
	"strconv"

	apperrors "github.com/louisbranch/localeforms/internal/platform/errors"
	errorsi18n "github.com/louisbranch/localeforms/internal/platform/errors/i18n"
	"github.com/louisbranch/localeforms/internal/services/web/i18n"
	"github.com/louisbranch/localeforms/internal/services/web/platform/httpx"
)

type profileRequest struct {
	Name  string   `json:"name" validate:"required,min=1,max=64"`
	Age   *float64 `json:"age" validate:"required,gte=0,lte=150"`
	Email string   `json:"email,omitempty" validate:"omitempty,email"`
}

type profileResponse struct {
	Profile profileRequest `json:"profile"`
}

// handleProfileAPI validates a JSON profile. Failures are written as a
// google.rpc.Status with one BadRequest violation per field.
func (h *handler) handleProfileAPI(w http.ResponseWriter, r *http.Request) {
	tag, ok := i18n.TagForPath(r.PathValue("locale"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	locale := tag.String()

	if h.validation == nil {
		writeAPIError(w, r, locale, apperrors.New(apperrors.CodeSchemaUnavailable, "validation is not configured"))
		return
	}

	if h.scheme.CrossOrigin(r) {
		writeAPIError(w, r, locale, apperrors.New(apperrors.CodeCrossOrigin, "cross-origin profile post"))
		return
	}

	var req profileRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		writeAPIError(w, r, locale, apperrors.Wrap(apperrors.CodeFormMalformed, "read profile request", err))
		return
	}

	if fields := h.validation.validateStruct(r.Context(), locale, req); len(fields) > 0 {
		writeAPIError(w, r, locale, apperrors.WithFields(apperrors.CodeFormInvalid, "profile validation failed",
			map[string]string{"count": strconv.Itoa(len(fields))}, fields))
		return
	}

	if err := httpx.WriteJSON(w, http.StatusOK, profileResponse{Profile: req}); err != nil {
		log.Printf("web: request %s: write profile response: %v", httpx.RequestIDFrom(r), err)
	}
}

func writeAPIError(w http.ResponseWriter, r *http.Request, locale string, err *apperrors.Error) {
	log.Printf("web: request %s: %s: %v", httpx.RequestIDFrom(r), err.Code, err)
	userMessage := errorsi18n.GetCatalog(locale).Format(string(err.Code), err.Metadata)
	if writeErr := httpx.WriteStatus(w, err.Status(locale, userMessage)); writeErr != nil {
		log.Printf("web: request %s: write status: %v", httpx.RequestIDFrom(r), writeErr)
	}
}

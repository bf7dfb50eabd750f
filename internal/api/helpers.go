package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/vytor/dailyenglish/internal/engine"
	"github.com/vytor/dailyenglish/internal/errors"
	"github.com/vytor/dailyenglish/internal/logicalday"
)

const maxBodyBytes = 64 << 10

var (
	validate   *validator.Validate
	translator ut.Translator
)

const notBlankTag = "notblank"

func init() {
	validate = validator.New()

	english := en.New()
	translator, _ = ut.New(english, english).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Report JSON field names rather than Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && strings.TrimSpace(s) != ""
	})
	_ = validate.RegisterTranslation(notBlankTag, translator,
		func(ut.Translator) error { return nil },
		func(ut.Translator, validator.FieldError) string { return "this field cannot be blank" },
	)
}

// decodeJSON reads a JSON body into dst and runs its validate tags.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.NewBadRequestError("invalid JSON body: " + err.Error())
	}
	return validateRequest(dst)
}

func validateRequest(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return errors.NewValidationError(fe.Field(), fe.Translate(translator))
	}
	return errors.NewBadRequestError(err.Error())
}

// dateParam returns the {date} URL parameter after checking its format.
func dateParam(r *http.Request) (string, error) {
	key := chi.URLParam(r, "date")
	if _, err := logicalday.ParseKey(key); err != nil {
		return "", errors.NewValidationError("date", err.Error())
	}
	return key, nil
}

// monthParam reads ?month=YYYY-MM, defaulting to the month of the tracker's
// logical today.
func monthParam(r *http.Request, t *engine.Tracker) (int, time.Month, error) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		year, month, err := logicalday.KeyMonth(t.TodayKey())
		if err != nil {
			return 0, 0, errors.NewInternalError(err)
		}
		return year, month, nil
	}
	year, month, err := logicalday.ParseMonth(raw)
	if err != nil {
		return 0, 0, errors.NewValidationError("month", err.Error())
	}
	return year, month, nil
}

func intQuery(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.NewValidationError(name, "must be a non-negative integer")
	}
	return n, nil
}

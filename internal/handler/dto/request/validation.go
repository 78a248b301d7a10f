package request

import (
	"time"

	"parking-reservation/internal/pkg/errs"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidations installs the custom binding tags used by the request DTOs
// on gin's validator.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errs.New("gin binding validator is not go-playground/validator")
	}
	// waitlist keys are minute precision, so finer timestamps would alias
	return v.RegisterValidation("minuteAligned", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return true
		}
		return t.Equal(t.Truncate(time.Minute))
	})
}

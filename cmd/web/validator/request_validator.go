package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	playground "github.com/go-playground/validator/v10"

	"topup/kit/money"
)

var (
	ErrInvalidJSON    = errors.New("invalid json")
	ErrInvalidRequest = errors.New("invalid request")
)

// JSON decodes request bodies strictly and then checks their validate tags.
type JSON struct {
	MaxBytes int64
	vld      *playground.Validate
}

func NewJSON() *JSON {
	vld := playground.New(playground.WithRequiredStructEnabled())
	// positive_amount: a decimal string above zero that money.Parse accepts.
	_ = vld.RegisterValidation("positive_amount", func(fl playground.FieldLevel) bool {
		minor, err := money.Parse(fl.Field().String())
		return err == nil && minor > 0
	})
	return &JSON{MaxBytes: 1 << 20, vld: vld}
}

func (v *JSON) Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, v.MaxBytes)
	defer func() { _ = body.Close() }()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return ErrInvalidJSON
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return ErrInvalidJSON
	}
	return v.Validate(dst)
}

func (v *JSON) Validate(dst any) error {
	if err := v.vld.Struct(dst); err != nil {
		var verrs playground.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed %s", ErrInvalidRequest, fe.Namespace(), fe.Tag())
		}
		return errors.Join(ErrInvalidRequest, err)
	}
	return nil
}

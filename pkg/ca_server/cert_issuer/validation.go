package cert_issuer

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/openebl/leafca/pkg/ca_server/model"
)

func ValidateSignRequest(req model.SignRequest) error {
	if err := validation.ValidateStruct(&req,
		validation.Field(&req.CSRBase64, validation.Required),
	); err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrDecode)
	}

	return nil
}

// Package broker models the broker-onboarding application: the personal
// detail fields and the identity documents uploaded alongside them.
package broker

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Multipart field names for the uploaded documents.
const (
	FieldIDDocumentPrimary   = "id_document_primary"
	FieldIDDocumentSecondary = "id_document_secondary"
	FieldSelfieWithID        = "selfie_with_id"
)

// Application is the personal-detail portion of a broker application.
// AdditionalDetails is free text; it is serialized as a JSON object under a
// notes key, which is what the platform stores.
type Application struct {
	DateOfBirth       string `json:"date_of_birth" validate:"required"`
	Curp              string `json:"curp" validate:"required"`
	Rfc               string `json:"rfc" validate:"required"`
	Nationality       string `json:"nationality" validate:"required"`
	Address           string `json:"address" validate:"required"`
	MobilePhone       string `json:"mobile_phone" validate:"required"`
	Occupation        string `json:"occupation" validate:"required"`
	AdditionalDetails string `json:"-"`
}

// Document is an opaque binary blob attached under a fixed field name.
type Document struct {
	Field    string
	Filename string
	Content  []byte
}

// Documents groups the three optional identity uploads.
type Documents struct {
	IDDocumentPrimary   *Document
	IDDocumentSecondary *Document
	SelfieWithID        *Document
}

var validate = validator.New()

// Validate checks that every required personal field is present. Documents
// are optional on re-submission, so they are not checked here.
func (a Application) Validate() error {
	if err := validate.Struct(a); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			return fmt.Errorf("broker: %s is required", jsonFieldName(invalid[0].StructField()))
		}
		return fmt.Errorf("broker: validate application: %w", err)
	}
	return nil
}

func jsonFieldName(structField string) string {
	names := map[string]string{
		"DateOfBirth": "date_of_birth",
		"Curp":        "curp",
		"Rfc":         "rfc",
		"Nationality": "nationality",
		"Address":     "address",
		"MobilePhone": "mobile_phone",
		"Occupation":  "occupation",
	}
	if name, ok := names[structField]; ok {
		return name
	}
	return structField
}

// detailFields returns the form fields in submission order. additional_details
// is encoded as a JSON string holding a notes object, and omitted when empty.
func (a Application) detailFields() ([][2]string, error) {
	fields := [][2]string{
		{"date_of_birth", a.DateOfBirth},
		{"curp", a.Curp},
		{"rfc", a.Rfc},
		{"nationality", a.Nationality},
		{"address", a.Address},
		{"mobile_phone", a.MobilePhone},
		{"occupation", a.Occupation},
	}
	if a.AdditionalDetails != "" {
		encoded, err := json.Marshal(map[string]string{"notes": a.AdditionalDetails})
		if err != nil {
			return nil, fmt.Errorf("broker: encode additional details: %w", err)
		}
		fields = append(fields, [2]string{"additional_details", string(encoded)})
	}
	return fields, nil
}

// Status is the broker-application state returned by the platform.
// Application is nil when the user has not applied yet.
type Status struct {
	IsBroker    bool           `json:"is_broker"`
	Application map[string]any `json:"application"`
}

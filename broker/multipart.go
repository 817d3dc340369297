package broker

import (
	"bytes"
	"fmt"
	"mime/multipart"
)

// EncodeMultipart assembles the application and its documents into a
// multipart/form-data body ready for submission. The returned content type
// carries the generated boundary.
func EncodeMultipart(app Application, docs Documents) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fields, err := app.detailFields()
	if err != nil {
		return nil, "", err
	}
	for _, field := range fields {
		if err := writer.WriteField(field[0], field[1]); err != nil {
			return nil, "", fmt.Errorf("broker: write field %s: %w", field[0], err)
		}
	}

	for _, doc := range []*Document{docs.IDDocumentPrimary, docs.IDDocumentSecondary, docs.SelfieWithID} {
		if doc == nil {
			continue
		}
		if doc.Field == "" {
			return nil, "", fmt.Errorf("broker: document missing field name")
		}
		part, err := writer.CreateFormFile(doc.Field, doc.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("broker: create part %s: %w", doc.Field, err)
		}
		if _, err := part.Write(doc.Content); err != nil {
			return nil, "", fmt.Errorf("broker: write part %s: %w", doc.Field, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("broker: finalize form: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}

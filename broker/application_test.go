package broker

import (
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"
)

func validApplication() Application {
	return Application{
		DateOfBirth: "1990-04-02",
		Curp:        "ABCD900402HDFLRN09",
		Rfc:         "ABCD900402AB1",
		Nationality: "Mexican",
		Address:     "Calle Falsa 123, CDMX",
		MobilePhone: "+52 55 1234 5678",
		Occupation:  "Real estate broker",
	}
}

func TestApplication_Validate(t *testing.T) {
	if err := validApplication().Validate(); err != nil {
		t.Fatalf("expected valid application, got %v", err)
	}

	app := validApplication()
	app.Curp = ""
	err := app.Validate()
	if err == nil {
		t.Fatal("expected missing curp to fail")
	}
	if !strings.Contains(err.Error(), "curp is required") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestEncodeMultipart(t *testing.T) {
	app := validApplication()
	app.AdditionalDetails = "bilingual, 10 years experience"
	docs := Documents{
		IDDocumentPrimary: &Document{
			Field:    FieldIDDocumentPrimary,
			Filename: "passport.jpg",
			Content:  []byte{0xff, 0xd8, 0xff},
		},
		SelfieWithID: &Document{
			Field:    FieldSelfieWithID,
			Filename: "selfie.png",
			Content:  []byte{0x89, 0x50},
		},
	}

	body, contentType, err := EncodeMultipart(app, docs)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "multipart/form-data" {
		t.Fatalf("unexpected content type %q", contentType)
	}

	reader := multipart.NewReader(body, params["boundary"])
	fields := map[string]string{}
	files := map[string]string{}
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read part: %v", err)
		}
		data, _ := io.ReadAll(part)
		if part.FileName() != "" {
			files[part.FormName()] = part.FileName()
		} else {
			fields[part.FormName()] = string(data)
		}
	}

	if fields["curp"] != app.Curp || fields["occupation"] != app.Occupation {
		t.Fatalf("missing detail fields: %v", fields)
	}
	if fields["additional_details"] != `{"notes":"bilingual, 10 years experience"}` {
		t.Fatalf("unexpected additional_details %q", fields["additional_details"])
	}
	if files[FieldIDDocumentPrimary] != "passport.jpg" {
		t.Fatalf("expected primary document part, got %v", files)
	}
	if files[FieldSelfieWithID] != "selfie.png" {
		t.Fatalf("expected selfie part, got %v", files)
	}
	if _, ok := files[FieldIDDocumentSecondary]; ok {
		t.Fatal("absent documents must not produce parts")
	}
}

func TestEncodeMultipart_OmitsEmptyAdditionalDetails(t *testing.T) {
	body, contentType, err := EncodeMultipart(validApplication(), Documents{})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	_, params, _ := mime.ParseMediaType(contentType)
	reader := multipart.NewReader(body, params["boundary"])
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read part: %v", err)
		}
		if part.FormName() == "additional_details" {
			t.Fatal("empty additional_details must be omitted")
		}
	}
}

package note

import (
	"bytes"

	"github.com/goccy/go-json"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

type Type string

const (
	TypeSOAP     Type = "SOAP"
	TypeBAP      Type = "BAP"
	TypeProgress Type = "Progress"
)

// SOAPData is the Subjective/Objective/Assessment/Plan template.
type SOAPData struct {
	Subjective string `json:"subjective"`
	Objective  string `json:"objective"`
	Assessment string `json:"assessment"`
	Plan       string `json:"plan"`
}

// BAPData is the Behavior/Assessment/Plan template.
type BAPData struct {
	Behavior   string `json:"behavior"`
	Assessment string `json:"assessment"`
	Plan       string `json:"plan"`
}

type ProgressData struct {
	ProgressNote string `json:"progressNote"`
}

func ParseType(raw string) (Type, error) {
	switch t := Type(raw); t {
	case TypeSOAP, TypeBAP, TypeProgress:
		return t, nil
	}
	return "", httperr.ValidationErr("invalid_note_type", "note_type must be SOAP, BAP or Progress")
}

func (t Type) template() any {
	switch t {
	case TypeSOAP:
		return &SOAPData{}
	case TypeBAP:
		return &BAPData{}
	case TypeProgress:
		return &ProgressData{}
	}
	return nil
}

// NormalizeData checks raw against the template of t and returns it
// re-encoded in the template's canonical field order.
func NormalizeData(t Type, raw []byte) ([]byte, error) {
	tpl := t.template()
	if tpl == nil {
		return nil, httperr.ValidationErr("invalid_note_type", "note_type must be SOAP, BAP or Progress")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, httperr.ValidationErr("invalid_note_data", "note_data is required")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(tpl); err != nil {
		return nil, httperr.ValidationErr("invalid_note_data", "note_data does not match the "+string(t)+" template")
	}

	out, err := json.Marshal(tpl)
	if err != nil {
		return nil, err
	}
	return out, nil
}

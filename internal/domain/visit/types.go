package visit

import "github.com/BruksfildServices01/clinic-scheduler/internal/httperr"

type Type string

const (
	TypeInitialConsultation Type = "INITIAL_CONSULTATION"
	TypeFollowUp            Type = "FOLLOW_UP"
	TypeReview              Type = "REVIEW"
	TypeEmergency           Type = "EMERGENCY"
)

func ParseType(raw string) (Type, error) {
	switch t := Type(raw); t {
	case TypeInitialConsultation, TypeFollowUp, TypeReview, TypeEmergency:
		return t, nil
	}
	return "", httperr.ValidationErr("invalid_visit_type", "unknown visit type "+raw)
}

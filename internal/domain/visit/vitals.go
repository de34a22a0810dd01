package visit

import (
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// MergeVitalSigns merges incoming readings over the current snapshot.
// Keys absent from incoming are kept. Values must be scalars.
func MergeVitalSigns(current datatypes.JSONMap, incoming map[string]any) (datatypes.JSONMap, error) {
	for k, v := range incoming {
		if k == "" {
			return nil, httperr.ValidationErr("invalid_vital_signs", "vital sign names must not be empty")
		}
		if !isScalar(v) {
			return nil, httperr.ValidationErr("invalid_vital_signs", "vital sign "+k+" must be a scalar value")
		}
	}

	merged := make(datatypes.JSONMap, len(current)+len(incoming))
	for k, v := range current {
		merged[k] = v
	}
	for k, v := range incoming {
		merged[k] = v
	}
	return merged, nil
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool,
		float64, float32,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

package memstore

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// Seed is the collaborator data an in-memory instance starts with.
type Seed struct {
	Clinics     []models.Clinic                 `json:"clinics"`
	Patients    []models.Patient                `json:"patients"`
	Assignments []models.PractitionerAssignment `json:"assignments"`
}

// LoadSeed reads a JSON Seed document into s.
func (s *Store) LoadSeed(r io.Reader) error {
	var seed Seed
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return fmt.Errorf("decode seed: %w", err)
	}

	for _, c := range seed.Clinics {
		s.AddClinic(c)
	}
	for _, p := range seed.Patients {
		s.AddPatient(p)
	}
	for _, a := range seed.Assignments {
		s.AddAssignment(a)
	}
	return nil
}

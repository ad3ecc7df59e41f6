package candidate

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/errx"
	"github.com/Abraxas-365/hireflow/pkg/kernel"
)

// ============================================================================
// Candidate Entity
// ============================================================================

// Language es un idioma del candidato con nivel y verificación
type Language struct {
	Language string `json:"language"`
	Level    string `json:"level"`
	Verified bool   `json:"verified,omitempty"`
}

// LanguageList se persiste como jsonb
type LanguageList []Language

func (l LanguageList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *LanguageList) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into LanguageList", src)
	}
}

// Candidate es la entidad de solo lectura que el scheduler consume.
// El registro no es dueño del candidato: la fuente de verdad vive en
// el módulo de applications
type Candidate struct {
	ID                  kernel.CandidateID `db:"id" json:"id"`
	Name                string             `db:"name" json:"name"`
	MatchScore          int                `db:"match_score" json:"match_score"`
	Skills              StringList         `db:"skills" json:"skills"`
	ProfessionalSkills  StringList         `db:"professional_skills" json:"professional_skills"`
	Languages           LanguageList       `db:"languages" json:"languages"`
	AvailabilitySummary string             `db:"availability_summary" json:"availability_summary"`
	WorkType            string             `db:"work_type" json:"work_type"`
	EmploymentType      string             `db:"employment_type" json:"employment_type"`
	PhotoKey            *string            `db:"photo_key" json:"-"`
	CreatedAt           time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time          `db:"updated_at" json:"updated_at"`
}

// StringList se persiste como jsonb
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *StringList) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	case nil:
		*s = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

// ============================================================================
// DTOs
// ============================================================================

// CandidateDTO es el perfil expuesto a la UI de scheduling. El foto
// se resuelve de PhotoKey a una URL firmada; nunca se expone la key
type CandidateDTO struct {
	ID                  kernel.CandidateID `json:"id"`
	Name                string             `json:"name"`
	MatchScore          int                `json:"match_score"`
	Skills              []string           `json:"skills"`
	ProfessionalSkills  []string           `json:"professional_skills"`
	Languages           []Language         `json:"languages"`
	AvailabilitySummary string             `json:"availability_summary"`
	WorkType            string             `json:"work_type,omitempty"`
	EmploymentType      string             `json:"employment_type,omitempty"`
	PhotoURL            *string            `json:"photo_url,omitempty"`
}

// ToDTO convierte la entidad a DTO; photoURL es opcional
func (c *Candidate) ToDTO(photoURL *string) CandidateDTO {
	return CandidateDTO{
		ID:                  c.ID,
		Name:                c.Name,
		MatchScore:          c.MatchScore,
		Skills:              c.Skills,
		ProfessionalSkills:  c.ProfessionalSkills,
		Languages:           c.Languages,
		AvailabilitySummary: c.AvailabilitySummary,
		WorkType:            c.WorkType,
		EmploymentType:      c.EmploymentType,
		PhotoURL:            photoURL,
	}
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("CANDIDATE")

var (
	CodeCandidateNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Candidato no encontrado")
)

func ErrCandidateNotFound() *errx.Error {
	return ErrRegistry.New(CodeCandidateNotFound)
}

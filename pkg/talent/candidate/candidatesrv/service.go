package candidatesrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/fsx"
	"github.com/Abraxas-365/hireflow/pkg/kernel"
	"github.com/Abraxas-365/hireflow/pkg/logx"
	"github.com/Abraxas-365/hireflow/pkg/ptrx"
	"github.com/Abraxas-365/hireflow/pkg/talent/candidate"
)

// CandidateService expone el registro de candidatos con el asset de
// foto resuelto a una URL firmada, en lugar del lookup por nombre de
// la UI anterior
type CandidateService struct {
	repo         candidate.Repository
	files        fsx.FileSystem
	signedURLTTL time.Duration
}

// NewCandidateService crea una nueva instancia del servicio de candidatos
func NewCandidateService(repo candidate.Repository, files fsx.FileSystem, signedURLTTL time.Duration) *CandidateService {
	return &CandidateService{
		repo:         repo,
		files:        files,
		signedURLTTL: signedURLTTL,
	}
}

// GetCandidate retorna el perfil del candidato con la foto resuelta.
// Si la resolución del asset falla, el perfil sale sin foto: el lookup
// de assets nunca bloquea el scheduling
func (s *CandidateService) GetCandidate(ctx context.Context, id kernel.CandidateID) (*candidate.CandidateDTO, error) {
	c, err := s.repo.GetCandidate(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := c.ToDTO(s.resolvePhoto(ctx, c))
	return &dto, nil
}

// ListCandidates retorna todos los candidatos con fotos resueltas
func (s *CandidateService) ListCandidates(ctx context.Context) ([]candidate.CandidateDTO, error) {
	candidates, err := s.repo.ListCandidates(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]candidate.CandidateDTO, 0, len(candidates))
	for _, c := range candidates {
		dtos = append(dtos, c.ToDTO(s.resolvePhoto(ctx, c)))
	}
	return dtos, nil
}

func (s *CandidateService) resolvePhoto(ctx context.Context, c *candidate.Candidate) *string {
	if c.PhotoKey == nil || *c.PhotoKey == "" || s.files == nil {
		return nil
	}

	url, err := s.files.SignedURL(ctx, *c.PhotoKey, s.signedURLTTL)
	if err != nil {
		logx.WithFields(logx.Fields{
			"candidate_id": c.ID.String(),
			"photo_key":    *c.PhotoKey,
		}).Warnf("Failed to sign candidate photo URL: %v", err)
		return nil
	}
	return ptrx.String(url)
}

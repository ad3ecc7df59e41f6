package insight

import (
	"context"
	"fmt"
	"strings"

	"github.com/Abraxas-365/hireflow/pkg/ai/llm"
	"github.com/Abraxas-365/hireflow/pkg/scheduling/proposal"
	"github.com/Abraxas-365/hireflow/pkg/talent/candidate"
)

const systemPrompt = `You are an assistant for a recruiting team. Summarize
interview feedback into a short digest (two sentences maximum) that a hiring
manager can read at a glance. Mention the candidate's fit relative to their
match profile when relevant. Do not invent facts beyond the feedback.`

// Service genera resúmenes de feedback de entrevistas vía LLM
type Service struct {
	client *llm.Client
	model  string
}

// NewService crea un nuevo servicio de insights con el modelo dado
func NewService(client *llm.Client, model string) *Service {
	return &Service{
		client: client,
		model:  model,
	}
}

// FeedbackDigest produce el resumen corto del feedback contra el
// perfil del candidato
func (s *Service) FeedbackDigest(ctx context.Context, p *proposal.Proposal, c *candidate.Candidate) (string, error) {
	if p.Feedback == nil || *p.Feedback == "" {
		return "", fmt.Errorf("proposal has no feedback to digest")
	}

	prompt := fmt.Sprintf(
		"Candidate: %s (match score %d%%)\nKey skills: %s\nInterview feedback:\n%s",
		c.Name, c.MatchScore, strings.Join(c.Skills, ", "), *p.Feedback,
	)

	response, err := s.client.Chat(ctx,
		[]llm.Message{
			llm.NewSystemMessage(systemPrompt),
			llm.NewUserMessage(prompt),
		},
		llm.WithModel(s.model),
		llm.WithTemperature(0.3),
		llm.WithMaxCompletionTokens(160),
	)
	if err != nil {
		return "", err
	}

	digest := strings.TrimSpace(response.Message.Content)
	if digest == "" {
		return "", fmt.Errorf("model returned an empty digest")
	}
	return digest, nil
}

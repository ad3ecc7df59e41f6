package kernel

// Typed IDs compartidos entre módulos. Evitan pasar strings crudos
// entre servicios (un CandidateID nunca se confunde con un ProposalID).

// ProposalID identifica una propuesta de entrevista
type ProposalID string

func NewProposalID(s string) ProposalID { return ProposalID(s) }
func (id ProposalID) String() string    { return string(id) }
func (id ProposalID) IsEmpty() bool     { return id == "" }

// CandidateID identifica un candidato (entidad externa, no owned)
type CandidateID string

func NewCandidateID(s string) CandidateID { return CandidateID(s) }
func (id CandidateID) String() string     { return string(id) }
func (id CandidateID) IsEmpty() bool      { return id == "" }

// InterviewerID identifica al entrevistador asignado (owner de agenda)
type InterviewerID string

func NewInterviewerID(s string) InterviewerID { return InterviewerID(s) }
func (id InterviewerID) String() string       { return string(id) }
func (id InterviewerID) IsEmpty() bool        { return id == "" }

// RecruiterID identifica al recruiter que inicia la propuesta
type RecruiterID string

func NewRecruiterID(s string) RecruiterID { return RecruiterID(s) }
func (id RecruiterID) String() string     { return string(id) }
func (id RecruiterID) IsEmpty() bool      { return id == "" }

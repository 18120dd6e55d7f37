package models

import "time"

// ApplicationStatus — статус заявки целиком.
type ApplicationStatus string

const (
	ApplicationActive   ApplicationStatus = "active"
	ApplicationRejected ApplicationStatus = "rejected"
)

// SubmissionStatus — статус сабмита одной фазы.
type SubmissionStatus string

const (
	SubmissionPending           SubmissionStatus = "pending"
	SubmissionAccepted          SubmissionStatus = "accepted"
	SubmissionRejected          SubmissionStatus = "rejected"
	SubmissionReuploadRequested SubmissionStatus = "reupload_requested"
)

// MaxReuploads — жёсткий предел запросов на перезагрузку для одного
// сабмита фазы.
const MaxReuploads = 2

// PhaseSubmission — текущий сабмит заявки по одной фазе. История
// прежнего контента не хранится, только счётчик перезагрузок.
type PhaseSubmission struct {
	ID            int              `json:"id" db:"id"`
	ApplicationID int              `json:"application_id" db:"application_id"`
	PhaseID       int              `json:"phase_id" db:"phase_id"`
	ContentURL    string           `json:"content_url" db:"content_url"`
	Status        SubmissionStatus `json:"status" db:"status"`
	Score         *float64         `json:"score,omitempty" db:"score"`
	Remarks       *string          `json:"remarks,omitempty" db:"remarks"`
	ReuploadCount int              `json:"reupload_count" db:"reupload_count"`
	IsReuploaded  bool             `json:"is_reuploaded" db:"is_reuploaded"`
	SubmittedAt   time.Time        `json:"submitted_at" db:"submitted_at"`
}

// TeamMember — участник команды (для командных заявок).
type TeamMember struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Application struct {
	ID               int               `json:"id" db:"id"`
	HackathonID      int               `json:"hackathon_id" db:"hackathon_id"`
	ApplicantID      int               `json:"applicant_id" db:"applicant_id"`
	IsTeam           bool              `json:"is_team" db:"is_team"`
	TeamName         *string           `json:"team_name,omitempty" db:"team_name"`
	TeamSize         int               `json:"team_size" db:"team_size"`
	Status           ApplicationStatus `json:"status" db:"status"`
	RejectionMessage *string           `json:"rejection_message,omitempty" db:"rejection_message"`
	CurrentPhaseID   *int              `json:"current_phase_id,omitempty" db:"current_phase_id"`
	TotalScore       float64           `json:"total_score" db:"total_score"`
	FinalRank        *int              `json:"final_rank,omitempty" db:"final_rank"`

	// Кастомизация сертификата, применяется при финализации.
	CertTemplateID   *string `json:"cert_template_id,omitempty" db:"cert_template_id"`
	CertLeftLogoURL  *string `json:"cert_left_logo_url,omitempty" db:"cert_left_logo_url"`
	CertRightLogoURL *string `json:"cert_right_logo_url,omitempty" db:"cert_right_logo_url"`
	CertSignatureURL *string `json:"cert_signature_url,omitempty" db:"cert_signature_url"`
	CertMessage      *string `json:"cert_message,omitempty" db:"cert_message"`

	// Витрина для топ-3.
	ShowcaseContent *string `json:"showcase_content,omitempty" db:"showcase_content"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	TeamMembers     []TeamMember      `json:"team_members,omitempty" db:"-"`
	Submissions     []PhaseSubmission `json:"submissions,omitempty" db:"-"`
	CertificateURLs map[string]string `json:"certificate_urls,omitempty" db:"-"`

	Hackathon *Hackathon `json:"hackathon,omitempty" db:"-"`
	Applicant *User      `json:"applicant,omitempty" db:"-"`
}

// SubmissionForPhase возвращает текущий сабмит по фазе, если он есть.
func (a *Application) SubmissionForPhase(phaseID int) (*PhaseSubmission, bool) {
	for i := range a.Submissions {
		if a.Submissions[i].PhaseID == phaseID {
			return &a.Submissions[i], true
		}
	}
	return nil, false
}

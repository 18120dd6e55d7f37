package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Hariom00027/hackathon-system/models"
	"github.com/lib/pq"
)

var (
	ErrApplicationNotFound     = errors.New("application not found")
	ErrApplicationConflict     = errors.New("application already exists for this hackathon and applicant")
	ErrApplicationInvalidRef   = errors.New("invalid hackathon or applicant reference")
	ErrPhaseSubmissionNotFound = errors.New("phase submission not found")
)

type ApplicationRepository interface {
	Create(ctx context.Context, application *models.Application) error
	GetByID(ctx context.Context, id int) (*models.Application, error)
	ListByHackathon(ctx context.Context, hackathonID int) ([]*models.Application, error)
	ListByApplicant(ctx context.Context, applicantID int) ([]*models.Application, error)
	FindByHackathonAndApplicant(ctx context.Context, hackathonID, applicantID int) (*models.Application, error)
	Update(ctx context.Context, application *models.Application) error
	UpsertSubmission(ctx context.Context, submission *models.PhaseSubmission) error
	Delete(ctx context.Context, id int) error
}

type postgresApplicationRepository struct {
	db *sql.DB
}

func NewPostgresApplicationRepository(db *sql.DB) ApplicationRepository {
	return &postgresApplicationRepository{db: db}
}

const applicationColumns = `
	id, hackathon_id, applicant_id, is_team, team_name, team_size,
	status, rejection_message, current_phase_id, total_score, final_rank,
	cert_template_id, cert_left_logo_url, cert_right_logo_url,
	cert_signature_url, cert_message, showcase_content, created_at`

func (r *postgresApplicationRepository) Create(ctx context.Context, a *models.Application) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO applications (
			hackathon_id, applicant_id, is_team, team_name, team_size, status
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, total_score, created_at`

	err = tx.QueryRowContext(ctx, query,
		a.HackathonID, a.ApplicantID, a.IsTeam, a.TeamName, a.TeamSize, a.Status,
	).Scan(&a.ID, &a.TotalScore, &a.CreatedAt)
	if err != nil {
		return r.handleApplicationError(err)
	}

	for _, m := range a.TeamMembers {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO application_team_members (application_id, name, email)
			VALUES ($1, $2, $3)`,
			a.ID, m.Name, m.Email)
		if err != nil {
			return fmt.Errorf("failed to insert team member: %w", err)
		}
	}

	return tx.Commit()
}

func (r *postgresApplicationRepository) GetByID(ctx context.Context, id int) (*models.Application, error) {
	query := `SELECT` + applicationColumns + ` FROM applications WHERE id = $1`

	a, err := r.scanApplication(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.populate(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *postgresApplicationRepository) ListByHackathon(ctx context.Context, hackathonID int) ([]*models.Application, error) {
	query := `SELECT` + applicationColumns + ` FROM applications WHERE hackathon_id = $1 ORDER BY created_at, id`
	return r.list(ctx, query, hackathonID)
}

func (r *postgresApplicationRepository) ListByApplicant(ctx context.Context, applicantID int) ([]*models.Application, error) {
	query := `SELECT` + applicationColumns + ` FROM applications WHERE applicant_id = $1 ORDER BY created_at, id`
	return r.list(ctx, query, applicantID)
}

func (r *postgresApplicationRepository) FindByHackathonAndApplicant(ctx context.Context, hackathonID, applicantID int) (*models.Application, error) {
	query := `SELECT` + applicationColumns + ` FROM applications WHERE hackathon_id = $1 AND applicant_id = $2`

	a, err := r.scanApplication(r.db.QueryRowContext(ctx, query, hackathonID, applicantID))
	if err != nil {
		return nil, err
	}
	if err := r.populate(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *postgresApplicationRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Application, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []*models.Application
	for rows.Next() {
		a, err := r.scanApplicationRows(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, a := range apps {
		if err := r.populate(ctx, a); err != nil {
			return nil, err
		}
	}
	return apps, nil
}

func (r *postgresApplicationRepository) scanApplication(row *sql.Row) (*models.Application, error) {
	a := &models.Application{}
	err := row.Scan(
		&a.ID, &a.HackathonID, &a.ApplicantID, &a.IsTeam, &a.TeamName, &a.TeamSize,
		&a.Status, &a.RejectionMessage, &a.CurrentPhaseID, &a.TotalScore, &a.FinalRank,
		&a.CertTemplateID, &a.CertLeftLogoURL, &a.CertRightLogoURL,
		&a.CertSignatureURL, &a.CertMessage, &a.ShowcaseContent, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *postgresApplicationRepository) scanApplicationRows(rows *sql.Rows) (*models.Application, error) {
	a := &models.Application{}
	err := rows.Scan(
		&a.ID, &a.HackathonID, &a.ApplicantID, &a.IsTeam, &a.TeamName, &a.TeamSize,
		&a.Status, &a.RejectionMessage, &a.CurrentPhaseID, &a.TotalScore, &a.FinalRank,
		&a.CertTemplateID, &a.CertLeftLogoURL, &a.CertRightLogoURL,
		&a.CertSignatureURL, &a.CertMessage, &a.ShowcaseContent, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// populate подгружает сабмиты и участников команды.
func (r *postgresApplicationRepository) populate(ctx context.Context, a *models.Application) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, application_id, phase_id, content_url, status, score,
		       remarks, reupload_count, is_reuploaded, submitted_at
		FROM phase_submissions
		WHERE application_id = $1
		ORDER BY phase_id`, a.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	a.Submissions = nil
	for rows.Next() {
		var s models.PhaseSubmission
		err := rows.Scan(
			&s.ID, &s.ApplicationID, &s.PhaseID, &s.ContentURL, &s.Status,
			&s.Score, &s.Remarks, &s.ReuploadCount, &s.IsReuploaded, &s.SubmittedAt,
		)
		if err != nil {
			return err
		}
		a.Submissions = append(a.Submissions, s)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	memberRows, err := r.db.QueryContext(ctx, `
		SELECT name, email
		FROM application_team_members
		WHERE application_id = $1
		ORDER BY id`, a.ID)
	if err != nil {
		return err
	}
	defer memberRows.Close()

	a.TeamMembers = nil
	for memberRows.Next() {
		var m models.TeamMember
		if err := memberRows.Scan(&m.Name, &m.Email); err != nil {
			return err
		}
		a.TeamMembers = append(a.TeamMembers, m)
	}
	return memberRows.Err()
}

func (r *postgresApplicationRepository) Update(ctx context.Context, a *models.Application) error {
	query := `
		UPDATE applications
		SET status = $1, rejection_message = $2, current_phase_id = $3,
		    total_score = $4, final_rank = $5,
		    cert_template_id = $6, cert_left_logo_url = $7, cert_right_logo_url = $8,
		    cert_signature_url = $9, cert_message = $10, showcase_content = $11
		WHERE id = $12`

	result, err := r.db.ExecContext(ctx, query,
		a.Status, a.RejectionMessage, a.CurrentPhaseID,
		a.TotalScore, a.FinalRank,
		a.CertTemplateID, a.CertLeftLogoURL, a.CertRightLogoURL,
		a.CertSignatureURL, a.CertMessage, a.ShowcaseContent,
		a.ID,
	)
	if err != nil {
		return r.handleApplicationError(err)
	}
	return checkAffectedRows(result, ErrApplicationNotFound)
}

// UpsertSubmission перезаписывает текущий сабмит фазы: на фазу всегда
// ровно один актуальный сабмит.
func (r *postgresApplicationRepository) UpsertSubmission(ctx context.Context, s *models.PhaseSubmission) error {
	query := `
		INSERT INTO phase_submissions (
			application_id, phase_id, content_url, status, score,
			remarks, reupload_count, is_reuploaded, submitted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (application_id, phase_id) DO UPDATE
		SET content_url = EXCLUDED.content_url,
		    status = EXCLUDED.status,
		    score = EXCLUDED.score,
		    remarks = EXCLUDED.remarks,
		    reupload_count = EXCLUDED.reupload_count,
		    is_reuploaded = EXCLUDED.is_reuploaded,
		    submitted_at = EXCLUDED.submitted_at
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		s.ApplicationID, s.PhaseID, s.ContentURL, s.Status, s.Score,
		s.Remarks, s.ReuploadCount, s.IsReuploaded, s.SubmittedAt,
	).Scan(&s.ID)
	if err != nil {
		return r.handleApplicationError(err)
	}
	return nil
}

func (r *postgresApplicationRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrApplicationNotFound)
}

func (r *postgresApplicationRepository) handleApplicationError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505": // unique_violation
			if pqErr.Constraint == "applications_hackathon_id_applicant_id_key" {
				return ErrApplicationConflict
			}
		case "23503": // foreign_key_violation
			return ErrApplicationInvalidRef
		}
	}
	return err
}

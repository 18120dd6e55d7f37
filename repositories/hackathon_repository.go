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
	ErrHackathonNotFound        = errors.New("hackathon not found")
	ErrHackathonTitleConflict   = errors.New("hackathon title conflict for this industry user")
	ErrHackathonInvalidIndustry = errors.New("invalid industry user reference")
	ErrPhaseNotFound            = errors.New("phase not found")
)

type ListHackathonsFilter struct {
	IndustryID       *int
	ResultsPublished *bool
	Limit            int
	Offset           int
}

type HackathonRepository interface {
	Create(ctx context.Context, hackathon *models.Hackathon) error
	GetByID(ctx context.Context, id int) (*models.Hackathon, error)
	List(ctx context.Context, filter ListHackathonsFilter) ([]models.Hackathon, error)
	Update(ctx context.Context, hackathon *models.Hackathon) error
	ReplacePhases(ctx context.Context, hackathonID int, phases []models.Phase) ([]models.Phase, error)
	SetResultsPublished(ctx context.Context, exec SQLExecutor, id int, published bool) error
	Delete(ctx context.Context, id int) error
}

type postgresHackathonRepository struct {
	db *sql.DB
}

func NewPostgresHackathonRepository(db *sql.DB) HackathonRepository {
	return &postgresHackathonRepository{db: db}
}

func (r *postgresHackathonRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresHackathonRepository) Create(ctx context.Context, h *models.Hackathon) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO hackathons (title, description, industry_id, end_date, results_published)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err = tx.QueryRowContext(ctx, query,
		h.Title, h.Description, h.IndustryID, h.EndDate, h.ResultsPublished,
	).Scan(&h.ID, &h.CreatedAt)
	if err != nil {
		return r.handleHackathonError(err)
	}

	for i := range h.Phases {
		h.Phases[i].HackathonID = h.ID
		if h.Phases[i].Position == 0 {
			h.Phases[i].Position = i + 1
		}
		err = tx.QueryRowContext(ctx, `
			INSERT INTO phases (hackathon_id, position, name, deadline)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			h.ID, h.Phases[i].Position, h.Phases[i].Name, h.Phases[i].Deadline,
		).Scan(&h.Phases[i].ID)
		if err != nil {
			return fmt.Errorf("failed to insert phase %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

func (r *postgresHackathonRepository) GetByID(ctx context.Context, id int) (*models.Hackathon, error) {
	query := `
		SELECT id, title, description, industry_id, end_date, results_published, created_at
		FROM hackathons
		WHERE id = $1`

	h := &models.Hackathon{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&h.ID, &h.Title, &h.Description, &h.IndustryID,
		&h.EndDate, &h.ResultsPublished, &h.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHackathonNotFound
		}
		return nil, err
	}

	phases, err := r.loadPhases(ctx, id)
	if err != nil {
		return nil, err
	}
	h.Phases = phases
	return h, nil
}

func (r *postgresHackathonRepository) loadPhases(ctx context.Context, hackathonID int) ([]models.Phase, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, hackathon_id, position, name, deadline
		FROM phases
		WHERE hackathon_id = $1
		ORDER BY position`, hackathonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var phases []models.Phase
	for rows.Next() {
		var p models.Phase
		if err := rows.Scan(&p.ID, &p.HackathonID, &p.Position, &p.Name, &p.Deadline); err != nil {
			return nil, err
		}
		phases = append(phases, p)
	}
	return phases, rows.Err()
}

func (r *postgresHackathonRepository) List(ctx context.Context, filter ListHackathonsFilter) ([]models.Hackathon, error) {
	query := `
		SELECT id, title, description, industry_id, end_date, results_published, created_at
		FROM hackathons
		WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.IndustryID != nil {
		query += fmt.Sprintf(" AND industry_id = $%d", argID)
		args = append(args, *filter.IndustryID)
		argID++
	}
	if filter.ResultsPublished != nil {
		query += fmt.Sprintf(" AND results_published = $%d", argID)
		args = append(args, *filter.ResultsPublished)
		argID++
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hackathons []models.Hackathon
	for rows.Next() {
		var h models.Hackathon
		err := rows.Scan(
			&h.ID, &h.Title, &h.Description, &h.IndustryID,
			&h.EndDate, &h.ResultsPublished, &h.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		hackathons = append(hackathons, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range hackathons {
		phases, err := r.loadPhases(ctx, hackathons[i].ID)
		if err != nil {
			return nil, err
		}
		hackathons[i].Phases = phases
	}
	return hackathons, nil
}

func (r *postgresHackathonRepository) Update(ctx context.Context, h *models.Hackathon) error {
	// results_published монотонен: UPDATE не может его сбросить.
	query := `
		UPDATE hackathons
		SET title = $1, description = $2, end_date = $3,
		    results_published = results_published OR $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query,
		h.Title, h.Description, h.EndDate, h.ResultsPublished, h.ID,
	)
	if err != nil {
		return r.handleHackathonError(err)
	}
	return checkAffectedRows(result, ErrHackathonNotFound)
}

func (r *postgresHackathonRepository) ReplacePhases(ctx context.Context, hackathonID int, phases []models.Phase) ([]models.Phase, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM phases WHERE hackathon_id = $1`, hackathonID); err != nil {
		return nil, err
	}

	out := make([]models.Phase, len(phases))
	copy(out, phases)
	for i := range out {
		out[i].HackathonID = hackathonID
		if out[i].Position == 0 {
			out[i].Position = i + 1
		}
		err = tx.QueryRowContext(ctx, `
			INSERT INTO phases (hackathon_id, position, name, deadline)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			hackathonID, out[i].Position, out[i].Name, out[i].Deadline,
		).Scan(&out[i].ID)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postgresHackathonRepository) SetResultsPublished(ctx context.Context, exec SQLExecutor, id int, published bool) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `
		UPDATE hackathons
		SET results_published = results_published OR $1
		WHERE id = $2`, published, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrHackathonNotFound)
}

func (r *postgresHackathonRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM hackathons WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrHackathonNotFound)
}

func (r *postgresHackathonRepository) handleHackathonError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505": // unique_violation
			if pqErr.Constraint == "hackathons_industry_id_title_key" {
				return ErrHackathonTitleConflict
			}
		case "23503": // foreign_key_violation
			if pqErr.Constraint == "hackathons_industry_id_fkey" {
				return ErrHackathonInvalidIndustry
			}
		}
	}
	return err
}

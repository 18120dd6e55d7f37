package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Hariom00027/hackathon-system/models"
	"github.com/Hariom00027/hackathon-system/repositories"
)

// ReviewInput — решение ревьюера по сабмиту фазы.
type ReviewInput struct {
	Status  models.SubmissionStatus `json:"status"`
	Score   *float64                `json:"score"`
	Remarks *string                 `json:"remarks"`
}

// ApplicationService владеет жизненным циклом заявки: подача, сабмиты
// по фазам, ревью, перезагрузки, отклонение, ранг, витрина.
type ApplicationService interface {
	Apply(ctx context.Context, identity *models.Identity, hackathonID int, input ApplyInput) (*models.Application, error)
	GetMyApplications(ctx context.Context, identity *models.Identity) ([]*models.Application, error)
	GetByHackathon(ctx context.Context, identity *models.Identity, hackathonID int) ([]*models.Application, error)
	GetDetails(ctx context.Context, identity *models.Identity, applicationID int) (*models.Application, error)
	SubmitPhase(ctx context.Context, identity *models.Identity, applicationID, phaseID int, contentURL string) (*models.Application, error)
	ReviewPhase(ctx context.Context, identity *models.Identity, applicationID, phaseID int, input ReviewInput) (*models.Application, error)
	RequestReupload(ctx context.Context, identity *models.Identity, applicationID, phaseID int, message string) (*models.Application, error)
	Reject(ctx context.Context, identity *models.Identity, applicationID int, message string) (*models.Application, error)
	AssignRank(ctx context.Context, identity *models.Identity, applicationID, rank int) (*models.Application, error)
	SetTotalScore(ctx context.Context, identity *models.Identity, applicationID int, score float64) (*models.Application, error)
	PublishShowcase(ctx context.Context, identity *models.Identity, applicationID int, content string) (*models.Application, error)
	Delete(ctx context.Context, identity *models.Identity, applicationID int) error
}

type applicationService struct {
	appRepo       repositories.ApplicationRepository
	hackathonRepo repositories.HackathonRepository
	userRepo      repositories.UserRepository
	gate          *EligibilityGate
	deadlines     *DeadlineParser
	notifier      Notifier
	logger        *slog.Logger
	resultBaseURL string
	now           func() time.Time
}

func NewApplicationService(
	appRepo repositories.ApplicationRepository,
	hackathonRepo repositories.HackathonRepository,
	userRepo repositories.UserRepository,
	gate *EligibilityGate,
	deadlines *DeadlineParser,
	notifier Notifier,
	logger *slog.Logger,
	resultBaseURL string,
) ApplicationService {
	return &applicationService{
		appRepo:       appRepo,
		hackathonRepo: hackathonRepo,
		userRepo:      userRepo,
		gate:          gate,
		deadlines:     deadlines,
		notifier:      notifier,
		logger:        logger,
		resultBaseURL: resultBaseURL,
		now:           time.Now,
	}
}

func (s *applicationService) Apply(ctx context.Context, identity *models.Identity, hackathonID int, input ApplyInput) (*models.Application, error) {
	if err := requireApplicant(identity); err != nil {
		return nil, err
	}

	hackathon, err := s.getHackathon(ctx, hackathonID)
	if err != nil {
		return nil, err
	}

	var prior []*models.Application
	existing, err := s.appRepo.FindByHackathonAndApplicant(ctx, hackathonID, identity.ID)
	if err != nil && !errors.Is(err, repositories.ErrApplicationNotFound) {
		return nil, fmt.Errorf("failed to check prior applications: %w", err)
	}
	if existing != nil {
		prior = append(prior, existing)
	}

	if err := s.gate.CheckApply(hackathon, prior, &input, s.now()); err != nil {
		s.logger.InfoContext(ctx, "application denied",
			slog.Int("hackathon_id", hackathonID),
			slog.Int("applicant_id", identity.ID),
			slog.String("reason", err.Error()))
		return nil, err
	}

	app := &models.Application{
		HackathonID: hackathonID,
		ApplicantID: identity.ID,
		IsTeam:      input.IsTeam,
		TeamSize:    input.TeamSize,
		Status:      models.ApplicationActive,
		TeamMembers: input.TeamMembers,
	}
	if input.IsTeam {
		app.TeamName = &input.TeamName
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		if errors.Is(err, repositories.ErrApplicationConflict) {
			return nil, ErrAlreadyApplied
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	s.logger.InfoContext(ctx, "application created",
		slog.Int("application_id", app.ID),
		slog.Int("hackathon_id", hackathonID),
		slog.Int("applicant_id", identity.ID),
		slog.Bool("is_team", app.IsTeam))

	app.Hackathon = hackathon
	s.notifyApplicant(ctx, app, hackathon, ApplicationEvent{
		Type:    EventApplicationCreated,
		Status:  string(app.Status),
		Message: "Your application has been received.",
	})
	return app, nil
}

func (s *applicationService) GetMyApplications(ctx context.Context, identity *models.Identity) ([]*models.Application, error) {
	if err := requireApplicant(identity); err != nil {
		return nil, err
	}
	apps, err := s.appRepo.ListByApplicant(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

func (s *applicationService) GetByHackathon(ctx context.Context, identity *models.Identity, hackathonID int) ([]*models.Application, error) {
	hackathon, err := s.getHackathon(ctx, hackathonID)
	if err != nil {
		return nil, err
	}
	if err := requireHackathonOwner(identity, hackathon); err != nil {
		return nil, err
	}
	apps, err := s.appRepo.ListByHackathon(ctx, hackathonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

func (s *applicationService) GetDetails(ctx context.Context, identity *models.Identity, applicationID int) (*models.Application, error) {
	app, hackathon, err := s.getApplicationWithHackathon(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if err := requireApplicationAccess(identity, app, hackathon); err != nil {
		return nil, err
	}
	app.Hackathon = hackathon
	app.CertificateURLs = CertificateURLs(app, s.resultBaseURL)
	return app, nil
}

func (s *applicationService) SubmitPhase(ctx context.Context, identity *models.Identity, applicationID, phaseID int, contentURL string) (*models.Application, error) {
	app, hackathon, err := s.getApplicationWithHackathon(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if err := requireApplicationOwner(identity, app); err != nil {
		return nil, err
	}

	// Строгое разрешение фазы: неизвестный идентификатор — NotFound,
	// позиционных догадок нет.
	phase, ok := hackathon.PhaseByID(phaseID)
	if !ok {
		return nil, ErrPhaseNotFound
	}

	if app.Status == models.ApplicationRejected {
		return nil, ErrApplicationRejected
	}

	now := s.now()
	if s.deadlines.Passed(phase.Deadline, now) {
		return nil, fmt.Errorf("%w: phase %q, deadline %s", ErrPhaseDeadlinePast, phase.Name, derefString(phase.Deadline))
	}

	submission := models.PhaseSubmission{
		ApplicationID: app.ID,
		PhaseID:       phase.ID,
		ContentURL:    contentURL,
		Status:        models.SubmissionPending,
		SubmittedAt:   now,
	}
	if prev, exists := app.SubmissionForPhase(phase.ID); exists {
		// Счётчик перезагрузок переживает перезапись сабмита.
		submission.ReuploadCount = prev.ReuploadCount
		submission.IsReuploaded = prev.Status == models.SubmissionReuploadRequested
	}

	if err := s.appRepo.UpsertSubmission(ctx, &submission); err != nil {
		return nil, fmt.Errorf("failed to store submission: %w", err)
	}

	app.CurrentPhaseID = &phase.ID
	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}

	s.logger.InfoContext(ctx, "phase submitted",
		slog.Int("application_id", app.ID),
		slog.Int("phase_id", phase.ID),
		slog.Bool("is_reupload", submission.IsReuploaded),
		slog.Int("reupload_count", submission.ReuploadCount))

	s.replaceSubmission(app, submission)
	app.Hackathon = hackathon
	s.notifyApplicant(ctx, app, hackathon, ApplicationEvent{
		Type:    EventPhaseSubmitted,
		PhaseID: &phase.ID,
		Status:  string(submission.Status),
		Message: fmt.Sprintf("Submission received for phase %q.", phase.Name),
	})
	return app, nil
}

func (s *applicationService) ReviewPhase(ctx context.Context, identity *models.Identity, applicationID, phaseID int, input ReviewInput) (*models.Application, error) {
	app, hackathon, err := s.getApplicationWithHackathon(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if err := requireHackathonOwner(identity, hackathon); err != nil {
		return nil, err
	}
	if _, ok := hackathon.PhaseByID(phaseID); !ok {
		return nil, ErrPhaseNotFound
	}

	if input.Status != models.SubmissionAccepted && input.Status != models.SubmissionRejected {
		return nil, ErrInvalidReviewStatus
	}

	submission, exists := app.SubmissionForPhase(phaseID)
	if !exists {
		return nil, ErrSubmissionMissing
	}

	// Заявку посреди перезагрузки принять нельзя.
	if submission.Status == models.SubmissionReuploadRequested && input.Status == models.SubmissionAccepted {
		return nil, ErrAcceptDuringReupload
	}

	submission.Status = input.Status
	if input.Score != nil {
		submission.Score = input.Score
	}
	if input.Remarks != nil {
		submission.Remarks = input.Remarks
	}

	if err := s.appRepo.UpsertSubmission(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to store review: %w", err)
	}

	// Отклонение сабмита каскадирует на заявку целиком.
	if input.Status == models.SubmissionRejected {
		app.Status = models.ApplicationRejected
		if input.Remarks != nil && *input.Remarks != "" {
			app.RejectionMessage = input.Remarks
		}
		if err := s.appRepo.Update(ctx, app); err != nil {
			return nil, fmt.Errorf("failed to update application: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "phase reviewed",
		slog.Int("application_id", app.ID),
		slog.Int("phase_id", phaseID),
		slog.String("new_status", string(input.Status)))

	app.Hackathon = hackathon
	s.notifyApplicant(ctx, app, hackathon, ApplicationEvent{
		Type:    EventPhaseReviewed,
		PhaseID: &phaseID,
		Status:  string(input.Status),
		Message: "Your submission has been reviewed.",
		Remarks: derefString(submission.Remarks),
	})
	return app, nil
}

func (s *applicationService) RequestReupload(ctx context.Context, identity *models.Identity, applicationID, phaseID int, message string) (*models.Application, error) {
	app, hackathon, err := s.getApplicationWithHackathon(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if err := requireHackathonOwner(identity, hackathon); err != nil {
		return nil, err
	}
	if _, ok := hackathon.PhaseByID(phaseID); !ok {
		return nil, ErrPhaseNotFound
	}

	submission, exists := app.SubmissionForPhase(phaseID)
	if !exists {
		return nil, ErrSubmissionMissing
	}

	// Жёсткий предел: счётчик не растёт выше MaxReuploads.
	if submission.ReuploadCount >= models.MaxReuploads {
		return nil, ErrReuploadLimitReached
	}

	submission.ReuploadCount++
	submission.Status = models.SubmissionReuploadRequested
	if message != "" {
		submission.Remarks = &message
	}

	if err := s.appRepo.UpsertSubmission(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to store reupload request: %w", err)
	}

	s.logger.InfoContext(ctx, "reupload requested",
		slog.Int("application_id", app.ID),
		slog.Int("phase_id", phaseID),
		slog.Int("reupload_count", submission.ReuploadCount))

	app.Hackathon = hackathon
	s.notifyApplicant(ctx, app, hackathon, ApplicationEvent{
		Type:    EventReuploadRequested,
		PhaseID: &phaseID,
		Status:  string(models.SubmissionReuploadRequested),
		Message: "The reviewers asked you to re-upload your submission.",
		Remarks: message,
	})
	return app, nil
}

func (s *applicationService) Reject(ctx context.Context, identity *models.Identity, applicationID int, message string) (*models.Application, error) {
	app, hackathon, err := s.getApplicationWithHackathon(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if err := requireHackathonOwner(identity, hackathon); err != nil {
		return nil, err
	}

	// Идемпотентно: повторное отклонение лишь перезаписывает сообщение.
	app.Status = models.ApplicationRejected
	if message != "" {
		app.RejectionMessage = &message
	}

	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to reject application: %w", err)
	}

	s.logger.InfoContext(ctx, "application rejected",
		slog.Int("application_id", app.ID),
		slog.Int("hackathon_id", app.HackathonID))

	app.Hackathon = hackathon
	s.notifyApplicant(ctx, app, hackathon, ApplicationEvent{
		Type:    EventApplicationRejected,
		Status:  string(models.ApplicationRejected),
		Message: "Your application has been rejected.",
		Remarks: message,
	})
	return app, nil
}

func (s *applicationService) AssignRank(ctx context.Context, identity *models.Identity, applicationID, rank int) (*models.Application, error) {
	app, hackathon, err := s.getApplicationWithHackathon(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if err := requireHackathonOwner(identity, hackathon); err != nil {
		return nil, err
	}
	if rank <= 0 {
		return nil, ErrInvalidRank
	}

	app.FinalRank = &rank
	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to assign rank: %w", err)
	}

	// Первое присвоение ранга где угодно в хакатоне публикует
	// результаты; флаг монотонный, назад не откатывается.
	if err := s.hackathonRepo.SetResultsPublished(ctx, nil, hackathon.ID, true); err != nil {
		return nil, fmt.Errorf("failed to publish results: %w", err)
	}
	hackathon.ResultsPublished = true

	s.logger.InfoContext(ctx, "final rank assigned",
		slog.Int("application_id", app.ID),
		slog.Int("hackathon_id", hackathon.ID),
		slog.Int("rank", rank))

	app.Hackathon = hackathon
	s.notifyApplicant(ctx, app, hackathon, ApplicationEvent{
		Type:    EventRankAssigned,
		Status:  string(app.Status),
		Message: fmt.Sprintf("You have been ranked #%d.", rank),
	})
	return app, nil
}

func (s *applicationService) SetTotalScore(ctx context.Context, identity *models.Identity, applicationID int, score float64) (*models.Application, error) {
	app, hackathon, err := s.getApplicationWithHackathon(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if err := requireHackathonOwner(identity, hackathon); err != nil {
		return nil, err
	}

	app.TotalScore = score
	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to set total score: %w", err)
	}
	app.Hackathon = hackathon
	return app, nil
}

func (s *applicationService) PublishShowcase(ctx context.Context, identity *models.Identity, applicationID int, content string) (*models.Application, error) {
	app, hackathon, err := s.getApplicationWithHackathon(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if err := requireHackathonOwner(identity, hackathon); err != nil {
		return nil, err
	}

	if app.FinalRank == nil || *app.FinalRank < 1 || *app.FinalRank > 3 {
		return nil, ErrShowcaseRankRequired
	}

	app.ShowcaseContent = &content
	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to publish showcase: %w", err)
	}

	app.Hackathon = hackathon
	s.notifyApplicant(ctx, app, hackathon, ApplicationEvent{
		Type:    EventShowcasePublished,
		Status:  string(app.Status),
		Message: "Your project has been published to the showcase.",
	})
	return app, nil
}

func (s *applicationService) Delete(ctx context.Context, identity *models.Identity, applicationID int) error {
	app, hackathon, err := s.getApplicationWithHackathon(ctx, applicationID)
	if err != nil {
		return err
	}
	if err := requireHackathonOwner(identity, hackathon); err != nil {
		return err
	}
	if err := s.appRepo.Delete(ctx, app.ID); err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return ErrApplicationNotFound
		}
		return fmt.Errorf("failed to delete application: %w", err)
	}
	return nil
}

func (s *applicationService) getHackathon(ctx context.Context, hackathonID int) (*models.Hackathon, error) {
	hackathon, err := s.hackathonRepo.GetByID(ctx, hackathonID)
	if err != nil {
		if errors.Is(err, repositories.ErrHackathonNotFound) {
			return nil, ErrHackathonNotFound
		}
		return nil, fmt.Errorf("failed to load hackathon: %w", err)
	}
	return hackathon, nil
}

func (s *applicationService) getApplicationWithHackathon(ctx context.Context, applicationID int) (*models.Application, *models.Hackathon, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, nil, ErrApplicationNotFound
		}
		return nil, nil, fmt.Errorf("failed to load application: %w", err)
	}
	hackathon, err := s.getHackathon(ctx, app.HackathonID)
	if err != nil {
		return nil, nil, err
	}
	return app, hackathon, nil
}

// replaceSubmission обновляет in-memory срез сабмитов заявки.
func (s *applicationService) replaceSubmission(app *models.Application, submission models.PhaseSubmission) {
	for i := range app.Submissions {
		if app.Submissions[i].PhaseID == submission.PhaseID {
			app.Submissions[i] = submission
			return
		}
	}
	app.Submissions = append(app.Submissions, submission)
}

func (s *applicationService) notifyApplicant(ctx context.Context, app *models.Application, hackathon *models.Hackathon, event ApplicationEvent) {
	if s.notifier == nil {
		return
	}
	event.HackathonID = hackathon.ID
	event.HackathonTitle = hackathon.Title
	event.ApplicationID = app.ID

	applicant, err := s.userRepo.GetByID(ctx, app.ApplicantID)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to resolve applicant for notification",
			slog.Int("applicant_id", app.ApplicantID),
			slog.Any("error", err))
	} else {
		event.RecipientName = applicant.DisplayName()
		event.RecipientEmail = applicant.Email
	}

	s.notifier.Notify(ctx, event)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/Hariom00027/hackathon-system/models"
	"github.com/Hariom00027/hackathon-system/repositories"
	"golang.org/x/sync/errgroup"
)

// CertificateConfig — кастомизация сертификатов, применяемая при
// финализации ко всем заявкам хакатона. nil-поле оставляет текущее
// значение; TemplateID применяется только непустым, остальные поля
// применяются и пустой строкой.
type CertificateConfig struct {
	TemplateID   *string `json:"template_id"`
	LeftLogoURL  *string `json:"left_logo_url"`
	RightLogoURL *string `json:"right_logo_url"`
	SignatureURL *string `json:"signature_url"`
	Message      *string `json:"message"`
}

// RankingService агрегирует баллы фаз и строит порядок результатов.
// Явный финальный ранг никогда не выводится из баллов.
type RankingService interface {
	Finalize(ctx context.Context, identity *models.Identity, hackathonID int, cfg CertificateConfig) ([]*models.Application, error)
	HackathonResults(ctx context.Context, hackathonID int) (*models.Hackathon, []*models.Application, error)
	MyResult(ctx context.Context, identity *models.Identity, hackathonID int) (*models.Application, error)
}

type rankingService struct {
	appRepo       repositories.ApplicationRepository
	hackathonRepo repositories.HackathonRepository
	notifier      Notifier
	logger        *slog.Logger
	resultBaseURL string
}

func NewRankingService(
	appRepo repositories.ApplicationRepository,
	hackathonRepo repositories.HackathonRepository,
	notifier Notifier,
	logger *slog.Logger,
	resultBaseURL string,
) RankingService {
	return &rankingService{
		appRepo:       appRepo,
		hackathonRepo: hackathonRepo,
		notifier:      notifier,
		logger:        logger,
		resultBaseURL: resultBaseURL,
	}
}

// Finalize пересчитывает totalScore каждой заявки как сумму всех
// ненулевых баллов фаз, применяет кастомизацию сертификатов и
// перегенерирует ссылки. Идемпотентна: повторный запуск с теми же
// входами даёт то же сохранённое состояние. Батч без атомарности:
// частичный сбой оставляет ранние заявки обновлёнными — перезапуск
// сходится.
func (s *rankingService) Finalize(ctx context.Context, identity *models.Identity, hackathonID int, cfg CertificateConfig) ([]*models.Application, error) {
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

	for i, app := range apps {
		app.TotalScore = ComputeTotalScore(app)
		applyCertificateConfig(app, cfg)
		app.CertificateURLs = CertificateURLs(app, s.resultBaseURL)

		if err := s.appRepo.Update(ctx, app); err != nil {
			return nil, fmt.Errorf("finalize stopped at application %d of %d: %w", i+1, len(apps), err)
		}
	}

	// Сортировка только для возвращаемого порядка; finalRank не трогаем.
	sorted := make([]*models.Application, len(apps))
	copy(sorted, apps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalScore > sorted[j].TotalScore
	})

	s.logger.InfoContext(ctx, "hackathon finalized",
		slog.Int("hackathon_id", hackathonID),
		slog.Int("applications", len(apps)))

	if s.notifier != nil {
		s.notifier.Notify(ctx, ApplicationEvent{
			Type:           EventResultsFinalized,
			HackathonID:    hackathon.ID,
			HackathonTitle: hackathon.Title,
			Message:        "Results have been finalized.",
		})
	}
	return sorted, nil
}

// HackathonResults возвращает хакатон и его заявки в порядке выдачи
// результатов. Хакатон и заявки загружаются параллельно.
func (s *rankingService) HackathonResults(ctx context.Context, hackathonID int) (*models.Hackathon, []*models.Application, error) {
	var (
		hackathon *models.Hackathon
		apps      []*models.Application
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		hackathon, err = s.getHackathon(gCtx, hackathonID)
		return err
	})
	g.Go(func() error {
		var err error
		apps, err = s.appRepo.ListByHackathon(gCtx, hackathonID)
		if err != nil {
			return fmt.Errorf("failed to list applications: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	SortForResults(apps)
	for _, app := range apps {
		app.CertificateURLs = CertificateURLs(app, s.resultBaseURL)
	}
	return hackathon, apps, nil
}

func (s *rankingService) MyResult(ctx context.Context, identity *models.Identity, hackathonID int) (*models.Application, error) {
	if err := requireApplicant(identity); err != nil {
		return nil, err
	}
	app, err := s.appRepo.FindByHackathonAndApplicant(ctx, hackathonID, identity.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	app.CertificateURLs = CertificateURLs(app, s.resultBaseURL)
	return app, nil
}

func (s *rankingService) getHackathon(ctx context.Context, hackathonID int) (*models.Hackathon, error) {
	hackathon, err := s.hackathonRepo.GetByID(ctx, hackathonID)
	if err != nil {
		if errors.Is(err, repositories.ErrHackathonNotFound) {
			return nil, ErrHackathonNotFound
		}
		return nil, fmt.Errorf("failed to load hackathon: %w", err)
	}
	return hackathon, nil
}

// ComputeTotalScore — сумма всех ненулевых баллов по сабмитам фаз.
func ComputeTotalScore(app *models.Application) float64 {
	var total float64
	for i := range app.Submissions {
		if app.Submissions[i].Score != nil {
			total += *app.Submissions[i].Score
		}
	}
	return total
}

// SortForResults упорядочивает заявки для выдачи: сначала все с
// финальным рангом по возрастанию ранга, затем без ранга по убыванию
// totalScore. Сортировка стабильная.
func SortForResults(apps []*models.Application) {
	sort.SliceStable(apps, func(i, j int) bool {
		ri, rj := apps[i].FinalRank, apps[j].FinalRank
		switch {
		case ri != nil && rj != nil:
			return *ri < *rj
		case ri != nil:
			return true
		case rj != nil:
			return false
		default:
			return apps[i].TotalScore > apps[j].TotalScore
		}
	})
}

func applyCertificateConfig(app *models.Application, cfg CertificateConfig) {
	if cfg.TemplateID != nil && strings.TrimSpace(*cfg.TemplateID) != "" {
		app.CertTemplateID = cfg.TemplateID
	}
	if cfg.LeftLogoURL != nil {
		app.CertLeftLogoURL = cfg.LeftLogoURL
	}
	if cfg.RightLogoURL != nil {
		app.CertRightLogoURL = cfg.RightLogoURL
	}
	if cfg.SignatureURL != nil {
		app.CertSignatureURL = cfg.SignatureURL
	}
	if cfg.Message != nil {
		app.CertMessage = cfg.Message
	}
}

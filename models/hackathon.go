package models

import "time"

// Phase — один судимый раунд хакатона. Дедлайн хранится строкой,
// как приходит от организатора; парсинг — на стороне сервисов.
type Phase struct {
	ID          int     `json:"id" db:"id"`
	HackathonID int     `json:"hackathon_id" db:"hackathon_id"`
	Position    int     `json:"position" db:"position"`
	Name        string  `json:"name" db:"name"`
	Deadline    *string `json:"deadline,omitempty" db:"deadline"`
}

// Hackathon представляет хакатон с упорядоченным списком фаз.
type Hackathon struct {
	ID               int       `json:"id" db:"id"`
	Title            string    `json:"title" db:"title"`
	Description      *string   `json:"description,omitempty" db:"description"`
	IndustryID       int       `json:"industry_id" db:"industry_id"`
	EndDate          *string   `json:"end_date,omitempty" db:"end_date"`
	ResultsPublished bool      `json:"results_published" db:"results_published"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`

	// Связанные сущности (не мапятся напрямую)
	Phases   []Phase `json:"phases,omitempty" db:"-"`
	Industry *User   `json:"industry,omitempty" db:"-"`
}

// PhaseByID ищет фазу по идентификатору. Нестрогих (позиционных)
// фолбэков нет: неизвестный id — это не найдено.
func (h *Hackathon) PhaseByID(phaseID int) (*Phase, bool) {
	for i := range h.Phases {
		if h.Phases[i].ID == phaseID {
			return &h.Phases[i], true
		}
	}
	return nil, false
}

// FirstPhase возвращает фазу с минимальной позицией.
func (h *Hackathon) FirstPhase() (*Phase, bool) {
	if len(h.Phases) == 0 {
		return nil, false
	}
	first := &h.Phases[0]
	for i := range h.Phases {
		if h.Phases[i].Position < first.Position {
			first = &h.Phases[i]
		}
	}
	return first, true
}

package services

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Форматы дедлайнов, встречающиеся в данных организаторов. Порядок
// важен: первый подошедший выигрывает.
var deadlineLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-01-2006",
}

// DeadlineParser разбирает разнородные строки дедлайнов в канонический
// момент времени. Нечитаемое значение — это «дедлайна нет», а не ошибка;
// фолбэк отличим от успешного парсинга по WARN-логу.
type DeadlineParser struct {
	logger *slog.Logger
}

func NewDeadlineParser(logger *slog.Logger) *DeadlineParser {
	return &DeadlineParser{logger: logger}
}

// Parse возвращает момент дедлайна и ok=false, если дедлайн отсутствует
// или не распознан.
func (p *DeadlineParser) Parse(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	if p.logger != nil {
		p.logger.WarnContext(context.Background(), "unparseable deadline, treating as absent",
			slog.String("raw_deadline", raw))
	}
	return time.Time{}, false
}

// Passed сообщает, истёк ли дедлайн к моменту now. Отсутствующий или
// нечитаемый дедлайн никогда не блокирует.
func (p *DeadlineParser) Passed(raw *string, now time.Time) bool {
	if raw == nil {
		return false
	}
	deadline, ok := p.Parse(*raw)
	if !ok {
		return false
	}
	return deadline.Before(now)
}

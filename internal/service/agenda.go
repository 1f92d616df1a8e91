package service

import (
	"context"
	"fmt"

	"github.com/jaekwang-park/agenda-api/internal/agenda"
	"github.com/jaekwang-park/agenda-api/internal/calendar"
	"github.com/jaekwang-park/agenda-api/internal/model"
	"github.com/jaekwang-park/agenda-api/internal/repository"
)

// AgendaQuery selects a window shape. Date defaults to today and Days to the
// service default; Days only matters for the "next" shape.
type AgendaQuery struct {
	Shape string
	Date  *string
	Days  *int
	Radar bool
}

type AgendaResult struct {
	Shape   agenda.Shape        `json:"shape"`
	From    calendar.Date       `json:"from"`
	To      calendar.Date       `json:"to"`
	Entries []model.AgendaEntry `json:"entries"`
}

type Overview struct {
	DateRef calendar.Date       `json:"date_ref"`
	Days    int                 `json:"days"`
	Today   []model.AgendaEntry `json:"today"`
	Next    []model.AgendaEntry `json:"next"`
	Radar   []model.AgendaEntry `json:"radar"`
}

type AgendaService struct {
	reader      repository.SnapshotReader
	assembler   *agenda.Assembler
	today       TodayFunc
	defaultDays int
}

func NewAgendaService(reader repository.SnapshotReader, assembler *agenda.Assembler, today TodayFunc, defaultDays int) *AgendaService {
	if defaultDays <= 0 {
		defaultDays = agenda.DefaultDays
	}
	return &AgendaService{reader: reader, assembler: assembler, today: today, defaultDays: defaultDays}
}

func (s *AgendaService) GetAgenda(ctx context.Context, userID string, q AgendaQuery) (AgendaResult, error) {
	shape, err := agenda.ParseShape(q.Shape)
	if err != nil {
		return AgendaResult{}, err
	}
	ref, days, err := s.reference(q.Date, q.Days)
	if err != nil {
		return AgendaResult{}, err
	}
	window, err := agenda.ResolveWindow(shape, ref, days)
	if err != nil {
		return AgendaResult{}, err
	}

	snap, err := s.reader.Snapshot(ctx, userID, q.Radar)
	if err != nil {
		return AgendaResult{}, fmt.Errorf("failed to read tasks: %w", err)
	}

	var radar []model.RadarItem
	if q.Radar {
		radar = snap.RadarItems
	}
	entries, err := s.assembler.Assemble(snap.Tasks, radar, window)
	if err != nil {
		return AgendaResult{}, err
	}

	return AgendaResult{Shape: shape, From: window.From, To: window.To, Entries: entries}, nil
}

// Overview combines today, the next days and the radar, all assembled from a
// single snapshot.
func (s *AgendaService) Overview(ctx context.Context, userID string, date *string, days *int) (Overview, error) {
	ref, n, err := s.reference(date, days)
	if err != nil {
		return Overview{}, err
	}
	todayWindow, err := agenda.ResolveWindow(agenda.ShapeToday, ref, n)
	if err != nil {
		return Overview{}, err
	}
	nextWindow, err := agenda.ResolveWindow(agenda.ShapeNext, ref, n)
	if err != nil {
		return Overview{}, err
	}

	snap, err := s.reader.Snapshot(ctx, userID, true)
	if err != nil {
		return Overview{}, fmt.Errorf("failed to read tasks: %w", err)
	}

	today, err := s.assembler.Assemble(snap.Tasks, nil, todayWindow)
	if err != nil {
		return Overview{}, err
	}
	next, err := s.assembler.Assemble(snap.Tasks, nil, nextWindow)
	if err != nil {
		return Overview{}, err
	}
	radar, err := s.assembler.Assemble(nil, snap.RadarItems, nextWindow)
	if err != nil {
		return Overview{}, err
	}

	return Overview{DateRef: ref, Days: n, Today: today, Next: next, Radar: radar}, nil
}

func (s *AgendaService) reference(date *string, days *int) (calendar.Date, int, error) {
	ref := s.today()
	if date != nil {
		parsed, err := parseDate("date", date)
		if err != nil {
			return calendar.Date{}, 0, err
		}
		ref = *parsed
	}
	n := s.defaultDays
	if days != nil {
		n = *days
	}
	return ref, n, nil
}

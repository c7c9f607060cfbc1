package service

import (
	"context"
	"fmt"
	"sort"
)

// StatusCounter is implemented by every content repository.
type StatusCounter interface {
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type UserCounter interface {
	Count(ctx context.Context) (int64, error)
}

type EntityStats struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}

type Dashboard struct {
	TotalUsers int64                  `json:"total_users"`
	Entities   map[string]EntityStats `json:"entities"`
}

type StatService interface {
	GetTotalUsers(ctx context.Context) (int64, error)
	GetDashboard(ctx context.Context) (*Dashboard, error)
}

type statService struct {
	users    UserCounter
	counters map[string]StatusCounter
}

// NewStatService reports counts for each named counter, e.g. "news".
func NewStatService(users UserCounter, counters map[string]StatusCounter) StatService {
	return &statService{
		users:    users,
		counters: counters,
	}
}

func (s *statService) GetTotalUsers(ctx context.Context) (int64, error) {
	return s.users.Count(ctx)
}

func (s *statService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	names := make([]string, 0, len(s.counters))
	for name := range s.counters {
		names = append(names, name)
	}
	sort.Strings(names)

	d := &Dashboard{TotalUsers: total, Entities: make(map[string]EntityStats, len(names))}
	for _, name := range names {
		byStatus, err := s.counters[name].CountByStatus(ctx)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", name, err)
		}
		if byStatus == nil {
			byStatus = map[string]int64{}
		}
		var sum int64
		for _, n := range byStatus {
			sum += n
		}
		d.Entities[name] = EntityStats{Total: sum, ByStatus: byStatus}
	}
	return d, nil
}

// Package repotest provides in-memory repository implementations for tests.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ZYX-Studios/v0-nevha-sub002/internal/domain"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/repository"
)

// Departments is a concurrency-safe in-memory DepartmentRepository.
type Departments struct {
	mu    sync.Mutex
	rows  map[string]domain.Department
	err   error
	Touch chan string
}

// NewDepartments seeds the fake with rows.
func NewDepartments(rows ...domain.Department) *Departments {
	d := &Departments{rows: make(map[string]domain.Department), Touch: make(chan string, 64)}
	for _, row := range rows {
		d.rows[row.ID] = row
	}
	return d
}

// SetErr makes every subsequent call fail with err.
func (d *Departments) SetErr(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = err
}

// Put inserts or replaces a row.
func (d *Departments) Put(row domain.Department) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rows[row.ID] = row
}

// Get returns a copy of a row for assertions.
func (d *Departments) Get(id string) (domain.Department, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	row, ok := d.rows[id]
	return row, ok
}

func (d *Departments) GetByID(_ context.Context, id string) (*domain.Department, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	row, ok := d.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &row, nil
}

func (d *Departments) ListActive(_ context.Context) ([]domain.Department, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	var result []domain.Department
	for _, row := range d.rows {
		if row.IsActive {
			result = append(result, row)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (d *Departments) UpdateCredentials(_ context.Context, id, passwordHash, passwordVersion string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	row, ok := d.rows[id]
	if !ok {
		return pgx.ErrNoRows
	}
	row.PasswordHash = passwordHash
	row.PasswordVersion = &passwordVersion
	d.rows[id] = row
	return nil
}

func (d *Departments) TouchLastUsed(_ context.Context, id string, at time.Time) error {
	d.mu.Lock()
	if d.err != nil {
		d.mu.Unlock()
		return d.err
	}
	if row, ok := d.rows[id]; ok {
		row.LastUsedAt = &at
		d.rows[id] = row
	}
	d.mu.Unlock()

	select {
	case d.Touch <- id:
	default:
	}
	return nil
}

// Profiles is a concurrency-safe in-memory ProfileRepository.
type Profiles struct {
	mu   sync.Mutex
	rows map[string]domain.Profile
	err  error
}

// NewProfiles seeds the fake with rows.
func NewProfiles(rows ...domain.Profile) *Profiles {
	p := &Profiles{rows: make(map[string]domain.Profile)}
	for _, row := range rows {
		p.rows[row.ID] = row
	}
	return p
}

// SetErr makes every subsequent call fail with err.
func (p *Profiles) SetErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Get returns a copy of a row for assertions.
func (p *Profiles) Get(id string) (domain.Profile, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	row, ok := p.rows[id]
	return row, ok
}

func (p *Profiles) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	row, ok := p.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &row, nil
}

func (p *Profiles) GetByEmail(_ context.Context, email string) (*domain.Profile, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	for _, row := range p.rows {
		if strings.EqualFold(row.Email, email) {
			return &row, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (p *Profiles) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	if row, ok := p.rows[id]; ok {
		row.LastLoginAt = &at
		p.rows[id] = row
	}
	return nil
}

// Directory is a static DirectoryRepository doing case-insensitive substring matches.
type Directory struct {
	Entries []domain.LookupCandidate
	Err     error
}

func (d *Directory) Search(_ context.Context, query string, limit int) ([]domain.LookupCandidate, error) {
	if d.Err != nil {
		return nil, d.Err
	}
	var result []domain.LookupCandidate
	q := strings.ToLower(query)
	for _, entry := range d.Entries {
		if strings.Contains(strings.ToLower(entry.Label), q) {
			result = append(result, entry)
		}
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

var (
	_ repository.DepartmentRepository = (*Departments)(nil)
	_ repository.ProfileRepository    = (*Profiles)(nil)
	_ repository.DirectoryRepository  = (*Directory)(nil)
)

package ledger

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. fakeTxRunner serializa cada Run con un mutex, emulando el
// bloqueo de fila de PostgreSQL; fakeTx acumula escrituras y solo las aplica
// al store si el callback termina sin error (commit), igual que la tx real.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	mu        sync.Mutex
	materials map[string]*entity.Material
	users     map[string]*entity.User
	movements []*entity.Movement
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		materials: map[string]*entity.Material{},
		users:     map[string]*entity.User{},
	}
}

func (s *fakeStore) addMaterial(id, code, name string, stock decimal.Decimal) {
	s.materials[id] = &entity.Material{
		ID: id, Code: code, Name: name, Unit: "pcs",
		CurrentStock: stock, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
}

// matchesRange true si t cae dentro del rango (límites opcionales).
func matchesRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

// newestFirst copia la lista en orden inverso al de inserción (cronológico).
func newestFirst(in []*entity.Movement) []*entity.Movement {
	out := make([]*entity.Movement, 0, len(in))
	for i := len(in) - 1; i >= 0; i-- {
		out = append(out, in[i])
	}
	return out
}

var _ repository.MovementRepository = (*fakeStore)(nil)
var _ repository.MaterialRepository = (*fakeMaterialRepo)(nil)

func (s *fakeStore) Create(_ context.Context, m *entity.Movement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *m
	s.movements = append(s.movements, &cp)
	return nil
}

func (s *fakeStore) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) ListByMaterial(_ context.Context, materialID string, from, to *time.Time) ([]*entity.Movement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Movement
	for _, m := range newestFirst(s.movements) {
		if m.MaterialID == materialID && matchesRange(m.CreatedAt, from, to) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeStore) ListByReason(_ context.Context, reason string, from, to *time.Time) ([]*entity.Movement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Movement
	for _, m := range newestFirst(s.movements) {
		if m.Kind == entity.MovementKindAdjustment && m.Reason == reason && matchesRange(m.CreatedAt, from, to) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeStore) ListByUsageType(_ context.Context, usageType string, from, to *time.Time) ([]*entity.Movement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Movement
	for _, m := range newestFirst(s.movements) {
		if m.Kind == entity.MovementKindStockOut && m.UsageType == usageType && matchesRange(m.CreatedAt, from, to) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeStore) matchesFilter(m *entity.Movement, f repository.MovementFilter) bool {
	if f.Kind != "" && m.Kind != f.Kind {
		return false
	}
	if f.MaterialID != "" && m.MaterialID != f.MaterialID {
		return false
	}
	if f.Reason != "" && m.Reason != f.Reason {
		return false
	}
	if f.UsageType != "" && m.UsageType != f.UsageType {
		return false
	}
	if !matchesRange(m.CreatedAt, f.From, f.To) {
		return false
	}
	if f.Q != "" {
		q := strings.ToLower(f.Q)
		hay := strings.ToLower(m.Notes + " " + m.Destination)
		if mat := s.materials[m.MaterialID]; mat != nil {
			hay += " " + strings.ToLower(mat.Name+" "+mat.Code)
		}
		if !strings.Contains(hay, q) {
			return false
		}
	}
	return true
}

func (s *fakeStore) ListPaginated(_ context.Context, f repository.MovementFilter, limit, offset int) ([]*entity.Movement, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*entity.Movement
	for _, m := range newestFirst(s.movements) {
		if s.matchesFilter(m, f) {
			matched = append(matched, m)
		}
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (s *fakeStore) Stats(_ context.Context, from, to *time.Time) ([]repository.MovementStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	type key struct{ kind, label string }
	acc := map[key]*repository.MovementStat{}
	var order []key
	for _, m := range s.movements {
		if !matchesRange(m.CreatedAt, from, to) {
			continue
		}
		label := m.Reason
		if m.Kind == entity.MovementKindStockOut {
			label = m.UsageType
		}
		k := key{m.Kind, label}
		st, ok := acc[k]
		if !ok {
			st = &repository.MovementStat{Kind: m.Kind, Label: label, TotalQuantity: decimal.Zero}
			acc[k] = st
			order = append(order, k)
		}
		st.Count++
		st.TotalQuantity = st.TotalQuantity.Add(m.Quantity)
	}
	out := make([]repository.MovementStat, 0, len(order))
	for _, k := range order {
		out = append(out, *acc[k])
	}
	return out, nil
}

func (s *fakeStore) Report(_ context.Context, from, to time.Time) ([]repository.ReportRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []repository.ReportRow
	for _, m := range newestFirst(s.movements) {
		if !matchesRange(m.CreatedAt, &from, &to) {
			continue
		}
		row := repository.ReportRow{Movement: *m}
		if mat := s.materials[m.MaterialID]; mat != nil {
			row.MaterialCode = mat.Code
			row.MaterialName = mat.Name
		}
		if u := s.users[m.CreatedBy]; u != nil {
			row.ActorName = u.Name
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *fakeStore) GetForUpdate(_ context.Context, id string) (*entity.Material, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.materials[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (s *fakeStore) UpdateStock(_ context.Context, id string, quantity decimal.Decimal, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.materials[id]
	if !ok {
		return errors.New("material no existe")
	}
	m.CurrentStock = quantity
	m.UpdatedAt = at
	return nil
}

func (s *fakeStore) List(_ context.Context, limit, offset int) ([]*entity.Material, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Material
	for _, m := range s.materials {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

// GetByID (MaterialRepository): los métodos de Movement y Material comparten
// receptor, así que el lookup de material vive en un wrapper aparte.
type fakeMaterialRepo struct{ store *fakeStore }

func (r *fakeMaterialRepo) GetByID(_ context.Context, id string) (*entity.Material, error) {
	return r.store.GetForUpdate(context.Background(), id)
}
func (r *fakeMaterialRepo) GetForUpdate(ctx context.Context, id string) (*entity.Material, error) {
	return r.store.GetForUpdate(ctx, id)
}
func (r *fakeMaterialRepo) UpdateStock(ctx context.Context, id string, q decimal.Decimal, at time.Time) error {
	return r.store.UpdateStock(ctx, id, q, at)
}
func (r *fakeMaterialRepo) List(ctx context.Context, limit, offset int) ([]*entity.Material, error) {
	return r.store.List(ctx, limit, offset)
}

// ──────────────────────────────────────────────────────────────────────────────
// fakeTx: escrituras en staging, commit solo si el callback no falla.
// ──────────────────────────────────────────────────────────────────────────────

type fakeTx struct {
	store       *fakeStore
	stagedStock map[string]decimal.Decimal
	stagedMovs  []*entity.Movement
	failCreate  bool
}

var _ repository.MovementRepository = (*fakeTx)(nil)
var _ repository.MaterialRepository = fakeTxMaterial{}

// fakeTxMaterial expone *fakeTx como MaterialRepository: igual que
// fakeMaterialRepo, los GetByID de Movement y Material no pueden convivir en
// el mismo receptor, así que el de Material vive en este wrapper.
type fakeTxMaterial struct{ *fakeTx }

func (fakeTxMaterial) GetByID(context.Context, string) (*entity.Material, error) {
	panic("no usado en tx")
}

func (t *fakeTx) GetForUpdate(_ context.Context, id string) (*entity.Material, error) {
	m, ok := t.store.materials[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	if q, ok := t.stagedStock[id]; ok {
		cp.CurrentStock = q
	}
	return &cp, nil
}

func (t *fakeTx) UpdateStock(_ context.Context, id string, quantity decimal.Decimal, _ time.Time) error {
	if _, ok := t.store.materials[id]; !ok {
		return errors.New("material no existe")
	}
	t.stagedStock[id] = quantity
	return nil
}

func (t *fakeTx) Create(_ context.Context, m *entity.Movement) error {
	if t.failCreate {
		return errors.New("insert movimiento falló")
	}
	cp := *m
	t.stagedMovs = append(t.stagedMovs, &cp)
	return nil
}

func (t *fakeTx) commit(now time.Time) {
	for id, q := range t.stagedStock {
		t.store.materials[id].CurrentStock = q
		t.store.materials[id].UpdatedAt = now
	}
	t.store.movements = append(t.store.movements, t.stagedMovs...)
}

// Métodos de lectura no usados dentro de la transacción del motor.
func (t *fakeTx) GetByID(context.Context, string) (*entity.Movement, error) {
	panic("no usado en tx")
}
func (t *fakeTx) ListByMaterial(context.Context, string, *time.Time, *time.Time) ([]*entity.Movement, error) {
	panic("no usado en tx")
}
func (t *fakeTx) ListByReason(context.Context, string, *time.Time, *time.Time) ([]*entity.Movement, error) {
	panic("no usado en tx")
}
func (t *fakeTx) ListByUsageType(context.Context, string, *time.Time, *time.Time) ([]*entity.Movement, error) {
	panic("no usado en tx")
}
func (t *fakeTx) ListPaginated(context.Context, repository.MovementFilter, int, int) ([]*entity.Movement, int64, error) {
	panic("no usado en tx")
}
func (t *fakeTx) Stats(context.Context, *time.Time, *time.Time) ([]repository.MovementStat, error) {
	panic("no usado en tx")
}
func (t *fakeTx) Report(context.Context, time.Time, time.Time) ([]repository.ReportRow, error) {
	panic("no usado en tx")
}
func (t *fakeTx) List(context.Context, int, int) ([]*entity.Material, error) {
	panic("no usado en tx")
}

type fakeTxRunner struct {
	store      *fakeStore
	failCreate bool
}

// Run emula la transacción: mutex del store como lock de fila (un writer a la
// vez), staging + commit/rollback según el resultado del callback.
func (r *fakeTxRunner) Run(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	materialRepo repository.MaterialRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	tx := &fakeTx{
		store:       r.store,
		stagedStock: map[string]decimal.Decimal{},
		failCreate:  r.failCreate,
	}
	if err := fn(tx, fakeTxMaterial{tx}); err != nil {
		return err // rollback: staging descartado
	}
	tx.commit(time.Now())
	return nil
}

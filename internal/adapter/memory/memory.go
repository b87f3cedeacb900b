// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"bodymetrics/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu            sync.Mutex
	weights       []domain.WeightRecord
	measurements  []domain.MeasurementRecord
	bloodPressure []domain.BloodPressureReading
	profiles      map[int64]domain.UserProfile
	users         []*domain.User
	sessions      map[string]domain.Session

	nextID int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		profiles: make(map[int64]domain.UserProfile),
		sessions: make(map[string]domain.Session),
	}
}

// Ensure interfaces are met.
var (
	_ domain.WeightRepository        = (*DB)(nil)
	_ domain.MeasurementRepository   = (*DB)(nil)
	_ domain.BloodPressureRepository = (*DB)(nil)
	_ domain.ProfileRepository       = (*DB)(nil)
	_ domain.UserRepository          = (*DB)(nil)
	_ domain.SessionRepository       = (*SessionRepo)(nil)
)

// id hands out a store-wide increasing identifier. Caller holds mu.
func (db *DB) id() int64 {
	db.nextID++
	return db.nextID
}

// forUser returns the user's records ordered by date then ID, newest first
// when desc is set, truncated to limit when limit > 0.
func forUser[T any](all []T, userID int64, owner func(T) int64, key func(T) (time.Time, int64), desc bool, limit int) []T {
	var out []T
	for _, r := range all {
		if owner(r) == userID {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b T) int {
		ta, ia := key(a)
		tb, ib := key(b)
		c := ta.Compare(tb)
		if c == 0 {
			c = cmp.Compare(ia, ib)
		}
		if desc {
			return -c
		}
		return c
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func weightOwner(r domain.WeightRecord) int64 { return r.UserID }
func weightKey(r domain.WeightRecord) (time.Time, int64) {
	return r.Date, r.ID
}

// --- WeightRepository ---

// AddWeight stores a weigh-in.
func (db *DB) AddWeight(ctx context.Context, rec domain.WeightRecord) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	rec.ID = db.id()
	rec.Date = rec.Date.UTC()
	db.weights = append(db.weights, rec)
	return rec.ID, nil
}

// DeleteLatestWeight deletes the user's most recent weigh-in.
func (db *DB) DeleteLatestWeight(ctx context.Context, userID int64) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	latest := forUser(db.weights, userID, weightOwner, weightKey, true, 1)
	if len(latest) == 0 {
		return false, nil
	}
	for i, w := range db.weights {
		if w.ID == latest[0].ID {
			db.weights = append(db.weights[:i], db.weights[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// LatestWeightForLocalDay returns the latest weigh-in for the given day.
func (db *DB) LatestWeightForLocalDay(ctx context.Context, userID int64, localDay string) (*domain.WeightRecord, error) {
	dayStart, err := time.ParseInLocation(domain.DayLayout, localDay, time.Local)
	if err != nil {
		return nil, err
	}
	dayEnd := dayStart.AddDate(0, 0, 1)

	db.mu.Lock()
	defer db.mu.Unlock()

	for _, w := range forUser(db.weights, userID, weightOwner, weightKey, true, 0) {
		if !w.Date.Before(dayStart) && w.Date.Before(dayEnd) {
			return &w, nil
		}
	}
	return nil, nil
}

// ListRecentWeights lists the user's most recent weigh-ins, newest first.
func (db *DB) ListRecentWeights(ctx context.Context, userID int64, limit int) ([]domain.WeightRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if limit <= 0 {
		return nil, nil
	}
	return forUser(db.weights, userID, weightOwner, weightKey, true, limit), nil
}

// ListWeights lists the user's full history in ascending order.
func (db *DB) ListWeights(ctx context.Context, userID int64) ([]domain.WeightRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return forUser(db.weights, userID, weightOwner, weightKey, false, 0), nil
}

// --- MeasurementRepository ---

func measurementOwner(r domain.MeasurementRecord) int64 { return r.UserID }
func measurementKey(r domain.MeasurementRecord) (time.Time, int64) {
	return r.Date, r.ID
}

// AddMeasurement stores a circumference measurement.
func (db *DB) AddMeasurement(ctx context.Context, rec domain.MeasurementRecord) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	rec.ID = db.id()
	rec.Date = rec.Date.UTC()
	db.measurements = append(db.measurements, rec)
	return rec.ID, nil
}

// ListRecentMeasurements lists the user's most recent measurements, newest first.
func (db *DB) ListRecentMeasurements(ctx context.Context, userID int64, limit int) ([]domain.MeasurementRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if limit <= 0 {
		return nil, nil
	}
	return forUser(db.measurements, userID, measurementOwner, measurementKey, true, limit), nil
}

// ListMeasurements lists the user's full history in ascending order.
func (db *DB) ListMeasurements(ctx context.Context, userID int64) ([]domain.MeasurementRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return forUser(db.measurements, userID, measurementOwner, measurementKey, false, 0), nil
}

// --- BloodPressureRepository ---

// AddBloodPressure stores a cuff reading.
func (db *DB) AddBloodPressure(ctx context.Context, r domain.BloodPressureReading) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	r.ID = db.id()
	r.Date = r.Date.UTC()
	db.bloodPressure = append(db.bloodPressure, r)
	return r.ID, nil
}

// ListBloodPressure lists the user's readings in ascending order.
func (db *DB) ListBloodPressure(ctx context.Context, userID int64) ([]domain.BloodPressureReading, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return forUser(db.bloodPressure, userID,
		func(r domain.BloodPressureReading) int64 { return r.UserID },
		func(r domain.BloodPressureReading) (time.Time, int64) { return r.Date, r.ID },
		false, 0), nil
}

// --- ProfileRepository ---

// GetProfile returns a copy of the user's profile, or nil when none is saved.
func (db *DB) GetProfile(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	p, ok := db.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// SaveProfile inserts or replaces the user's profile.
func (db *DB) SaveProfile(ctx context.Context, p domain.UserProfile) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.profiles[p.UserID] = p
	return nil
}

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return nil, errors.New("user already exists")
		}
	}

	u := &domain.User{
		ID:           db.id(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	return u, nil
}

// Count returns the total number of users.
func (db *DB) Count(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users), nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db  *DB
	now func() time.Time
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db, now: time.Now}
}

// Create stores a session.
func (r *SessionRepo) Create(ctx context.Context, s domain.Session) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s.CreatedAt.IsZero() {
		s.CreatedAt = r.now().UTC()
	}
	r.db.sessions[s.Token] = s
	return nil
}

// GetByToken retrieves a session by token. Expired sessions are returned so
// the caller can tell expiry from an unknown token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.sessions[token]; ok {
		return &s, nil
	}
	return nil, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := r.now()
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
		}
	}
	return nil
}

package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrInvalidCredentials covers unknown usernames, wrong passwords and
// inactive accounts alike.
var ErrInvalidCredentials = errors.New("invalid username or password")

const MinPasswordLength = 6

type Service struct {
	repo Repository
	db   *sqlx.DB
	now  func() time.Time
}

func NewService(db *sqlx.DB) *Service {
	return &Service{
		db:   db,
		repo: New(db),
		now:  time.Now,
	}
}

func (s *Service) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *Service) List(ctx context.Context, f Filter) ([]Worker, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id string) (*Worker, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*Worker, error) {
	return s.repo.GetByUsername(ctx, username)
}

// Create adds a regular (non super admin) worker.
func (s *Service) Create(ctx context.Context, name, username, password string) (*Worker, error) {
	return s.create(ctx, name, username, password, false)
}

func (s *Service) create(ctx context.Context, name, username, password string, superAdmin bool) (*Worker, error) {
	name = strings.TrimSpace(name)
	username = strings.TrimSpace(username)
	if name == "" || username == "" {
		return nil, errors.New("name and username are required")
	}
	if err := checkPassword(password); err != nil {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	w := &Worker{
		ID:           uuid.NewString(),
		Name:         name,
		Username:     username,
		PasswordHash: hash,
		IsSuperAdmin: superAdmin,
		Status:       true,
		CreatedAt:    s.now().UTC(),
	}

	err = s.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.repo.Create(ctx, tx, w)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, w.ID)
}

// Update changes name, username and status. The super admin flag and the
// password are not touched.
func (s *Service) Update(ctx context.Context, w *Worker) error {
	return s.UpdateWithPassword(ctx, w, "")
}

// UpdateWithPassword is Update plus a new password in the same
// transaction. An empty password keeps the current one.
func (s *Service) UpdateWithPassword(ctx context.Context, w *Worker, password string) error {
	w.Name = strings.TrimSpace(w.Name)
	w.Username = strings.TrimSpace(w.Username)
	if w.Name == "" || w.Username == "" {
		return errors.New("name and username are required")
	}

	var hash string
	if password != "" {
		if err := checkPassword(password); err != nil {
			return err
		}
		h, err := HashPassword(password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		hash = h
	}

	return s.WithTx(ctx, func(tx *sqlx.Tx) error {
		if hash != "" {
			if err := s.repo.SetPassword(ctx, tx, w.ID, hash); err != nil {
				return err
			}
		}
		return s.repo.Update(ctx, tx, w)
	})
}

func (s *Service) SetPassword(ctx context.Context, id, password string) error {
	if err := checkPassword(password); err != nil {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.repo.SetPassword(ctx, tx, id, hash)
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.repo.Delete(ctx, tx, id)
	})
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Authenticate returns the active worker matching the credentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*Worker, error) {
	w, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := VerifyPassword(password, w.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok || !w.Status {
		return nil, ErrInvalidCredentials
	}
	return w, nil
}

// EnsureBootstrapAdmin creates a super admin when the worker table is
// empty. It reports whether an account was created.
func (s *Service) EnsureBootstrapAdmin(ctx context.Context, name, username, password string) (bool, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if username == "" || password == "" {
		return false, errors.New("no workers exist and no bootstrap admin is configured")
	}
	if name == "" {
		name = username
	}
	if _, err := s.create(ctx, name, username, password, true); err != nil {
		return false, fmt.Errorf("create bootstrap admin: %w", err)
	}
	return true, nil
}

func checkPassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

package repository

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"solar-rewards/internal/model"
	apperrors "solar-rewards/pkg/errors"
)

// MemoryStore holds all repository state in memory. It backs the service
// tests and mirrors the uniqueness guarantees the Mongo indexes provide.
type MemoryStore struct {
	mu             sync.RWMutex
	promotions     map[primitive.ObjectID]model.Promotion
	participations map[primitive.ObjectID]model.Participation
	installers     map[string]model.Installer
	serials        []model.SerialRegistration
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		promotions:     make(map[primitive.ObjectID]model.Promotion),
		participations: make(map[primitive.ObjectID]model.Participation),
		installers:     make(map[string]model.Installer),
	}
}

// Promotions returns a PromotionRepository view of the store.
func (s *MemoryStore) Promotions() PromotionRepository { return &memoryPromotionRepo{store: s} }

// Participations returns a ParticipationRepository view of the store.
func (s *MemoryStore) Participations() ParticipationRepository {
	return &memoryParticipationRepo{store: s}
}

// Installers returns an InstallerRepository view of the store.
func (s *MemoryStore) Installers() InstallerRepository { return &memoryInstallerRepo{store: s} }

// Serials returns a SerialRepository view of the store.
func (s *MemoryStore) Serials() SerialRepository { return &memorySerialRepo{store: s} }

// PutInstaller seeds an installer record.
func (s *MemoryStore) PutInstaller(installer model.Installer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.installers[installer.ID] = installer
}

// PutSerial seeds a serial registration record.
func (s *MemoryStore) PutSerial(record model.SerialRegistration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serials = append(s.serials, record)
}

// RemoveSerials drops every registration for an installer.
func (s *MemoryStore) RemoveSerials(installerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.serials[:0]
	for _, record := range s.serials {
		if record.InstallerID != installerID {
			kept = append(kept, record)
		}
	}
	s.serials = kept
}

// WithTransaction satisfies the service transaction runner; in-memory
// operations are already atomic under the store mutex.
func (s *MemoryStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memoryPromotionRepo struct {
	store *MemoryStore
}

func (r *memoryPromotionRepo) CreatePromotion(ctx context.Context, promotion *model.Promotion) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if promotion.ID.IsZero() {
		promotion.ID = primitive.NewObjectID()
	}
	r.store.promotions[promotion.ID] = *promotion
	return nil
}

func (r *memoryPromotionRepo) GetPromotion(ctx context.Context, id primitive.ObjectID) (*model.Promotion, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	promotion, ok := r.store.promotions[id]
	if !ok {
		return nil, apperrors.ErrPromotionNotFound
	}
	return &promotion, nil
}

func (r *memoryPromotionRepo) UpdatePromotion(ctx context.Context, promotion *model.Promotion) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.promotions[promotion.ID]; !ok {
		return apperrors.ErrPromotionNotFound
	}
	r.store.promotions[promotion.ID] = *promotion
	return nil
}

func (r *memoryPromotionRepo) DeletePromotion(ctx context.Context, id primitive.ObjectID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.promotions[id]; !ok {
		return apperrors.ErrPromotionNotFound
	}
	delete(r.store.promotions, id)
	return nil
}

func (r *memoryPromotionRepo) ListActivePromotions(ctx context.Context, now time.Time) ([]*model.Promotion, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var promotions []*model.Promotion
	for id := range r.store.promotions {
		promotion := r.store.promotions[id]
		if promotion.ActiveAt(now) {
			p := promotion
			promotions = append(promotions, &p)
		}
	}
	return promotions, nil
}

type memoryParticipationRepo struct {
	store *MemoryStore
}

func (r *memoryParticipationRepo) CreateParticipation(ctx context.Context, participation *model.Participation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.participations {
		if existing.PromotionID == participation.PromotionID && existing.InstallerID == participation.InstallerID {
			return apperrors.ErrAlreadyParticipating
		}
	}
	if participation.ID.IsZero() {
		participation.ID = primitive.NewObjectID()
	}
	r.store.participations[participation.ID] = *participation
	return nil
}

func (r *memoryParticipationRepo) GetParticipation(ctx context.Context, promotionID primitive.ObjectID, installerID string) (*model.Participation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for id := range r.store.participations {
		participation := r.store.participations[id]
		if participation.PromotionID == promotionID && participation.InstallerID == installerID {
			return &participation, nil
		}
	}
	return nil, apperrors.ErrParticipationNotFound
}

func (r *memoryParticipationRepo) GetParticipationByID(ctx context.Context, id primitive.ObjectID) (*model.Participation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	participation, ok := r.store.participations[id]
	if !ok {
		return nil, apperrors.ErrParticipationNotFound
	}
	return &participation, nil
}

func (r *memoryParticipationRepo) SaveParticipation(ctx context.Context, participation *model.Participation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.participations[participation.ID]; !ok {
		return apperrors.ErrParticipationNotFound
	}
	r.store.participations[participation.ID] = *participation
	return nil
}

func (r *memoryParticipationRepo) DeleteParticipationsForPromotion(ctx context.Context, promotionID primitive.ObjectID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id := range r.store.participations {
		if r.store.participations[id].PromotionID == promotionID {
			delete(r.store.participations, id)
		}
	}
	return nil
}

type memoryInstallerRepo struct {
	store *MemoryStore
}

func (r *memoryInstallerRepo) GetInstaller(ctx context.Context, id string) (*model.Installer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	installer, ok := r.store.installers[id]
	if !ok {
		return nil, apperrors.ErrInstallerNotFound
	}
	return &installer, nil
}

type memorySerialRepo struct {
	store *MemoryStore
}

func (r *memorySerialRepo) ListForInstaller(ctx context.Context, installerID string) ([]*model.SerialRegistration, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var records []*model.SerialRegistration
	for i := range r.store.serials {
		if r.store.serials[i].InstallerID == installerID {
			record := r.store.serials[i]
			records = append(records, &record)
		}
	}
	return records, nil
}

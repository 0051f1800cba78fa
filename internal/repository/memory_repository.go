package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"mesto/internal/model"
)

// MemoryUserRepository keeps users in process memory. It backs STORE_DRIVER=memory
// and the HTTP tests; it is safe for concurrent use.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]model.User
}

// NewMemoryUserRepository creates an empty in-memory user repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: map[string]model.User{}}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return ErrDuplicateEmail
		}
	}
	if user.ID == "" {
		user.ID = NewID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) List(_ context.Context) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (r *MemoryUserRepository) Update(_ context.Context, id string, update model.UserUpdate) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.About != nil {
		u.About = *update.About
	}
	if update.Avatar != nil {
		u.Avatar = *update.Avatar
	}
	r.users[id] = u
	return &u, nil
}

// MemoryCardRepository keeps cards in process memory.
type MemoryCardRepository struct {
	mu    sync.RWMutex
	cards map[string]model.Card
}

// NewMemoryCardRepository creates an empty in-memory card repository.
func NewMemoryCardRepository() *MemoryCardRepository {
	return &MemoryCardRepository{cards: map[string]model.Card{}}
}

func cloneCard(c model.Card) *model.Card {
	c.Likes = append([]string{}, c.Likes...)
	return &c
}

func (r *MemoryCardRepository) Create(_ context.Context, card *model.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if card.ID == "" {
		card.ID = NewID()
	}
	if card.CreatedAt.IsZero() {
		card.CreatedAt = time.Now().UTC()
	}
	if card.Likes == nil {
		card.Likes = []string{}
	}
	r.cards[card.ID] = *cloneCard(*card)
	return nil
}

func (r *MemoryCardRepository) FindByID(_ context.Context, id string) (*model.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.cards[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneCard(c), nil
}

func (r *MemoryCardRepository) List(_ context.Context) ([]model.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cards := make([]model.Card, 0, len(r.cards))
	for _, c := range r.cards {
		cards = append(cards, *cloneCard(c))
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].CreatedAt.Before(cards[j].CreatedAt) })
	return cards, nil
}

func (r *MemoryCardRepository) Delete(_ context.Context, id, ownerID string) (*model.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cards[id]
	if !ok || c.Owner != ownerID {
		return nil, ErrNotFound
	}
	delete(r.cards, id)
	return cloneCard(c), nil
}

func (r *MemoryCardRepository) AddLike(_ context.Context, id, userID string) (*model.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cards[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !c.LikedBy(userID) {
		c.Likes = append(append([]string{}, c.Likes...), userID)
		r.cards[id] = c
	}
	return cloneCard(c), nil
}

func (r *MemoryCardRepository) RemoveLike(_ context.Context, id, userID string) (*model.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cards[id]
	if !ok {
		return nil, ErrNotFound
	}
	likes := make([]string, 0, len(c.Likes))
	for _, l := range c.Likes {
		if l != userID {
			likes = append(likes, l)
		}
	}
	c.Likes = likes
	r.cards[id] = c
	return cloneCard(c), nil
}

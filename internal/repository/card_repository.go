package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mesto/internal/model"
)

// cardRecord is the relational row for a card; likers live in card_likes.
type cardRecord struct {
	ID        string     `gorm:"type:char(24);primaryKey"`
	Name      string     `gorm:"size:30;not null"`
	Link      string     `gorm:"size:2048;not null"`
	OwnerID   string     `gorm:"type:char(24);not null;index"`
	Likes     []cardLike `gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (cardRecord) TableName() string { return "cards" }

// cardLike is one membership of the liker set; the composite key makes it a set.
type cardLike struct {
	CardID string `gorm:"type:char(24);primaryKey"`
	UserID string `gorm:"type:char(24);primaryKey"`
}

func (cardLike) TableName() string { return "card_likes" }

func (c *cardRecord) toModel() *model.Card {
	likes := make([]string, 0, len(c.Likes))
	for _, l := range c.Likes {
		likes = append(likes, l.UserID)
	}
	return &model.Card{
		ID:        c.ID,
		Name:      c.Name,
		Link:      c.Link,
		Owner:     c.OwnerID,
		Likes:     likes,
		CreatedAt: c.CreatedAt,
	}
}

// AutoMigrate creates or updates the relational schema used by the GORM repositories.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.User{}, &cardRecord{}, &cardLike{})
}

type cardRepository struct {
	db *gorm.DB
}

// NewCardRepository builds a GORM-backed card repository.
func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Create(ctx context.Context, card *model.Card) error {
	if card.ID == "" {
		card.ID = NewID()
	}
	if card.CreatedAt.IsZero() {
		card.CreatedAt = time.Now().UTC()
	}
	if card.Likes == nil {
		card.Likes = []string{}
	}

	rec := cardRecord{
		ID:        card.ID,
		Name:      card.Name,
		Link:      card.Link,
		OwnerID:   card.Owner,
		CreatedAt: card.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("insert card: %w", err)
	}
	return nil
}

func (r *cardRepository) FindByID(ctx context.Context, id string) (*model.Card, error) {
	rec, err := r.find(r.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}

func (r *cardRepository) find(tx *gorm.DB, id string) (*cardRecord, error) {
	var rec cardRecord
	if err := tx.Preload("Likes").Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find card: %w", err)
	}
	return &rec, nil
}

func (r *cardRepository) List(ctx context.Context) ([]model.Card, error) {
	var recs []cardRecord
	if err := r.db.WithContext(ctx).Preload("Likes").Order("created_at").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("find cards: %w", err)
	}

	cards := make([]model.Card, 0, len(recs))
	for i := range recs {
		cards = append(cards, *recs[i].toModel())
	}
	return cards, nil
}

func (r *cardRepository) Delete(ctx context.Context, id, ownerID string) (*model.Card, error) {
	var deleted *model.Card
	err := r.withTransaction(ctx, func(tx *gorm.DB) error {
		rec, err := r.find(tx, id)
		if err != nil {
			return err
		}
		if rec.OwnerID != ownerID {
			return ErrNotFound
		}
		if err := tx.Where("card_id = ?", id).Delete(&cardLike{}).Error; err != nil {
			return fmt.Errorf("delete card likes: %w", err)
		}
		if err := tx.Delete(&cardRecord{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("delete card: %w", err)
		}
		deleted = rec.toModel()
		return nil
	})
	return deleted, err
}

func (r *cardRepository) AddLike(ctx context.Context, id, userID string) (*model.Card, error) {
	return r.updateLikes(ctx, id, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&cardLike{CardID: id, UserID: userID}).Error
	})
}

func (r *cardRepository) RemoveLike(ctx context.Context, id, userID string) (*model.Card, error) {
	return r.updateLikes(ctx, id, func(tx *gorm.DB) error {
		return tx.Where("card_id = ? AND user_id = ?", id, userID).Delete(&cardLike{}).Error
	})
}

func (r *cardRepository) updateLikes(ctx context.Context, id string, change func(tx *gorm.DB) error) (*model.Card, error) {
	var updated *model.Card
	err := r.withTransaction(ctx, func(tx *gorm.DB) error {
		if _, err := r.find(tx, id); err != nil {
			return err
		}
		if err := change(tx); err != nil {
			return fmt.Errorf("update card likes: %w", err)
		}
		rec, err := r.find(tx, id)
		if err != nil {
			return err
		}
		updated = rec.toModel()
		return nil
	})
	return updated, err
}

// withTransaction executes fn within a database transaction.
func (r *cardRepository) withTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

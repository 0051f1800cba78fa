package service

import (
	"context"
	"errors"

	apperrors "mesto/internal/errors"
	"mesto/internal/events"
	"mesto/internal/model"
	"mesto/internal/repository"
)

// CardService handles card operations.
type CardService interface {
	CreateCard(ctx context.Context, ownerID, name, link string) (*model.Card, error)
	ListCards(ctx context.Context) ([]model.Card, error)
	DeleteCard(ctx context.Context, id, requesterID string) (*model.Card, error)
	LikeCard(ctx context.Context, id, userID string) (*model.Card, error)
	UnlikeCard(ctx context.Context, id, userID string) (*model.Card, error)
}

type cardService struct {
	cardRepo  repository.CardRepository
	publisher events.Publisher
}

// NewCardService creates a new card service.
func NewCardService(cardRepo repository.CardRepository, publisher events.Publisher) CardService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &cardService{
		cardRepo:  cardRepo,
		publisher: publisher,
	}
}

// CreateCard stores a card owned by ownerID.
func (s *cardService) CreateCard(ctx context.Context, ownerID, name, link string) (*model.Card, error) {
	card := &model.Card{
		Name:  name,
		Link:  link,
		Owner: ownerID,
		Likes: []string{},
	}
	if err := s.cardRepo.Create(ctx, card); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.publisher.Publish(events.SubjectCardCreated, events.Event{CardID: card.ID, ActorID: ownerID})
	return card, nil
}

// ListCards returns every card.
func (s *cardService) ListCards(ctx context.Context) ([]model.Card, error) {
	cards, err := s.cardRepo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return cards, nil
}

// DeleteCard removes a card. Existence is checked before ownership, so a
// missing card is always NotFound and a foreign card is always Forbidden.
func (s *cardService) DeleteCard(ctx context.Context, id, requesterID string) (*model.Card, error) {
	card, err := s.cardRepo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id)
	}
	if !card.OwnedBy(requesterID) {
		return nil, apperrors.Forbidden("you can delete only your own cards")
	}

	deleted, err := s.cardRepo.Delete(ctx, id, requesterID)
	if err != nil {
		return nil, s.translate(err, id)
	}

	s.publisher.Publish(events.SubjectCardDeleted, events.Event{CardID: id, ActorID: requesterID})
	return deleted, nil
}

// LikeCard adds userID to the card's liker set.
func (s *cardService) LikeCard(ctx context.Context, id, userID string) (*model.Card, error) {
	card, err := s.cardRepo.AddLike(ctx, id, userID)
	if err != nil {
		return nil, s.translate(err, id)
	}
	s.publisher.Publish(events.SubjectCardLiked, events.Event{CardID: id, ActorID: userID})
	return card, nil
}

// UnlikeCard removes userID from the card's liker set.
func (s *cardService) UnlikeCard(ctx context.Context, id, userID string) (*model.Card, error) {
	card, err := s.cardRepo.RemoveLike(ctx, id, userID)
	if err != nil {
		return nil, s.translate(err, id)
	}
	s.publisher.Publish(events.SubjectCardUnliked, events.Event{CardID: id, ActorID: userID})
	return card, nil
}

func (s *cardService) translate(err error, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.Newf(apperrors.KindNotFound, "card with id %s not found", id)
	}
	return apperrors.Internal(err)
}

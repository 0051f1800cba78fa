package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "mesto/internal/errors"
	"mesto/internal/events"
	"mesto/internal/model"
	"mesto/internal/repository"
)

const (
	ownerID    = "5f8d0d55b54764421b7156c1"
	strangerID = "5f8d0d55b54764421b7156c2"
	cardID     = "5f8d0d55b54764421b7156ca"
)

func TestCardService_CreateCard(t *testing.T) {
	mockRepo := new(MockCardRepository)
	mockPublisher := new(MockPublisher)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *model.Card) bool {
		return c.Owner == ownerID && c.Name == "Cat" && c.Link == "http://x.com/c.png"
	})).Run(func(args mock.Arguments) { args.Get(1).(*model.Card).ID = cardID }).Return(nil)
	mockPublisher.On("Publish", events.SubjectCardCreated, mock.MatchedBy(func(e events.Event) bool {
		return e.CardID == cardID && e.ActorID == ownerID
	})).Return()

	card, err := NewCardService(mockRepo, mockPublisher).CreateCard(context.Background(), ownerID, "Cat", "http://x.com/c.png")
	require.NoError(t, err)
	assert.Equal(t, ownerID, card.Owner)
	assert.NotNil(t, card.Likes)

	mockRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestCardService_DeleteCard(t *testing.T) {
	owned := &model.Card{ID: cardID, Owner: ownerID, Likes: []string{}}

	tests := []struct {
		name        string
		requesterID string
		setupMock   func(*MockCardRepository)
		wantKind    apperrors.Kind
	}{
		{
			name:        "owner deletes",
			requesterID: ownerID,
			setupMock: func(m *MockCardRepository) {
				m.On("FindByID", mock.Anything, cardID).Return(owned, nil)
				m.On("Delete", mock.Anything, cardID, ownerID).Return(owned, nil)
			},
		},
		{
			name:        "missing card is not found before ownership is checked",
			requesterID: strangerID,
			setupMock: func(m *MockCardRepository) {
				m.On("FindByID", mock.Anything, cardID).Return(nil, repository.ErrNotFound)
			},
			wantKind: apperrors.KindNotFound,
		},
		{
			name:        "stranger is forbidden",
			requesterID: strangerID,
			setupMock: func(m *MockCardRepository) {
				m.On("FindByID", mock.Anything, cardID).Return(owned, nil)
			},
			wantKind: apperrors.KindForbidden,
		},
		{
			name:        "card vanished between lookup and delete",
			requesterID: ownerID,
			setupMock: func(m *MockCardRepository) {
				m.On("FindByID", mock.Anything, cardID).Return(owned, nil)
				m.On("Delete", mock.Anything, cardID, ownerID).Return(nil, repository.ErrNotFound)
			},
			wantKind: apperrors.KindNotFound,
		},
		{
			name:        "store failure",
			requesterID: ownerID,
			setupMock: func(m *MockCardRepository) {
				m.On("FindByID", mock.Anything, cardID).Return(nil, errors.New("timeout"))
			},
			wantKind: apperrors.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockCardRepository)
			tt.setupMock(mockRepo)
			mockPublisher := new(MockPublisher)
			mockPublisher.On("Publish", events.SubjectCardDeleted, mock.Anything).Return().Maybe()

			card, err := NewCardService(mockRepo, mockPublisher).DeleteCard(context.Background(), cardID, tt.requesterID)

			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apperrors.KindOf(err))
				assert.Nil(t, card)
				mockRepo.AssertNotCalled(t, "Delete", mock.Anything, cardID, strangerID)
				mockPublisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, cardID, card.ID)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCardService_LikeAndUnlike(t *testing.T) {
	mockRepo := new(MockCardRepository)
	mockRepo.On("AddLike", mock.Anything, cardID, strangerID).
		Return(&model.Card{ID: cardID, Owner: ownerID, Likes: []string{strangerID}}, nil)
	mockRepo.On("RemoveLike", mock.Anything, cardID, strangerID).
		Return(&model.Card{ID: cardID, Owner: ownerID, Likes: []string{}}, nil)
	missing := repository.NewID()
	mockRepo.On("AddLike", mock.Anything, missing, strangerID).Return(nil, repository.ErrNotFound)
	mockRepo.On("RemoveLike", mock.Anything, missing, strangerID).Return(nil, repository.ErrNotFound)

	svc := NewCardService(mockRepo, nil)
	ctx := context.Background()

	liked, err := svc.LikeCard(ctx, cardID, strangerID)
	require.NoError(t, err)
	assert.Equal(t, []string{strangerID}, liked.Likes)

	unliked, err := svc.UnlikeCard(ctx, cardID, strangerID)
	require.NoError(t, err)
	assert.Empty(t, unliked.Likes)

	_, err = svc.LikeCard(ctx, missing, strangerID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	_, err = svc.UnlikeCard(ctx, missing, strangerID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	mockRepo.AssertExpectations(t)
}

func TestCardService_LikeTwiceKeepsOneLike(t *testing.T) {
	repo := repository.NewMemoryCardRepository()
	svc := NewCardService(repo, nil)
	ctx := context.Background()

	card, err := svc.CreateCard(ctx, ownerID, "Cat", "http://x.com/c.png")
	require.NoError(t, err)

	_, err = svc.LikeCard(ctx, card.ID, strangerID)
	require.NoError(t, err)
	liked, err := svc.LikeCard(ctx, card.ID, strangerID)
	require.NoError(t, err)
	assert.Len(t, liked.Likes, 1)

	unliked, err := svc.UnlikeCard(ctx, card.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, []string{strangerID}, unliked.Likes)
}

func TestCardService_StrangerDeleteLeavesCard(t *testing.T) {
	repo := repository.NewMemoryCardRepository()
	svc := NewCardService(repo, nil)
	ctx := context.Background()

	card, err := svc.CreateCard(ctx, ownerID, "Cat", "http://x.com/c.png")
	require.NoError(t, err)

	_, err = svc.DeleteCard(ctx, card.ID, strangerID)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	_, err = repo.FindByID(ctx, card.ID)
	assert.NoError(t, err)
}

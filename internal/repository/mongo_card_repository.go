package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mesto/internal/model"
)

// CardsCollection is the MongoDB collection holding cards.
const CardsCollection = "cards"

type cardDocument struct {
	ID        primitive.ObjectID   `bson:"_id"`
	Name      string               `bson:"name"`
	Link      string               `bson:"link"`
	Owner     primitive.ObjectID   `bson:"owner"`
	Likes     []primitive.ObjectID `bson:"likes"`
	CreatedAt time.Time            `bson:"createdAt"`
}

func (d *cardDocument) toModel() *model.Card {
	likes := make([]string, 0, len(d.Likes))
	for _, id := range d.Likes {
		likes = append(likes, id.Hex())
	}
	return &model.Card{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Link:      d.Link,
		Owner:     d.Owner.Hex(),
		Likes:     likes,
		CreatedAt: d.CreatedAt,
	}
}

type mongoCardRepository struct {
	collection *mongo.Collection
}

// NewMongoCardRepository builds a MongoDB-backed card repository.
func NewMongoCardRepository(db *mongo.Database) CardRepository {
	return &mongoCardRepository{collection: db.Collection(CardsCollection)}
}

func (r *mongoCardRepository) Create(ctx context.Context, card *model.Card) error {
	if card.ID == "" {
		card.ID = NewID()
	}
	if card.CreatedAt.IsZero() {
		card.CreatedAt = time.Now().UTC()
	}
	if card.Likes == nil {
		card.Likes = []string{}
	}

	oid, err := primitive.ObjectIDFromHex(card.ID)
	if err != nil {
		return fmt.Errorf("card id %q: %w", card.ID, err)
	}
	owner, err := primitive.ObjectIDFromHex(card.Owner)
	if err != nil {
		return fmt.Errorf("card owner %q: %w", card.Owner, err)
	}

	doc := cardDocument{
		ID:        oid,
		Name:      card.Name,
		Link:      card.Link,
		Owner:     owner,
		Likes:     []primitive.ObjectID{},
		CreatedAt: card.CreatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert card: %w", err)
	}
	return nil
}

func (r *mongoCardRepository) FindByID(ctx context.Context, id string) (*model.Card, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var doc cardDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find card: %w", err)
	}
	return doc.toModel(), nil
}

func (r *mongoCardRepository) List(ctx context.Context) ([]model.Card, error) {
	cur, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find cards: %w", err)
	}
	var docs []cardDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode cards: %w", err)
	}

	cards := make([]model.Card, 0, len(docs))
	for i := range docs {
		cards = append(cards, *docs[i].toModel())
	}
	return cards, nil
}

func (r *mongoCardRepository) Delete(ctx context.Context, id, ownerID string) (*model.Card, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc cardDocument
	if err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": oid, "owner": owner}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete card: %w", err)
	}
	return doc.toModel(), nil
}

func (r *mongoCardRepository) AddLike(ctx context.Context, id, userID string) (*model.Card, error) {
	return r.updateLikes(ctx, id, userID, "$addToSet")
}

func (r *mongoCardRepository) RemoveLike(ctx context.Context, id, userID string) (*model.Card, error) {
	return r.updateLikes(ctx, id, userID, "$pull")
}

// updateLikes applies a set operator to the likes array in a single atomic update.
func (r *mongoCardRepository) updateLikes(ctx context.Context, id, userID, operator string) (*model.Card, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("liker id %q: %w", userID, err)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc cardDocument
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{operator: bson.M{"likes": uid}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update card likes: %w", err)
	}
	return doc.toModel(), nil
}

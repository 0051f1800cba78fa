package model

import "time"

// Card is an image card published by its owner and liked by any user.
type Card struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Link      string    `json:"link"`
	Owner     string    `json:"owner"`
	Likes     []string  `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
}

// LikedBy reports whether userID is in the card's liker set.
func (c *Card) LikedBy(userID string) bool {
	for _, id := range c.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// OwnedBy reports whether userID published the card.
func (c *Card) OwnedBy(userID string) bool {
	return c.Owner == userID
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPairKeyIsOrderIndependent(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	assert.Equal(t, PairKey(a, b), PairKey(b, a))
	assert.Equal(t, SortedPair(a, b), SortedPair(b, a))
}

func TestPairKeySelfConversation(t *testing.T) {
	a := primitive.NewObjectID()
	assert.Equal(t, a.Hex()+":"+a.Hex(), PairKey(a, a))
}

func TestOther(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	c := Conversation{ParticipantIDs: SortedPair(a, b)}

	assert.Equal(t, b, c.Other(a))
	assert.Equal(t, a, c.Other(b))

	self := Conversation{ParticipantIDs: []primitive.ObjectID{a, a}}
	assert.Equal(t, a, self.Other(a))
}

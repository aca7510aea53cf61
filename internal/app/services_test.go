package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelsToTags(t *testing.T) {
	assert.Equal(t, []string{"wifi", "breakfast", "tv"},
		LabelsToTags([]string{"Wi-Fi gratuit", "petit-dejeuner", "TELEVISION", "Hammam", "Wi-Fi gratuit"}))
	assert.Empty(t, LabelsToTags(nil))
	assert.Empty(t, LabelsToTags([]string{"unknown"}))
}

func TestSplitServiceTags(t *testing.T) {
	est, room := SplitServiceTags([]string{"tv", "pool", "tv", "sauna", "parking", "safe"})
	assert.Equal(t, []string{"pool", "parking"}, est)
	assert.Equal(t, []string{"tv", "safe"}, room)

	est, room = SplitServiceTags(nil)
	assert.Nil(t, est)
	assert.Nil(t, room)
}

func TestEveryLabelHasAnOwner(t *testing.T) {
	for label, tag := range establishmentServiceLabels {
		assert.Equal(t, ownedByEstablishment, serviceOwners[tag], label)
	}
	for label, tag := range roomServiceLabels {
		assert.Equal(t, ownedByRoom, serviceOwners[tag], label)
	}
	assert.Len(t, serviceOwners, len(establishmentServiceLabels)+len(roomServiceLabels))
}

func TestContainsFold(t *testing.T) {
	assert.True(t, containsFold("Hôtel Paris Centre", "hotel paris"))
	assert.True(t, containsFold("Gîte des Écrins", "ECRINS"))
	assert.False(t, containsFold("Villa Azur", "paris"))
	assert.False(t, containsFold("Villa Azur", "  "))
}

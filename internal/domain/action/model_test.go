package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_Valid(t *testing.T) {
	assert.True(t, KindBooking.Valid())
	assert.True(t, KindContactForm.Valid())
	assert.False(t, Kind("newsletter").Valid())
	assert.False(t, Kind("").Valid())
}

func TestKind_Endpoint(t *testing.T) {
	assert.Equal(t, "/api/bookings", KindBooking.Endpoint())
	assert.Equal(t, "/api/contact", KindContactForm.Endpoint())
	assert.Equal(t, "", Kind("newsletter").Endpoint())
}

func TestKinds(t *testing.T) {
	kinds := Kinds()
	assert.Equal(t, []Kind{KindBooking, KindContactForm}, kinds)
	for _, k := range kinds {
		assert.True(t, k.Valid())
		assert.NotEmpty(t, k.Endpoint())
	}
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDestinationConstructors(t *testing.T) {
	shop := ShopDestination(5)
	assert.True(t, shop.IsShop())
	assert.False(t, shop.IsCustomer())
	assert.True(t, shop.Valid())
	assert.Equal(t, "shop:5", shop.String())

	customer := CustomerDestination(9)
	assert.True(t, customer.IsCustomer())
	assert.False(t, customer.IsShop())
	assert.True(t, customer.Valid())
	assert.Equal(t, "customer:9", customer.String())
}

func TestDestinationValid(t *testing.T) {
	assert.False(t, Destination{}.Valid())
	assert.False(t, Destination{Type: DestinationShop, ID: 0}.Valid())
	assert.False(t, Destination{Type: "depo", ID: 3}.Valid())
	assert.True(t, Destination{Type: DestinationCustomer, ID: 3}.Valid())
}

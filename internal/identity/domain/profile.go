package domain

import "time"

// Role constants. A coffee maker is staff: they manage orders and the catalog.
const (
	RoleCustomer    = "customer"
	RoleCoffeeMaker = "coffee-maker"
)

// Profile is the per-user record keyed by the OAuth provider's uid. New users
// default to non-staff; the coffee_maker flag is flipped out of band.
type Profile struct {
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	CoffeeMaker bool      `json:"coffee_maker"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Role derives the authorization role from the staff flag.
func (p *Profile) Role() string {
	if p.CoffeeMaker {
		return RoleCoffeeMaker
	}
	return RoleCustomer
}

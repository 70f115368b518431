package constants

const (
	Seller = "seller"
	Buyer  = "buyer"
	Admin  = "admin"
)

// ValidRoles is every role a user row may carry.
var ValidRoles = []string{Seller, Buyer, Admin}

// SelfServiceRoles are the roles open to public registration.
var SelfServiceRoles = []string{Seller, Buyer}

// IsValidRole returns true if role is one of the allowed values.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsSelfServiceRole returns true if role may be chosen at registration.
func IsSelfServiceRole(role string) bool {
	for _, r := range SelfServiceRoles {
		if r == role {
			return true
		}
	}
	return false
}

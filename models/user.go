package models

type UserAddress struct {
	ID        string `json:"id" bson:"id" validate:"required"`
	Type      string `json:"type" bson:"type" validate:"oneof=home work other"`
	Address   string `json:"address" bson:"address" validate:"required"`
	Details   string `json:"details,omitempty" bson:"details,omitempty"`
	IsDefault bool   `json:"isDefault,omitempty" bson:"isDefault,omitempty"`
}

type UserProfile struct {
	ID                string        `json:"id" bson:"id" validate:"required"`
	Name              string        `json:"name" bson:"name" validate:"required"`
	Email             string        `json:"email" bson:"email" validate:"required,email"`
	Phone             string        `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	Addresses         []UserAddress `json:"addresses" bson:"addresses" validate:"dive"`
	PushNotifications bool          `json:"pushNotifications" bson:"pushNotifications"`
}

// DefaultAddress returns the address flagged as default, else the first one.
func (u UserProfile) DefaultAddress() (UserAddress, bool) {
	for _, a := range u.Addresses {
		if a.IsDefault {
			return a, true
		}
	}
	if len(u.Addresses) > 0 {
		return u.Addresses[0], true
	}
	return UserAddress{}, false
}

package domain

import "time"

// ShopConfig is a singleton entity: exactly one row exists at all times,
// lazily created with defaults on first read.
type ShopConfig struct {
	Name            string    `json:"name" db:"name"`
	Phone           string    `json:"phone" db:"phone"`
	Email           string    `json:"email" db:"email"`
	Address         string    `json:"address" db:"address"`
	WhatsAppNumber  string    `json:"whatsappNumber" db:"whatsapp_number"`
	Instagram       string    `json:"instagram" db:"instagram"`
	OrderPrefix     string    `json:"orderPrefix" db:"order_prefix"`
	PrimaryColor    string    `json:"primaryColor" db:"primary_color"`
	BackgroundLight string    `json:"backgroundLight" db:"background_light"`
	BackgroundDark  string    `json:"backgroundDark" db:"background_dark"`
	TextColor       string    `json:"textColor" db:"text_color"`
	Currency        string    `json:"currency" db:"currency"`
	Timezone        string    `json:"timezone" db:"timezone"`
	DeliveryEnabled bool      `json:"deliveryEnabled" db:"delivery_enabled"`
	PickupEnabled   bool      `json:"pickupEnabled" db:"pickup_enabled"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// DefaultShopConfig returns the factory settings used on first read and by
// the admin reset endpoint.
func DefaultShopConfig() ShopConfig {
	return ShopConfig{
		Name:            "Aizu's Kitchen",
		OrderPrefix:     "AK-",
		PrimaryColor:    "#ff6933",
		BackgroundLight: "#f8f6f5",
		BackgroundDark:  "#23140f",
		TextColor:       "#181210",
		Currency:        "INR",
		Timezone:        "Asia/Kolkata",
		DeliveryEnabled: true,
		PickupEnabled:   true,
	}
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"kitchen-api/internal/domain"
)

// ShopConfigUpdate carries a partial update; nil fields are left unchanged
type ShopConfigUpdate struct {
	Name            *string
	Phone           *string
	Email           *string
	Address         *string
	WhatsAppNumber  *string
	Instagram       *string
	OrderPrefix     *string
	PrimaryColor    *string
	BackgroundLight *string
	BackgroundDark  *string
	TextColor       *string
	Currency        *string
	Timezone        *string
	DeliveryEnabled *bool
	PickupEnabled   *bool
}

// ShopConfigRepository owns the shop configuration singleton. Exactly one
// row exists; it is lazily created with defaults on first read and never
// deleted.
type ShopConfigRepository interface {
	GetOrCreateDefault(ctx context.Context) (*domain.ShopConfig, error)
	Update(ctx context.Context, update ShopConfigUpdate) (*domain.ShopConfig, error)
	Reset(ctx context.Context) (*domain.ShopConfig, error)
}

type shopConfigRepository struct {
	db *sql.DB
}

// NewShopConfigRepository creates a new instance of ShopConfigRepository
func NewShopConfigRepository(db *sql.DB) ShopConfigRepository {
	return &shopConfigRepository{db: db}
}

const shopConfigColumns = `name, phone, email, address, whatsapp_number, instagram, order_prefix,
		primary_color, background_light, background_dark, text_color,
		currency, timezone, delivery_enabled, pickup_enabled, created_at, updated_at`

func scanShopConfig(row interface{ Scan(...any) error }) (*domain.ShopConfig, error) {
	cfg := &domain.ShopConfig{}
	err := row.Scan(
		&cfg.Name,
		&cfg.Phone,
		&cfg.Email,
		&cfg.Address,
		&cfg.WhatsAppNumber,
		&cfg.Instagram,
		&cfg.OrderPrefix,
		&cfg.PrimaryColor,
		&cfg.BackgroundLight,
		&cfg.BackgroundDark,
		&cfg.TextColor,
		&cfg.Currency,
		&cfg.Timezone,
		&cfg.DeliveryEnabled,
		&cfg.PickupEnabled,
		&cfg.CreatedAt,
		&cfg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetOrCreateDefault returns the config row, inserting the defaults if it
// does not exist yet. Two concurrent first reads may both attempt the
// insert; ON CONFLICT DO NOTHING makes that race self-healing since the
// inserted content is identical defaults.
func (r *shopConfigRepository) GetOrCreateDefault(ctx context.Context) (*domain.ShopConfig, error) {
	insert := `
		INSERT INTO shop_config (singleton)
		VALUES (TRUE)
		ON CONFLICT (singleton) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, insert); err != nil {
		return nil, fmt.Errorf("failed to ensure shop config: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM shop_config
		WHERE singleton = TRUE
	`, shopConfigColumns)

	cfg, err := scanShopConfig(r.db.QueryRowContext(ctx, query))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shop config: %w", err)
	}

	return cfg, nil
}

// Update applies a partial update to the singleton. Only supplied fields
// change.
func (r *shopConfigRepository) Update(ctx context.Context, update ShopConfigUpdate) (*domain.ShopConfig, error) {
	if _, err := r.GetOrCreateDefault(ctx); err != nil {
		return nil, err
	}

	setClauses := []string{}
	args := []any{}
	argIndex := 1

	addSet := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if update.Name != nil {
		addSet("name", *update.Name)
	}
	if update.Phone != nil {
		addSet("phone", *update.Phone)
	}
	if update.Email != nil {
		addSet("email", *update.Email)
	}
	if update.Address != nil {
		addSet("address", *update.Address)
	}
	if update.WhatsAppNumber != nil {
		addSet("whatsapp_number", *update.WhatsAppNumber)
	}
	if update.Instagram != nil {
		addSet("instagram", *update.Instagram)
	}
	if update.OrderPrefix != nil {
		addSet("order_prefix", *update.OrderPrefix)
	}
	if update.PrimaryColor != nil {
		addSet("primary_color", *update.PrimaryColor)
	}
	if update.BackgroundLight != nil {
		addSet("background_light", *update.BackgroundLight)
	}
	if update.BackgroundDark != nil {
		addSet("background_dark", *update.BackgroundDark)
	}
	if update.TextColor != nil {
		addSet("text_color", *update.TextColor)
	}
	if update.Currency != nil {
		addSet("currency", *update.Currency)
	}
	if update.Timezone != nil {
		addSet("timezone", *update.Timezone)
	}
	if update.DeliveryEnabled != nil {
		addSet("delivery_enabled", *update.DeliveryEnabled)
	}
	if update.PickupEnabled != nil {
		addSet("pickup_enabled", *update.PickupEnabled)
	}

	if len(setClauses) == 0 {
		return r.GetOrCreateDefault(ctx)
	}

	addSet("updated_at", time.Now())

	query := fmt.Sprintf(`
		UPDATE shop_config
		SET %s
		WHERE singleton = TRUE
		RETURNING %s
	`, strings.Join(setClauses, ", "), shopConfigColumns)

	cfg, err := scanShopConfig(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to update shop config: %w", err)
	}

	return cfg, nil
}

// Reset restores the factory defaults, keeping the single row in place
func (r *shopConfigRepository) Reset(ctx context.Context) (*domain.ShopConfig, error) {
	defaults := domain.DefaultShopConfig()

	return r.Update(ctx, ShopConfigUpdate{
		Name:            &defaults.Name,
		Phone:           &defaults.Phone,
		Email:           &defaults.Email,
		Address:         &defaults.Address,
		WhatsAppNumber:  &defaults.WhatsAppNumber,
		Instagram:       &defaults.Instagram,
		OrderPrefix:     &defaults.OrderPrefix,
		PrimaryColor:    &defaults.PrimaryColor,
		BackgroundLight: &defaults.BackgroundLight,
		BackgroundDark:  &defaults.BackgroundDark,
		TextColor:       &defaults.TextColor,
		Currency:        &defaults.Currency,
		Timezone:        &defaults.Timezone,
		DeliveryEnabled: &defaults.DeliveryEnabled,
		PickupEnabled:   &defaults.PickupEnabled,
	})
}

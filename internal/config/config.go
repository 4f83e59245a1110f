// Package config holds the bot's static configuration document and the
// environment-supplied secrets. Both are loaded once at startup and injected.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Ticket category names.
const (
	CategoryQuotes  = "quotes"
	CategoryApply   = "apply"
	CategorySupport = "support"
)

const defaultPollInterval = 10 * time.Second

type Config struct {
	General     General      `yaml:"general"`
	Invoice     Invoice      `yaml:"invoice"`
	Permissions Permissions  `yaml:"permissions"`
	Tickets     Tickets      `yaml:"tickets"`
	Departments []Department `yaml:"departments" validate:"dive"`
	Join        Join         `yaml:"join"`
	Wallet      Wallet       `yaml:"wallet"`

	Env Env `yaml:"-"`
}

type General struct {
	GuildID    int64  `yaml:"guild_id" validate:"required"`
	EmbedColor string `yaml:"embed_color" validate:"omitempty,hexcolor"`
}

type Invoice struct {
	FeePercent   float64       `yaml:"fee_percent" validate:"gte=0,lt=100"`
	MerchantName string        `yaml:"merchant_name"`
	Website      string        `yaml:"website" validate:"omitempty,url"`
	LogoURL      string        `yaml:"logo_url" validate:"omitempty,url"`
	Currency     string        `yaml:"currency" validate:"omitempty,len=3"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// Permissions lists the role ids allowed per permission class.
type Permissions struct {
	TicketRoles      []int64 `yaml:"ticket_roles"`
	InvoiceRoles     []int64 `yaml:"invoice_roles"`
	WalletAdminRoles []int64 `yaml:"wallet_admin_roles"`
	FreelancerRoles  []int64 `yaml:"freelancer_roles"`
	EmbedRoles       []int64 `yaml:"embed_roles"`
	AdminRoles       []int64 `yaml:"admin_roles"`
	VouchRoles       []int64 `yaml:"vouch_roles"`
}

type Tickets struct {
	WithdrawChannelID int64 `yaml:"withdraw_channel_id" validate:"required"`
	// VouchChannelID receives a copy of every review; zero posts only in the ticket.
	VouchChannelID int64               `yaml:"vouch_channel_id"`
	Categories     map[string]Category `yaml:"categories" validate:"dive"`
}

type Category struct {
	CategoryID int64    `yaml:"category_id" validate:"required"`
	AddedRoles []int64  `yaml:"added_roles"`
	Questions  []Prompt `yaml:"questions" validate:"max=5,dive"`
}

// Prompt is one question asked when a ticket is opened.
type Prompt struct {
	Label     string `yaml:"label" validate:"required,max=45"`
	Long      bool   `yaml:"long"`
	MaxLength int    `yaml:"max_length" validate:"gte=0,lte=4000"`
	Reference string `yaml:"reference" validate:"required"`
}

type Department struct {
	Name      string `yaml:"name" validate:"required"`
	RoleID    int64  `yaml:"role_id" validate:"required"`
	ChannelID int64  `yaml:"channel_id" validate:"required"`
}

type Join struct {
	Roles            []int64 `yaml:"roles"`
	WelcomeChannelID int64   `yaml:"welcome_channel_id"`
}

type Wallet struct {
	// RestoreOnDeny credits a denied withdrawal back to the wallet.
	RestoreOnDeny bool `yaml:"restore_on_deny"`
}

// Env carries secrets and deployment settings read from the environment.
type Env struct {
	DiscordToken        string   `env:"DISCORD_TOKEN"`
	DatabaseURL         string   `env:"DATABASE_URL" envDefault:"postgres://localhost:5432/commissionbot?sslmode=disable"`
	PayPalClientID      string   `env:"PAYPAL_CLIENT_ID"`
	PayPalClientSecret  string   `env:"PAYPAL_CLIENT_SECRET"`
	PayPalBaseURL       string   `env:"PAYPAL_BASE_URL" envDefault:"https://api-m.sandbox.paypal.com"`
	RedisAddr           string   `env:"REDIS_ADDR"`
	RedisPassword       string   `env:"REDIS_PASSWORD"`
	JWTSecret           string   `env:"JWT_SECRET"`
	AdminUsername       string   `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPasswordHash   string   `env:"ADMIN_PASSWORD_HASH"`
	AdminAllowedOrigins []string `env:"ADMIN_ALLOWED_ORIGINS" envSeparator:","`
	Port                string   `env:"PORT" envDefault:"8080"`
}

// Load reads the YAML document at path and the environment.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	if err := env.Parse(&cfg.Env); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Parse decodes and validates a YAML document. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Invoice.PollInterval <= 0 {
		c.Invoice.PollInterval = defaultPollInterval
	}
	if c.Invoice.Currency == "" {
		c.Invoice.Currency = "USD"
	}
	if c.General.EmbedColor == "" {
		c.General.EmbedColor = "#5865F2"
	}
}

func (c *Config) validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	for name := range c.Tickets.Categories {
		switch name {
		case CategoryQuotes, CategoryApply, CategorySupport:
		default:
			return fmt.Errorf("validate: unknown ticket category %q", name)
		}
	}
	seen := make(map[int64]bool, len(c.Departments))
	for _, d := range c.Departments {
		if seen[d.ChannelID] {
			return fmt.Errorf("validate: department channel %d listed twice", d.ChannelID)
		}
		seen[d.ChannelID] = true
	}
	return nil
}

// FeePercent returns the configured fee as a decimal.
func (c *Config) FeePercent() decimal.Decimal {
	return decimal.NewFromFloat(c.Invoice.FeePercent)
}

// DepartmentByChannel finds the department whose board channel is channelID.
func (c *Config) DepartmentByChannel(channelID int64) (Department, bool) {
	for _, d := range c.Departments {
		if d.ChannelID == channelID {
			return d, true
		}
	}
	return Department{}, false
}

// DepartmentByRole finds the department whose freelancer role is roleID.
func (c *Config) DepartmentByRole(roleID int64) (Department, bool) {
	for _, d := range c.Departments {
		if d.RoleID == roleID {
			return d, true
		}
	}
	return Department{}, false
}

var ErrUnknownCategory = errors.New("unknown ticket category")

func (c *Config) Category(name string) (Category, error) {
	cat, ok := c.Tickets.Categories[name]
	if !ok {
		return Category{}, fmt.Errorf("%w: %s", ErrUnknownCategory, name)
	}
	return cat, nil
}

// HasAnyRole reports whether any of held appears in allowed.
func HasAnyRole(held, allowed []int64) bool {
	for _, r := range held {
		if slices.Contains(allowed, r) {
			return true
		}
	}
	return false
}

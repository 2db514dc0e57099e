package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/appointment"
)

type Config struct {
	ServerPort string
	DBUrl      string
	JWTSecret  string
	Timezone   string
	Debug      bool
	LogPath    string

	CORSOrigins []string

	Booking  BookingConfig
	Reminder ReminderConfig
	Redis    RedisConfig
	NATS     NATSConfig
	Twilio   TwilioConfig
	S3       S3Config
}

type BookingConfig struct {
	SlotGranularityMin int
	RejectionPolicy    appointment.RejectionPolicy
	FraudKeywords      []string
}

type ReminderConfig struct {
	CutoffHour int
	SweepSpec  string
}

type RedisConfig struct {
	URL string
}

type NATSConfig struct {
	URL string
}

type TwilioConfig struct {
	AccountSID     string
	AuthToken      string
	PhoneNumber    string
	WhatsAppNumber string
}

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PublicURL string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SECRET", "changeme")
	v.SetDefault("TIMEZONE", "America/Sao_Paulo")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs")
	v.SetDefault("SLOT_GRANULARITY_MINUTES", appointment.DefaultSlotGranularity)
	v.SetDefault("REMINDER_CUTOFF_HOUR", 18)
	v.SetDefault("REMINDER_SWEEP_SPEC", "@hourly")
	v.SetDefault("FRAUD_KEYWORDS", "")
	v.SetDefault("S3_REGION", "us-east-1")

	policy, err := appointment.ParseRejectionPolicy(v.GetString("VOUCHER_REJECTION_POLICY"))
	if err != nil {
		return nil, fmt.Errorf("VOUCHER_REJECTION_POLICY: %w", err)
	}

	cfg := &Config{
		ServerPort: v.GetString("SERVER_PORT"),
		DBUrl:      v.GetString("DATABASE_URL"),
		JWTSecret:  v.GetString("JWT_SECRET"),
		Timezone:   v.GetString("TIMEZONE"),
		Debug:      v.GetBool("DEBUG"),
		LogPath:    v.GetString("LOG_PATH"),

		CORSOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		Booking: BookingConfig{
			SlotGranularityMin: v.GetInt("SLOT_GRANULARITY_MINUTES"),
			RejectionPolicy:    policy,
			FraudKeywords:      splitList(v.GetString("FRAUD_KEYWORDS")),
		},
		Reminder: ReminderConfig{
			CutoffHour: v.GetInt("REMINDER_CUTOFF_HOUR"),
			SweepSpec:  v.GetString("REMINDER_SWEEP_SPEC"),
		},
		Redis: RedisConfig{URL: v.GetString("REDIS_URL")},
		NATS:  NATSConfig{URL: v.GetString("NATS_URL")},
		Twilio: TwilioConfig{
			AccountSID:     v.GetString("TWILIO_ACCOUNT_SID"),
			AuthToken:      v.GetString("TWILIO_AUTH_TOKEN"),
			PhoneNumber:    v.GetString("TWILIO_PHONE_NUMBER"),
			WhatsAppNumber: v.GetString("TWILIO_WHATSAPP_NUMBER"),
		},
		S3: S3Config{
			Bucket:    v.GetString("S3_BUCKET"),
			Region:    v.GetString("S3_REGION"),
			Endpoint:  v.GetString("S3_ENDPOINT"),
			AccessKey: v.GetString("S3_ACCESS_KEY"),
			SecretKey: v.GetString("S3_SECRET_KEY"),
			PublicURL: v.GetString("S3_PUBLIC_URL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Booking.SlotGranularityMin <= 0 || c.Booking.SlotGranularityMin > 240 {
		return fmt.Errorf("SLOT_GRANULARITY_MINUTES must be between 1 and 240")
	}
	if c.Reminder.CutoffHour < 0 || c.Reminder.CutoffHour > 23 {
		return fmt.Errorf("REMINDER_CUTOFF_HOUR must be between 0 and 23")
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}

func (c *Config) UseMemoryStore() bool {
	return c.DBUrl == ""
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

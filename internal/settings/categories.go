package settings

// Setting keys read by the policy code.
const (
	KeyMaxLoginAttempts       = "max_login_attempts"
	KeyLockoutDurationMinutes = "lockout_duration_minutes"
	KeyAllowRegistration      = "allow_registration"
	KeyRequireEmailVerify     = "require_email_verify"
	KeyMinPasswordLength      = "min_password_length"
	KeySessionTimeoutHours    = "session_timeout_hours"

	KeySiteName        = "site_name"
	KeySiteDescription = "site_description"
	KeyContactEmail    = "contact_email"
	KeyMaintenanceMode = "maintenance_mode"

	KeySMTPEnabled  = "smtp_enabled"
	KeySMTPHost     = "smtp_host"
	KeySMTPPort     = "smtp_port"
	KeySMTPUser     = "smtp_user"
	KeySMTPPassword = "smtp_password"
	KeySMTPFromAddr = "smtp_from_addr"
	KeySMTPFromName = "smtp_from_name"

	KeyPriceExpiryDays       = "price_expiry_days"
	KeyVerificationThreshold = "verification_threshold"
	KeyAllowAnonymousPrices  = "allow_anonymous_prices"
	KeyRequireReceipt        = "require_receipt"
	KeyMaxPriceDeviation     = "max_price_deviation"

	KeyPointsPriceSubmission = "points_price_submission"
	KeyPointsVerification    = "points_verification"
	KeyPointsStoreAdded      = "points_store_added"
	KeyPointsItemAdded       = "points_item_added"
	KeyLevelBronze           = "level_bronze"
	KeyLevelSilver           = "level_silver"
	KeyLevelGold             = "level_gold"
	KeyLevelPlatinum         = "level_platinum"

	KeyAPIRateLimit     = "api_rate_limit"
	KeyCORSOrigins      = "cors_origins"
	KeyEnablePublicAPI  = "enable_public_api"
	KeyRequireAPIKey    = "require_api_key"
	KeyCaptchaEnabled   = "captcha_enabled"
	KeyCaptchaSiteKey   = "captcha_site_key"
	KeyCaptchaSecretKey = "captcha_secret_key"
)

// Defaults applied when a setting is absent or malformed.
const (
	DefaultMaxLoginAttempts       = 5
	DefaultLockoutDurationMinutes = 15
	DefaultMinPasswordLength      = 8
	DefaultSessionTimeoutHours    = 24
	DefaultSMTPPort               = 587
	DefaultPriceExpiryDays        = 7
	DefaultVerificationThreshold  = 3
	DefaultMaxPriceDeviation      = 50
	DefaultPointsPriceSubmission  = 5
	DefaultPointsVerification     = 2
	DefaultPointsStoreAdded       = 10
	DefaultPointsItemAdded        = 3
	DefaultLevelBronze            = 100
	DefaultLevelSilver            = 500
	DefaultLevelGold              = 1000
	DefaultLevelPlatinum          = 5000
	DefaultAPIRateLimit           = 60
)

type AuthSettings struct {
	AllowRegistration      bool `json:"allow_registration"`
	RequireEmailVerify     bool `json:"require_email_verify"`
	MinPasswordLength      int  `json:"min_password_length"`
	SessionTimeoutHours    int  `json:"session_timeout_hours"`
	MaxLoginAttempts       int  `json:"max_login_attempts"`
	LockoutDurationMinutes int  `json:"lockout_duration_minutes"`
}

func AuthSettingsFrom(s *Snapshot) AuthSettings {
	return AuthSettings{
		AllowRegistration:      s.Bool(KeyAllowRegistration),
		RequireEmailVerify:     s.Bool(KeyRequireEmailVerify),
		MinPasswordLength:      s.Int(KeyMinPasswordLength, DefaultMinPasswordLength),
		SessionTimeoutHours:    s.Int(KeySessionTimeoutHours, DefaultSessionTimeoutHours),
		MaxLoginAttempts:       s.Int(KeyMaxLoginAttempts, DefaultMaxLoginAttempts),
		LockoutDurationMinutes: s.Int(KeyLockoutDurationMinutes, DefaultLockoutDurationMinutes),
	}
}

type GeneralSettings struct {
	SiteName        string `json:"site_name"`
	SiteDescription string `json:"site_description"`
	ContactEmail    string `json:"contact_email"`
	MaintenanceMode bool   `json:"maintenance_mode"`
}

func GeneralSettingsFrom(s *Snapshot) GeneralSettings {
	return GeneralSettings{
		SiteName:        s.String(KeySiteName, "PriceFeed"),
		SiteDescription: s.String(KeySiteDescription, "Community-driven grocery price comparison"),
		ContactEmail:    s.String(KeyContactEmail, "support@pricefeed.app"),
		MaintenanceMode: s.Bool(KeyMaintenanceMode),
	}
}

// EmailSettings carries the SMTP configuration. SMTPPassword is opened with
// the supplied Opener and is empty when it cannot be decrypted.
type EmailSettings struct {
	SMTPEnabled  bool   `json:"smtp_enabled"`
	SMTPHost     string `json:"smtp_host"`
	SMTPPort     int    `json:"smtp_port"`
	SMTPUser     string `json:"smtp_user"`
	SMTPPassword string `json:"-"`
	FromAddr     string `json:"from_addr"`
	FromName     string `json:"from_name"`
}

func EmailSettingsFrom(s *Snapshot, opener Opener) EmailSettings {
	password, _ := s.Secret(KeySMTPPassword, opener)
	return EmailSettings{
		SMTPEnabled:  s.Bool(KeySMTPEnabled),
		SMTPHost:     s.String(KeySMTPHost, ""),
		SMTPPort:     s.Int(KeySMTPPort, DefaultSMTPPort),
		SMTPUser:     s.String(KeySMTPUser, ""),
		SMTPPassword: password,
		FromAddr:     s.String(KeySMTPFromAddr, "noreply@pricefeed.app"),
		FromName:     s.String(KeySMTPFromName, "PriceFeed"),
	}
}

type PriceSettings struct {
	PriceExpiryDays       int  `json:"price_expiry_days"`
	VerificationThreshold int  `json:"verification_threshold"`
	AllowAnonymousPrices  bool `json:"allow_anonymous_prices"`
	RequireReceipt        bool `json:"require_receipt"`
	MaxPriceDeviation     int  `json:"max_price_deviation"`
}

func PriceSettingsFrom(s *Snapshot) PriceSettings {
	return PriceSettings{
		PriceExpiryDays:       s.Int(KeyPriceExpiryDays, DefaultPriceExpiryDays),
		VerificationThreshold: s.Int(KeyVerificationThreshold, DefaultVerificationThreshold),
		AllowAnonymousPrices:  s.Bool(KeyAllowAnonymousPrices),
		RequireReceipt:        s.Bool(KeyRequireReceipt),
		MaxPriceDeviation:     s.Int(KeyMaxPriceDeviation, DefaultMaxPriceDeviation),
	}
}

type ReputationSettings struct {
	PointsPriceSubmission int `json:"points_price_submission"`
	PointsVerification    int `json:"points_verification"`
	PointsStoreAdded      int `json:"points_store_added"`
	PointsItemAdded       int `json:"points_item_added"`
	LevelBronze           int `json:"level_bronze"`
	LevelSilver           int `json:"level_silver"`
	LevelGold             int `json:"level_gold"`
	LevelPlatinum         int `json:"level_platinum"`
}

func ReputationSettingsFrom(s *Snapshot) ReputationSettings {
	return ReputationSettings{
		PointsPriceSubmission: s.Int(KeyPointsPriceSubmission, DefaultPointsPriceSubmission),
		PointsVerification:    s.Int(KeyPointsVerification, DefaultPointsVerification),
		PointsStoreAdded:      s.Int(KeyPointsStoreAdded, DefaultPointsStoreAdded),
		PointsItemAdded:       s.Int(KeyPointsItemAdded, DefaultPointsItemAdded),
		LevelBronze:           s.Int(KeyLevelBronze, DefaultLevelBronze),
		LevelSilver:           s.Int(KeyLevelSilver, DefaultLevelSilver),
		LevelGold:             s.Int(KeyLevelGold, DefaultLevelGold),
		LevelPlatinum:         s.Int(KeyLevelPlatinum, DefaultLevelPlatinum),
	}
}

type APISettings struct {
	APIRateLimit    int    `json:"api_rate_limit"`
	CORSOrigins     string `json:"cors_origins"`
	EnablePublicAPI bool   `json:"enable_public_api"`
	RequireAPIKey   bool   `json:"require_api_key"`
	CaptchaEnabled  bool   `json:"captcha_enabled"`
	CaptchaSiteKey  string `json:"captcha_site_key"`
	CaptchaSecret   string `json:"-"`
}

func APISettingsFrom(s *Snapshot, opener Opener) APISettings {
	captchaSecret, _ := s.Secret(KeyCaptchaSecretKey, opener)
	return APISettings{
		APIRateLimit:    s.Int(KeyAPIRateLimit, DefaultAPIRateLimit),
		CORSOrigins:     s.String(KeyCORSOrigins, "*"),
		EnablePublicAPI: s.Bool(KeyEnablePublicAPI),
		RequireAPIKey:   s.Bool(KeyRequireAPIKey),
		CaptchaEnabled:  s.Bool(KeyCaptchaEnabled),
		CaptchaSiteKey:  s.String(KeyCaptchaSiteKey, ""),
		CaptchaSecret:   captchaSecret,
	}
}

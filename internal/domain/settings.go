package domain

// SettingsSection names one admin settings panel. Each section is stored as
// a single JSON document.
type SettingsSection string

const (
	SettingsGeneral       SettingsSection = "general"
	SettingsNotifications SettingsSection = "notifications"
	SettingsSecurity      SettingsSection = "security"
	SettingsMaintenance   SettingsSection = "maintenance"
	SettingsPayments      SettingsSection = "payments"
)

// IsValid checks if the section is one of the known panels.
func (s SettingsSection) IsValid() bool {
	switch s {
	case SettingsGeneral, SettingsNotifications, SettingsSecurity,
		SettingsMaintenance, SettingsPayments:
		return true
	default:
		return false
	}
}

// GeneralSettings holds site-wide branding.
type GeneralSettings struct {
	SiteName string `json:"siteName"`
}

// NotificationSettings controls admin email notifications.
type NotificationSettings struct {
	AdminEmail         string `json:"adminEmail"`
	EmailNotifications bool   `json:"emailNotifications"`
}

// SecuritySettings controls login hardening and auditing.
type SecuritySettings struct {
	TwoFactorEnabled   bool     `json:"twoFactorEnabled"`
	IPWhitelistEnabled bool     `json:"ipWhitelistEnabled"`
	IPWhitelist        []string `json:"ipWhitelist"`
	GoogleAuthEnabled  bool     `json:"googleAuthEnabled"`
	GoogleClientID     string   `json:"googleClientId"`
	GoogleClientSecret string   `json:"googleClientSecret"`
	AuditTrailEnabled  bool     `json:"auditTrailEnabled"`
	AuditRetentionDays int      `json:"auditRetentionDays"`
}

// MaintenanceSettings puts the public site into maintenance mode.
type MaintenanceSettings struct {
	Enabled          bool   `json:"enabled"`
	Message          string `json:"message"`
	EndTime          string `json:"endTime"`
	AllowAdminAccess bool   `json:"allowAdminAccess"`
}

// PaymentSettings holds payment provider credentials.
type PaymentSettings struct {
	StripeEnabled        bool   `json:"stripeEnabled"`
	StripePublishableKey string `json:"stripePublishableKey"`
	StripeSecretKey      string `json:"stripeSecretKey"`
	PaypalEnabled        bool   `json:"paypalEnabled"`
	PaypalClientID       string `json:"paypalClientId"`
	PaypalClientSecret   string `json:"paypalClientSecret"`
	Currency             string `json:"currency"`
}

// DefaultSettings returns the document served for a section that has never
// been saved.
func DefaultSettings(section SettingsSection) any {
	switch section {
	case SettingsGeneral:
		return &GeneralSettings{SiteName: "Zer0Mind AI"}
	case SettingsNotifications:
		return &NotificationSettings{EmailNotifications: true}
	case SettingsSecurity:
		return &SecuritySettings{IPWhitelist: []string{}, AuditTrailEnabled: true, AuditRetentionDays: 30}
	case SettingsMaintenance:
		return &MaintenanceSettings{
			Message:          "We are performing scheduled maintenance. Please check back soon.",
			AllowAdminAccess: true,
		}
	case SettingsPayments:
		return &PaymentSettings{Currency: "USD"}
	default:
		return nil
	}
}

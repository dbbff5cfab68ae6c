package domain

// SettingsID is the key of the single site configuration record.
const SettingsID = "site_config"

// Settings is the store's configurable presentation and contact data.
type Settings struct {
	Name            string `json:"name"`
	Title           string `json:"title"`
	PrimaryColor    string `json:"primaryColor"`
	WhatsApp        string `json:"whatsapp"`
	Logo            string `json:"logo"`
	HeroTitle       string `json:"heroTitle"`
	HeroDescription string `json:"heroDescription"`
}

// DefaultSettings is used until an administrator saves a configuration.
func DefaultSettings() Settings {
	return Settings{
		Name:            "TUS CURVAS LINDAS",
		Title:           "Tus Curvas Lindas - Moda Delivery",
		PrimaryColor:    "#e91e63",
		HeroTitle:       "Moda a tu medida",
		HeroDescription: "Delivery express de las mejores tendencias.",
	}
}

// WithDefaults fills empty presentation fields from DefaultSettings. The
// WhatsApp number is never defaulted.
func (s Settings) WithDefaults() Settings {
	d := DefaultSettings()
	if s.Name == "" {
		s.Name = d.Name
	}
	if s.Title == "" {
		s.Title = d.Title
	}
	if s.PrimaryColor == "" {
		s.PrimaryColor = d.PrimaryColor
	}
	if s.HeroTitle == "" {
		s.HeroTitle = d.HeroTitle
	}
	if s.HeroDescription == "" {
		s.HeroDescription = d.HeroDescription
	}
	return s
}

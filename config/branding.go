package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Branding is the letterhead printed on receipts.
type Branding struct {
	LogoURL  string   `yaml:"logo_url"`
	Title    string   `yaml:"title"`
	Phones   []string `yaml:"phones"`
	WhatsApp string   `yaml:"whatsapp"`
	Address  []string `yaml:"address"`
	Email    string   `yaml:"email"`
	Website  string   `yaml:"website"`
}

func DefaultBranding() Branding {
	return Branding{
		Title:   "Receipt",
		Phones:  []string{},
		Address: []string{},
	}
}

// LoadBranding reads a YAML branding file on top of the defaults. An empty
// path returns the defaults.
func LoadBranding(path string) (Branding, error) {
	b := DefaultBranding()
	if path == "" {
		return b, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return b, fmt.Errorf("read branding file: %w", err)
	}
	if err := yaml.Unmarshal(data, &b); err != nil {
		return b, fmt.Errorf("parse branding file: %w", err)
	}
	return b, nil
}

package database

import "time"

// Threat severity classification for malware entries.
const (
	ThreatLow      = "Low"
	ThreatMedium   = "Medium"
	ThreatHigh     = "High"
	ThreatCritical = "Critical"
)

// ThreatLevels lists the valid severities from most to least severe. The
// order is the display order used by reports.
var ThreatLevels = []string{ThreatCritical, ThreatHigh, ThreatMedium, ThreatLow}

// Business id prefixes. The numeric suffix is a zero-padded four-digit
// sequence, e.g. MAN-0001.
const (
	ManufacturerIDPrefix = "MAN"
	ProductIDPrefix      = "PROD"
	MalwareIDPrefix      = "MAL"
	SignatureIDPrefix    = "SIG"
)

type Manufacturer struct {
	ID             int64     `json:"id"`
	ManufacturerID string    `json:"manufacturer_id" validate:"required"`
	Name           string    `json:"name" validate:"required"`
	Description    string    `json:"description" validate:"required"`
	Country        string    `json:"country" validate:"required"`
	Website        string    `json:"website" validate:"required"`
	ImagePath      *string   `json:"image_path,omitempty"`
	CreationDate   time.Time `json:"creation_date"`

	// Populated by list queries.
	ProductCount int `json:"product_count"`
}

type Product struct {
	ID             int64      `json:"id"`
	ProductID      string     `json:"product_id" validate:"required"`
	Name           string     `json:"name" validate:"required"`
	Description    string     `json:"description" validate:"required"`
	Version        string     `json:"version" validate:"required"`
	Rating         string     `json:"rating" validate:"required"`
	ReleaseDate    *time.Time `json:"release_date,omitempty"`
	ImagePath      *string    `json:"image_path,omitempty"`
	ManufacturerID int64      `json:"manufacturer_id" validate:"required"`

	// Populated by list queries.
	ManufacturerName string `json:"manufacturer_name,omitempty"`
}

type Malware struct {
	ID            int64      `json:"id"`
	MalwareID     string     `json:"malware_id" validate:"required"`
	Name          string     `json:"name" validate:"required"`
	Description   string     `json:"description" validate:"required"`
	ThreatLevel   string     `json:"threat_level" validate:"required"`
	DiscoveryDate *time.Time `json:"discovery_date,omitempty"`
	MalwareType   string     `json:"malware_type" validate:"required"`

	// Populated by list queries.
	SignatureCount int `json:"signature_count"`
}

type Signature struct {
	ID             int64     `json:"id"`
	SignatureID    string    `json:"signature_id" validate:"required"`
	Name           string    `json:"name" validate:"required"`
	Data           string    `json:"data" validate:"required"`
	CreationDate   time.Time `json:"creation_date"`
	MalwareID      int64     `json:"malware_id" validate:"required"`
	ManufacturerID *int64    `json:"manufacturer_id,omitempty"`

	// Populated by list queries.
	MalwareBusinessID string `json:"malware_business_id,omitempty"`
	MalwareName       string `json:"malware_name,omitempty"`
	ManufacturerName  string `json:"manufacturer_name,omitempty"`
}

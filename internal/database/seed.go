package database

import (
	"fmt"
	"log/slog"
	"time"
)

// SeedIfEmpty inserts a small starter catalog when every table is empty.
// A catalog with any existing rows is left untouched.
func (db *DB) SeedIfEmpty() error {
	counts, err := db.GetCatalogCounts()
	if err != nil {
		return fmt.Errorf("checking catalog state: %w", err)
	}
	if counts.Manufacturers > 0 || counts.Products > 0 || counts.Malware > 0 || counts.Signatures > 0 {
		return nil
	}

	today := time.Now()

	manufacturers := []Manufacturer{
		{
			ManufacturerID: "MAN-0001",
			Name:           "Kaspersky Lab",
			Description:    "Russian company specializing in cyber threat protection systems",
			Country:        "Russia",
			Website:        "https://www.kaspersky.com",
			CreationDate:   today,
		},
		{
			ManufacturerID: "MAN-0002",
			Name:           "Norton",
			Description:    "American company, one of the pioneers of the antivirus industry",
			Country:        "USA",
			Website:        "https://www.norton.com",
			CreationDate:   today,
		},
		{
			ManufacturerID: "MAN-0003",
			Name:           "Bitdefender",
			Description:    "Romanian company known for its machine learning technologies",
			Country:        "Romania",
			Website:        "https://www.bitdefender.com",
			CreationDate:   today,
		},
	}
	for i := range manufacturers {
		if err := db.CreateManufacturer(&manufacturers[i]); err != nil {
			return fmt.Errorf("seeding manufacturer %s: %w", manufacturers[i].Name, err)
		}
	}

	entries := []Malware{
		{
			MalwareID:     "MAL-0001",
			Name:          "Trojan.Win32.Generic",
			Description:   "Trojan that covertly installs additional malicious software",
			ThreatLevel:   ThreatHigh,
			DiscoveryDate: &today,
			MalwareType:   "Trojan",
		},
		{
			MalwareID:     "MAL-0002",
			Name:          "WannaCry",
			Description:   "Ransomware worm that attacked systems worldwide in 2017",
			ThreatLevel:   ThreatCritical,
			DiscoveryDate: &today,
			MalwareType:   "Ransomware",
		},
	}
	for i := range entries {
		if err := db.CreateMalware(&entries[i]); err != nil {
			return fmt.Errorf("seeding malware %s: %w", entries[i].Name, err)
		}
	}

	sig := Signature{
		SignatureID:    "SIG-0001",
		Name:           "Trojan.Generic Signature",
		Data:           "4D5A90000300000004000000FFFF0000",
		CreationDate:   today,
		MalwareID:      entries[0].ID,
		ManufacturerID: &manufacturers[0].ID,
	}
	if err := db.CreateSignature(&sig); err != nil {
		return fmt.Errorf("seeding signature %s: %w", sig.Name, err)
	}

	slog.Info("seeded starter catalog",
		"manufacturers", len(manufacturers), "malware", len(entries), "signatures", 1)
	return nil
}

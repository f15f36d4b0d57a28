package db

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/diewo77/client-portal/internal/models"
	"github.com/diewo77/client-portal/internal/storage"
	"gopkg.in/yaml.v3"
)

// SeedFile is the YAML document accepted by the seed command.
//
//	users:
//	  - id: "oidc|123"
//	    email: admin@example.com
//	    firstName: Ada
//	    lastName: Admin
//	    role: admin
type SeedFile struct {
	Users []models.UpsertUser `yaml:"users"`
}

// LoadSeedFile reads and decodes a seed file from disk.
func LoadSeedFile(path string) (*SeedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return DecodeSeed(f)
}

// DecodeSeed decodes and checks a seed document.
func DecodeSeed(r io.Reader) (*SeedFile, error) {
	var sf SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sf); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	for i, u := range sf.Users {
		if u.ID == "" {
			return nil, fmt.Errorf("seed user #%d: missing id", i+1)
		}
		if u.Role != "" && !u.Role.Valid() {
			return nil, fmt.Errorf("seed user %q: unknown role %q", u.ID, u.Role)
		}
	}
	return &sf, nil
}

// Seed upserts every user of the file. Running it twice is harmless.
func Seed(ctx context.Context, store storage.Storage, sf *SeedFile) (int, error) {
	n := 0
	for _, u := range sf.Users {
		if _, err := store.UpsertUser(ctx, u); err != nil {
			return n, fmt.Errorf("seed user %q: %w", u.ID, err)
		}
		n++
	}
	return n, nil
}

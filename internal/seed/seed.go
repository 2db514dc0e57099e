package seed

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/models"
)

// Store is implemented by the gorm directory and the in-memory store.
type Store interface {
	UpsertBranch(ctx context.Context, b *models.Branch) error
	UpsertBranchHours(ctx context.Context, h *models.BranchHours) error
	UpsertBarber(ctx context.Context, b *models.Barber) error
	UpsertClient(ctx context.Context, c *models.Client) error
	UpsertService(ctx context.Context, s *models.Service) error
}

type File struct {
	Branches []Branch `yaml:"branches"`
	Clients  []Client `yaml:"clients"`
}

type Branch struct {
	ID       uint      `yaml:"id"`
	Name     string    `yaml:"name"`
	Slug     string    `yaml:"slug"`
	Phone    string    `yaml:"phone"`
	Address  string    `yaml:"address"`
	Timezone string    `yaml:"timezone"`
	Hours    []Hours   `yaml:"hours"`
	Barbers  []Barber  `yaml:"barbers"`
	Services []Service `yaml:"services"`
}

type Hours struct {
	Weekday    int    `yaml:"weekday"`
	Open       string `yaml:"open"`
	Close      string `yaml:"close"`
	LunchStart string `yaml:"lunch_start"`
	LunchEnd   string `yaml:"lunch_end"`
}

type Barber struct {
	ID    uint   `yaml:"id"`
	Name  string `yaml:"name"`
	Phone string `yaml:"phone"`
	Email string `yaml:"email"`
}

type Service struct {
	ID          uint    `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	DurationMin int     `yaml:"duration_min"`
	Price       float64 `yaml:"price"`
	Category    string  `yaml:"category"`
}

type Client struct {
	ID    uint   `yaml:"id"`
	Name  string `yaml:"name"`
	Phone string `yaml:"phone"`
	Email string `yaml:"email"`
}

type Summary struct {
	Branches int
	Barbers  int
	Services int
	Clients  int
}

func Parse(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

func LoadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return Parse(fh)
}

// Apply upserts everything in f. Records without an id get one assigned.
func Apply(ctx context.Context, store Store, f *File) (Summary, error) {
	var sum Summary

	for _, b := range f.Branches {
		branch := &models.Branch{
			ID:       b.ID,
			Name:     b.Name,
			Slug:     b.Slug,
			Phone:    b.Phone,
			Address:  b.Address,
			Timezone: b.Timezone,
			Active:   true,
		}
		if err := store.UpsertBranch(ctx, branch); err != nil {
			return sum, fmt.Errorf("branch %q: %w", b.Slug, err)
		}
		sum.Branches++

		for _, h := range b.Hours {
			if h.Weekday < 0 || h.Weekday > 6 {
				return sum, fmt.Errorf("branch %q: weekday %d out of range", b.Slug, h.Weekday)
			}
			if err := store.UpsertBranchHours(ctx, &models.BranchHours{
				BranchID:   branch.ID,
				Weekday:    h.Weekday,
				OpenTime:   h.Open,
				CloseTime:  h.Close,
				LunchStart: h.LunchStart,
				LunchEnd:   h.LunchEnd,
				Active:     true,
			}); err != nil {
				return sum, fmt.Errorf("branch %q hours: %w", b.Slug, err)
			}
		}

		for _, br := range b.Barbers {
			if err := store.UpsertBarber(ctx, &models.Barber{
				ID:       br.ID,
				BranchID: branch.ID,
				Name:     br.Name,
				Phone:    br.Phone,
				Email:    br.Email,
				Active:   true,
			}); err != nil {
				return sum, fmt.Errorf("barber %q: %w", br.Name, err)
			}
			sum.Barbers++
		}

		for _, s := range b.Services {
			if err := store.UpsertService(ctx, &models.Service{
				ID:          s.ID,
				BranchID:    branch.ID,
				Name:        s.Name,
				Description: s.Description,
				DurationMin: s.DurationMin,
				Price:       s.Price,
				Category:    s.Category,
				Active:      true,
			}); err != nil {
				return sum, fmt.Errorf("service %q: %w", s.Name, err)
			}
			sum.Services++
		}
	}

	for _, c := range f.Clients {
		if err := store.UpsertClient(ctx, &models.Client{
			ID:    c.ID,
			Name:  c.Name,
			Phone: c.Phone,
			Email: c.Email,
		}); err != nil {
			return sum, fmt.Errorf("client %q: %w", c.Name, err)
		}
		sum.Clients++
	}

	return sum, nil
}

package services

import (
	"context"
	"sort"
	"strings"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/store"
	"backoffice/internal/utils"
)

type PackageService struct {
	Store     *store.Store
	Clock     Clock
	RequestID string
}

type PackageFilter struct {
	Search string `form:"search"`
	Type   string `form:"type"`
}

func validatePackage(p *models.Package) error {
	p.Name = strings.TrimSpace(p.Name)
	p.PackageCode = strings.ToUpper(strings.TrimSpace(p.PackageCode))
	p.HotelMakkah = strings.TrimSpace(p.HotelMakkah)
	p.HotelMadinah = strings.TrimSpace(p.HotelMadinah)

	switch {
	case p.Name == "":
		return domain.ValidationError{Field: "name", Msg: "required"}
	case p.PackageCode == "":
		return domain.ValidationError{Field: "packageCode", Msg: "required"}
	case !p.Type.Valid():
		return domain.ValidationError{Field: "type", Msg: "must be Hajj or Umrah"}
	case p.Duration <= 0:
		return domain.ValidationError{Field: "duration", Msg: "must be positive"}
	case p.Price < 0:
		return domain.ValidationError{Field: "price", Msg: "must not be negative"}
	}

	includes := p.Includes[:0:0]
	for _, item := range p.Includes {
		if item = strings.TrimSpace(item); item != "" {
			includes = append(includes, item)
		}
	}
	p.Includes = includes
	return nil
}

// Save creates or replaces a package. Package codes are unique, case-insensitively.
func (s PackageService) Save(ctx context.Context, actor domain.Actor, p models.Package) (models.Package, error) {
	if err := validatePackage(&p); err != nil {
		return models.Package{}, err
	}
	now := s.Clock.now()
	err := s.Store.Mutate(ctx, func(snap *store.Snapshot) error {
		action := models.ActionCreated
		if p.ID != "" {
			if store.IndexOf(snap.Packages, p.ID, store.PackageKey) < 0 {
				return notFound("package", p.ID)
			}
			action = models.ActionUpdated
		}
		for _, other := range snap.Packages {
			if other.ID != p.ID && strings.EqualFold(other.PackageCode, p.PackageCode) {
				return domain.ConflictError{Resource: "package", Msg: "package code " + p.PackageCode + " already exists"}
			}
		}
		if p.ID == "" {
			p.ID = newID("P", func(id string) bool { return store.IndexOf(snap.Packages, id, store.PackageKey) >= 0 })
		}
		snap.Packages = store.Upsert(snap.Packages, p, store.PackageKey)
		record(snap, now, actor, action, models.EntityPackage, p.ID, p.Name)
		return nil
	})
	if err != nil {
		return models.Package{}, err
	}
	utils.LogEvent(s.RequestID, "package", "save", "package_id="+p.ID+" code="+p.PackageCode)
	return p, nil
}

func (s PackageService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	now := s.Clock.now()
	return s.Store.Mutate(ctx, func(snap *store.Snapshot) error {
		i := store.IndexOf(snap.Packages, id, store.PackageKey)
		if i < 0 {
			return notFound("package", id)
		}
		name := snap.Packages[i].Name
		snap.Packages, _ = store.Remove(snap.Packages, id, store.PackageKey)
		record(snap, now, actor, models.ActionDeleted, models.EntityPackage, id, name)
		return nil
	})
}

func (s PackageService) Get(id string) (models.Package, error) {
	p, ok := s.Store.Package(id)
	if !ok {
		return models.Package{}, notFound("package", id)
	}
	return p, nil
}

// List puts featured packages first, then orders by name.
func (s PackageService) List(f PackageFilter) []models.Package {
	all := s.Store.Packages()
	out := make([]models.Package, 0, len(all))
	for _, p := range all {
		if f.Search != "" && !utils.ContainsFold(p.Name, f.Search) && !utils.ContainsFold(p.PackageCode, f.Search) {
			continue
		}
		if f.Type != "" && f.Type != "All" && string(p.Type) != f.Type {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsFeatured != out[j].IsFeatured {
			return out[i].IsFeatured
		}
		return out[i].Name < out[j].Name
	})
	return out
}

package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/guttosm/binpack-service/internal/domain/model"
	"github.com/guttosm/binpack-service/internal/repository"
)

// ErrRepositoryNotConfigured is returned by write operations when no
// database is configured.
var ErrRepositoryNotConfigured = errors.New("repository not configured")

var (
	// ErrProfileNotFound is returned when no profile carries the requested name.
	ErrProfileNotFound = errors.New("container profile not found")
	// ErrInvalidProfile is returned for profiles without a name, size or weight limit.
	ErrInvalidProfile = errors.New("container profile must have a name, positive dimensions and a positive max weight")
)

// ProfileResolver looks up a container profile by name.
type ProfileResolver interface {
	Resolve(ctx context.Context, name string) (*model.ContainerProfile, error)
}

// ProfilesService manages named container presets.
type ProfilesService interface {
	ProfileResolver
	List(ctx context.Context) ([]model.ContainerProfile, error)
	Upsert(ctx context.Context, profile model.ContainerProfile, updatedBy string) (*model.ContainerProfile, error)
	Delete(ctx context.Context, name string) error
	// Seed stores the built-in profiles plus extra without overwriting
	// existing documents and returns how many were inserted.
	Seed(ctx context.Context, extra []model.ContainerProfile) (int, error)
}

// ProfilesServiceImpl implements ProfilesService. Without a repository
// it serves the built-in and file profiles read-only.
type ProfilesServiceImpl struct {
	repo     repository.ContainerProfilesRepositoryInterface
	builtins map[string]model.ContainerProfile
}

// NewProfilesService creates a profiles service. extra profiles, usually
// loaded from CONTAINER_PROFILES_FILE, override built-ins of the same name.
func NewProfilesService(repo repository.ContainerProfilesRepositoryInterface, extra ...model.ContainerProfile) *ProfilesServiceImpl {
	builtins := make(map[string]model.ContainerProfile)
	for _, p := range append(model.DefaultContainerProfiles(), extra...) {
		builtins[normalizeProfileName(p.Name)] = p
	}
	return &ProfilesServiceImpl{
		repo:     repo,
		builtins: builtins,
	}
}

// Resolve returns the stored profile, falling back to built-ins.
func (s *ProfilesServiceImpl) Resolve(ctx context.Context, name string) (*model.ContainerProfile, error) {
	key := normalizeProfileName(name)
	if s.repo != nil {
		profile, err := s.repo.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if profile != nil {
			return profile, nil
		}
	}
	if p, ok := s.builtins[key]; ok {
		return &p, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
}

// List returns every profile sorted by name.
func (s *ProfilesServiceImpl) List(ctx context.Context) ([]model.ContainerProfile, error) {
	if s.repo != nil {
		return s.repo.List(ctx)
	}
	profiles := make([]model.ContainerProfile, 0, len(s.builtins))
	for _, p := range s.builtins {
		profiles = append(profiles, p)
	}
	slices.SortFunc(profiles, func(a, b model.ContainerProfile) int {
		return strings.Compare(a.Name, b.Name)
	})
	return profiles, nil
}

// Upsert creates or replaces the profile named profile.Name.
func (s *ProfilesServiceImpl) Upsert(ctx context.Context, profile model.ContainerProfile, updatedBy string) (*model.ContainerProfile, error) {
	profile.Name = normalizeProfileName(profile.Name)
	if !profile.Valid() {
		return nil, ErrInvalidProfile
	}
	if s.repo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	return s.repo.Upsert(ctx, profile, updatedBy)
}

// Delete removes a stored profile.
func (s *ProfilesServiceImpl) Delete(ctx context.Context, name string) error {
	if s.repo == nil {
		return ErrRepositoryNotConfigured
	}
	err := s.repo.Delete(ctx, normalizeProfileName(name))
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	return err
}

// Seed writes the built-in profiles and extra to the repository.
func (s *ProfilesServiceImpl) Seed(ctx context.Context, extra []model.ContainerProfile) (int, error) {
	if s.repo == nil {
		return 0, ErrRepositoryNotConfigured
	}
	profiles := append(model.DefaultContainerProfiles(), extra...)
	for i := range profiles {
		profiles[i].Name = normalizeProfileName(profiles[i].Name)
	}
	return s.repo.SeedDefaults(ctx, profiles)
}

type profilesFile struct {
	Profiles []model.ContainerProfile `yaml:"profiles"`
}

// LoadProfilesFile reads container profiles from a YAML document of the form
//
//	profiles:
//	  - name: reefer-20
//	    width: 545
//	    height: 226
//	    depth: 229
//	    max_weight: 27400
//
// Invalid entries are skipped with a warning.
func LoadProfilesFile(path string) ([]model.ContainerProfile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles file: %w", err)
	}

	var doc profilesFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse profiles file %s: %w", path, err)
	}

	profiles := make([]model.ContainerProfile, 0, len(doc.Profiles))
	for _, p := range doc.Profiles {
		p.Name = normalizeProfileName(p.Name)
		if !p.Valid() {
			log.Warn().Str("file", path).Str("profile", p.Name).Msg("Skipping invalid container profile")
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func normalizeProfileName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

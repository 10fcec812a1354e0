package config

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/macro-atlas/pkg/models/domain"
	"gopkg.in/ini.v1"
)

const DefaultProfile = "default"

type Registry interface {
	GetProfiles(ctx context.Context) ([]domain.APIProfile, error)
	GetProfile(ctx context.Context, name string) (domain.APIProfile, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

// NewRegistry loads API profiles from an ini file such as ~/.macroatlascfg:
//
//	[default]
//	base_url = http://localhost:8000/api
//	timeout  = 30s
func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]domain.APIProfile, error) {
	var profiles []domain.APIProfile
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) == 0 {
			continue
		}
		p, err := profileFromSection(section)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetProfile(_ context.Context, name string) (domain.APIProfile, error) {
	section, err := cr.cfg.GetSection(name)
	if (err != nil || len(section.Keys()) == 0) && name == DefaultProfile {
		section, err = cr.cfg.GetSection(ini.DefaultSection)
	}
	if err != nil || len(section.Keys()) == 0 {
		return domain.APIProfile{}, fmt.Errorf("profile %s not found", name)
	}
	return profileFromSection(section)
}

func profileFromSection(section *ini.Section) (domain.APIProfile, error) {
	p := domain.APIProfile{
		Name:    section.Name(),
		BaseURL: section.Key("base_url").String(),
	}
	if p.Name == ini.DefaultSection {
		p.Name = DefaultProfile
	}
	if raw := section.Key("timeout").String(); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return domain.APIProfile{}, fmt.Errorf("profile %s: invalid timeout %q: %w", p.Name, raw, err)
		}
		p.Timeout = d
	}
	return p, nil
}

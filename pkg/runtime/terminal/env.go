package terminal

import (
	"context"
	"fmt"

	"github.com/de-tools/macro-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/macro-atlas/pkg/services/config"
	"github.com/de-tools/macro-atlas/pkg/store/archive"
	"github.com/de-tools/macro-atlas/pkg/store/client"
	"github.com/rs/zerolog"
)

// GlobalFlags are the persistent flags shared by every command.
type GlobalFlags struct {
	Settings string
	Profiles string
	Profile  string
}

// Connector builds the command environment once flags are parsed.
type Connector func(ctx context.Context, flags GlobalFlags) (*commands.Environment, error)

// Connect loads settings and the selected API profile and builds a client
// for it.
func Connect(ctx context.Context, flags GlobalFlags) (*commands.Environment, error) {
	settings, err := config.LoadSettings(flags.Settings)
	if err != nil {
		return nil, err
	}
	if lvl, err := zerolog.ParseLevel(settings.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	registry, err := config.NewRegistry(flags.Profiles)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles from %s: %w", flags.Profiles, err)
	}

	name := settings.Profile
	if flags.Profile != "" {
		name = flags.Profile
	}
	profile, err := registry.GetProfile(ctx, name)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Debug().Str("profile", profile.String()).Msg("using api profile")

	api, err := client.New(profile)
	if err != nil {
		return nil, err
	}
	return &commands.Environment{
		API:        api,
		SnapshotDB: settings.SnapshotDB,
		Archive: archive.Config{
			Bucket:    settings.Archive.Bucket,
			Prefix:    settings.Archive.Prefix,
			Region:    settings.Archive.Region,
			Endpoint:  settings.Archive.Endpoint,
			PathStyle: settings.Archive.PathStyle,
		},
	}, nil
}

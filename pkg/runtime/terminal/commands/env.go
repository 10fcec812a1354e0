package commands

import (
	"fmt"

	"github.com/de-tools/macro-atlas/pkg/services/collection"
	"github.com/de-tools/macro-atlas/pkg/services/explorer"
	"github.com/de-tools/macro-atlas/pkg/services/metadata"
	"github.com/de-tools/macro-atlas/pkg/services/query"
	"github.com/de-tools/macro-atlas/pkg/store/archive"
	"github.com/de-tools/macro-atlas/pkg/store/sqlite"
	"github.com/de-tools/macro-atlas/pkg/store/sqlite/snapshot"
)

type API interface {
	metadata.Source
	explorer.Source
	query.Analyzer
	collection.Triggerer
}

// Environment is what commands run against. It is built after flags are parsed.
type Environment struct {
	API        API
	SnapshotDB string
	Archive    archive.Config
}

type EnvironmentFunc func() *Environment

func (e *Environment) openSnapshots() (snapshot.Store, func() error, error) {
	db, err := sqlite.NewDB(sqlite.Settings{DbPath: e.SnapshotDB})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	store, err := snapshot.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return store, db.Close, nil
}

package db

import (
	"context"
	"fmt"
	"io/fs"

	"ariga.io/atlas-go-sdk/atlasexec"
)

// MigrateResult summarizes an atlas migrate apply run.
type MigrateResult struct {
	Applied []string
	Current string
	Target  string
}

// ApplyMigrations runs `atlas migrate apply` for the migrations in dir. The
// atlas binary must be on PATH (or passed as atlasBin).
func ApplyMigrations(ctx context.Context, dsn string, dir fs.FS, atlasBin string) (*MigrateResult, error) {
	if atlasBin == "" {
		atlasBin = "atlas"
	}

	workdir, err := atlasexec.NewWorkingDir(atlasexec.WithMigrations(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to prepare atlas working dir: %w", err)
	}
	defer workdir.Close()

	client, err := atlasexec.NewClient(workdir.Path(), atlasBin)
	if err != nil {
		return nil, fmt.Errorf("failed to create atlas client: %w", err)
	}

	res, err := client.MigrateApply(ctx, &atlasexec.MigrateApplyParams{
		URL: dsn,
	})
	if err != nil {
		return nil, fmt.Errorf("atlas migrate apply failed: %w", err)
	}

	out := &MigrateResult{Current: res.Current, Target: res.Target}
	for _, f := range res.Applied {
		out.Applied = append(out.Applied, f.Name)
	}
	return out, nil
}

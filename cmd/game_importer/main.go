package main

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/romeopuiu/scratch-game/gamemath"
)

// CLI imports a ZIP of game config documents into the data dir used by the server.
// Every *.json entry becomes a game named after the file (configs/lucky.json -> "lucky").
type CLI struct {
	Zip     string `arg:"" type:"existingfile" help:"ZIP file with game config JSON documents"`
	DataDir string `default:"data" env:"SCRATCH_DATA_DIR" help:"Data dir holding game_configs.json"`
	DryRun  bool   `help:"Validate every document without storing anything"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("game_importer"),
		kong.Description("Validate and register scratch game configs from a ZIP bundle"),
		kong.UsageOnError(),
	)
	ids, err := run(cli.Zip, cli.DataDir, cli.DryRun)
	ctx.FatalIfErrorf(err)
	for _, id := range ids {
		fmt.Printf("Imported game %q\n", id)
	}
}

// run validates every document first and registers only when all of them parse.
func run(zipPath, dataDir string, dryRun bool) ([]string, error) {
	docs, err := readZip(zipPath)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no .json documents in %s", zipPath)
	}
	ids := make([]string, 0, len(docs))
	for id, data := range docs {
		if _, err := gamemath.Parse(data); err != nil {
			return nil, fmt.Errorf("%s: %w", id, err)
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if dryRun {
		return ids, nil
	}
	store := gamemath.NewStore(dataDir)
	for _, id := range ids {
		if _, err := store.Register(id, docs[id]); err != nil {
			return nil, fmt.Errorf("%s: %w", id, err)
		}
	}
	return ids, nil
}

// readZip returns the *.json entries keyed by game id. Duplicate ids are rejected.
func readZip(zipPath string) (map[string][]byte, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	docs := make(map[string][]byte)
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !strings.EqualFold(path.Ext(f.Name), ".json") {
			continue
		}
		base := path.Base(strings.ReplaceAll(f.Name, "\\", "/"))
		id := strings.TrimSuffix(base, path.Ext(base))
		if id == "" || strings.HasPrefix(id, ".") {
			continue
		}
		if _, dup := docs[id]; dup {
			return nil, fmt.Errorf("duplicate game id %q in zip", id)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open entry %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read entry %s: %w", f.Name, err)
		}
		docs[id] = data
	}
	return docs, nil
}

package main

import (
	"errors"
	"log"

	"github.com/alecthomas/kong"
	"github.com/cloudwego/hertz/pkg/app/server"

	"github.com/voidshard/autotile"
	"github.com/voidshard/autotile/internal/httpapi"
)

const desc = `Serves an autotile map over HTTP.

Tiles are added & removed with the JSON API; the resolved map can be read back
as cells, as a map document or as a rendered png.`

var cli struct {
	Listen string `default:":8080" help:"address to listen on"`

	// write through store
	DB string `help:"store database file; edits are written through and the map is loaded from it on start"`

	// seed map
	Map string `short:"m" help:"map .json file to load on start (when --db is unset or has no tiles)"`

	Config string `short:"c" help:"yaml config file"`
	Scale  int    `default:"0" help:"multiply exported png size by this (0 uses the config scale)"`
}

func main() {
	kong.Parse(&cli, kong.Name("autotile-serve"), kong.Description(desc))

	cfg := autotile.DefaultConfig()
	if cli.Config != "" {
		var err error
		cfg, err = autotile.LoadConfig(cli.Config)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}
	if cli.Scale <= 0 {
		cli.Scale = cfg.Scale
	}

	e, err := autotile.New(cfg)
	if err != nil {
		log.Fatalf("build engine: %v", err)
	}
	if cfg.Tileset != "" {
		if err := e.SetTileset(cfg.Tileset); err != nil {
			log.Printf("config tileset: %v", err)
		}
	}

	var store *autotile.Store
	if cli.DB != "" {
		store, err = autotile.OpenStore(cli.DB)
		if err != nil {
			log.Fatalf("open store: %v", err)
		}
		defer store.Close()
	}

	err = seed(e, store)
	if err != nil {
		log.Fatalf("load map: %v", err)
	}

	h := httpapi.NewHandler(e, store)
	h.Scale = cli.Scale

	s := server.Default(server.WithHostPorts(cli.Listen))
	h.RegisterRoutes(s)

	log.Printf("autotile listening on %s (%d cells)", cli.Listen, e.View().Len())
	s.Spin()
}

// seed loads the starting map from the store, or --map (which is then
// written to the store)
func seed(e *autotile.Engine, store *autotile.Store) error {
	if store != nil {
		doc, err := store.Document()
		if err != nil {
			return err
		}
		if doc.Tiles.Len() > 0 || cli.Map == "" {
			return logTileset(e.Restore(doc))
		}
	}

	if cli.Map == "" {
		return nil
	}

	err := logTileset(e.Load(cli.Map))
	if err != nil {
		return err
	}
	if store != nil {
		return store.Save(e)
	}
	return nil
}

// logTileset downgrades a rejected tileset to a log line
func logTileset(err error) error {
	if err == nil {
		return nil
	}
	var tsErr *autotile.TilesetError
	if errors.As(err, &tsErr) {
		log.Printf("map tileset: %v", err)
		return nil
	}
	return err
}

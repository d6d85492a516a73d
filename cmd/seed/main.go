package main

import (
	"chat-live/domain"
	"chat-live/repositories"
	"fmt"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" required:"true"`
	// SEED_ROOMS overrides the default rooms, comma separated
	Rooms   []string `envconfig:"SEED_ROOMS"`
	Colours bool     `envconfig:"SEED_COLOURS" default:"true"`
}

// Replaces every stored room with the default ones. Messages are left untouched.
func main() {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		fail(cfg, fmt.Errorf("config error: %w", err))
	}
	color.Enable = cfg.Colours

	names := domain.DefaultRooms
	if len(cfg.Rooms) > 0 {
		names = cfg.Rooms
	}

	db, err := badger.Open(badger.DefaultOptions(cfg.BadgerFilepath).WithLogger(nil))
	if err != nil {
		fail(cfg, fmt.Errorf("database opening failed: %w", err))
	}
	defer db.Close()

	rooms, err := repositories.NewRoomRepository(db).ReplaceAll(names)
	if err != nil {
		fail(cfg, fmt.Errorf("seeding failed: %w", err))
	}

	color.New(color.BgBlack, color.FgGreen).Println(" ✅ Rooms seeded ")
	for _, room := range rooms {
		fmt.Printf("  %s %s\n", color.Cyan.Render(string(room.ID)), room.Name)
	}
	color.Gray.Printf("%d rooms: %s\n", len(rooms), strings.Join(names, ", "))
}

func fail(cfg Config, err error) {
	color.Enable = cfg.Colours
	color.Red.Println("❌ " + err.Error())
	os.Exit(1)
}

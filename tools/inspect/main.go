package main

import (
	"chat-live/domain"
	"chat-live/repositories"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

// Prints the stored messages, or the raw keys under -prefix, as a table.
func main() {
	dbPath := flag.String("db", "./data/badger", "Path to badger DB")
	room := flag.String("room", "", "Only list the messages of this room")
	prefix := flag.String("prefix", "", "Dump raw keys under this prefix instead of messages")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := newTable()
	if *prefix != "" {
		err = dumpKeys(db, table, *prefix)
	} else {
		err = listMessages(db, table, *room)
	}
	if err != nil {
		log.Fatal(err)
	}
	table.Render()
}

func listMessages(db *badger.DB, table *tablewriter.Table, room string) error {
	var filter *domain.RoomID
	if room != "" {
		id := domain.RoomID(room)
		filter = &id
	}

	repository := repositories.NewMessageRepository(db, logs.GetLoggerFromLevel(slog.LevelWarn), nil)
	messages, err := repository.FindMessages(filter)
	if err != nil {
		return err
	}

	table.SetHeader([]string{"ID", "Room", "Author", "Status", "Edited", "At", "Content"})
	for _, message := range messages {
		table.Append([]string{
			message.ID.String()[:8],
			string(message.Room),
			string(message.Author),
			message.Status.String(),
			strconv.FormatBool(message.Edited),
			message.At.Format("2006-01-02 15:04:05"),
			message.Content,
		})
	}
	fmt.Printf("%d messages\n", len(messages))
	return nil
}

func dumpKeys(db *badger.DB, table *tablewriter.Table, prefix string) error {
	table.SetHeader([]string{"Key", "Type", "Detail"})
	return db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte(prefix), PrefetchValues: true})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())
			err := item.Value(func(v []byte) error {
				row := repositories.InspectMapper(key, v)
				table.Append([]string{key, row.Type, row.Detail})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func newTable() *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)

	db, err := badger.Open(opts)
	if err != nil && strings.Contains(err.Error(), "Log truncate required") {
		// a crashed writer leaves a log to truncate, which read-only mode refuses
		repaired, repairErr := badger.Open(badger.DefaultOptions(path).WithLogger(nil).WithBypassLockGuard(true))
		if repairErr != nil {
			return nil, fmt.Errorf("repair failed: %w", repairErr)
		}
		_ = repaired.Close()
		return badger.Open(opts)
	}
	return db, err
}

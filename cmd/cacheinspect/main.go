// Package main lists the entries of a persistent taxonomy cache.
//
// The cache is opened read-only, but badger still takes the directory lock, so
// stop the server before inspecting its cache.
//
// Usage:
//
//	CACHE_DIR=~/PynadeHub/cache go run ./cmd/cacheinspect [prefix]
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
)

func main() {
	dir := os.Getenv("CACHE_DIR")
	if dir == "" {
		log.Fatal("CACHE_DIR is not set; an in-memory cache cannot be inspected")
	}

	var prefix []byte
	if len(os.Args) > 1 {
		prefix = []byte(os.Args[1])
	}

	opts := badger.DefaultOptions(dir).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open cache: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Cache Inspection ===")
	fmt.Println()

	count := 0
	var total int64
	now := time.Now()

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			count++
			total += item.ValueSize()

			ttl := "never"
			if exp := item.ExpiresAt(); exp > 0 {
				ttl = time.Unix(int64(exp), 0).Sub(now).Round(time.Second).String()
			}
			fmt.Printf("%-40s %8d bytes  expires in %s\n", item.Key(), item.ValueSize(), ttl)
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to read cache: %v", err)
	}

	fmt.Println()
	fmt.Printf("Entries: %d (%d bytes)\n", count, total)
}

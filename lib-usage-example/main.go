package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/sw33tLie/dispensa/pkg/expiry"
	"github.com/sw33tLie/dispensa/pkg/form"
	"github.com/sw33tLie/dispensa/pkg/storage"
	"github.com/sw33tLie/dispensa/pkg/view"
)

func main() {
	// Usage: go run *.go -dbpath "/tmp/dispensa.sqlite"

	dbFlag := flag.String("dbpath", "", "SQLite DB file (in-memory when empty)")
	flag.Parse()

	var backend storage.Backend = storage.NewMemory()
	if *dbFlag != "" {
		db, err := storage.Open(*dbFlag)
		if err != nil {
			fmt.Println(err)
			return
		}
		defer db.Close()
		backend = db
	}

	ctx := context.Background()
	snaps := storage.NewSnapshots(backend)
	store, err := snaps.Load(ctx)
	if err != nil {
		fmt.Println(err)
		return
	}

	// Every change goes through the same dialog flow the web UI uses
	ctrl := form.NewController(store, snaps)
	ctrl.OpenCreate()
	if _, err := ctrl.Submit(ctx, form.Fields{
		Name:     "Latte",
		Category: "Frigo Casa",
		Expiry:   time.Now().AddDate(0, 0, 5).Format("2006-01-02"),
		Price:    "1,49",
	}); err != nil {
		fmt.Println(err)
		return
	}

	now := time.Now()
	for _, it := range store.Items("Frigo Casa") {
		days := expiry.DaysRemaining(it.Expiry.Time(), now)
		fmt.Println(it.Name, it.Expiry, days, expiry.Classify(days), view.Euro(it.Price))
	}
	fmt.Println("Totale:", view.Euro(store.TotalPrice("Frigo Casa")))
}

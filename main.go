package main

import (
	"context"
	"flag"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/MixinNetwork/certledger/ledger"
	"github.com/MixinNetwork/certledger/store"
)

func main() {
	ctx := context.Background()

	bp := flag.String("d", "~/.mixin/certledger/data", "database directory path")
	cp := flag.String("c", "~/.mixin/certledger/config.toml", "configuration file path")
	flag.Parse()

	if strings.HasPrefix(*cp, "~/") {
		usr, _ := user.Current()
		*cp = filepath.Join(usr.HomeDir, (*cp)[2:])
	}
	conf, err := ledger.Setup(*cp)
	if err != nil {
		panic(err)
	}

	if strings.HasPrefix(*bp, "~/") {
		usr, _ := user.Current()
		*bp = filepath.Join(usr.HomeDir, (*bp)[2:])
	}
	db, err := store.OpenBadger(ctx, *bp)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	ld, err := ledger.BuildLedger(ctx, db, conf)
	if err != nil {
		panic(err)
	}
	ld.AddWorker(&AuditWorker{})

	srv := NewServer(ld, conf)
	go srv.Run(ctx)

	ld.Run(ctx)
}

// Copyright (c) 2024 The ember developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

// Command emberdb is a maintenance tool for an ember node's block
// repository: it can print the stored chain tip, toggle the transaction
// index, and rebuild or clear the index to match the flag.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/emberchain/emberd/blockstore"
	"github.com/emberchain/emberd/params"
	"github.com/emberchain/emberd/repo"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := repo.LoadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg.LogDir, cfg.LogLevel); err != nil {
		return err
	}

	netParams := &params.MainnetParams
	if cfg.Regtest {
		netParams = &params.RegtestParams
	}

	ds, err := repo.NewDatastore(filepath.Join(cfg.DataDir, "chaindb"))
	if err != nil {
		return err
	}

	r, err := blockstore.NewBlockRepository(&blockstore.Config{
		Params:    netParams,
		Datastore: ds,
	})
	if err != nil {
		ds.Close()
		return err
	}
	defer r.Close()

	if err := r.Initialize(); err != nil {
		return err
	}

	if cfg.TxIndex || cfg.NoTxIndex {
		if err := r.SetTxIndex(cfg.TxIndex); err != nil {
			return err
		}
		log.Infof("transaction index flag set to %t", cfg.TxIndex)
	}

	if cfg.Reindex {
		log.Info("reindexing, this may take a while...")
		if err := r.ReIndex(); err != nil {
			return err
		}
	}

	if cfg.ShowTip {
		tip, err := r.TipHashAndHeight()
		if err != nil {
			return err
		}
		fmt.Printf("tip hash:   %s\ntip height: %d\n", tip.Hash, tip.Height)
	}

	return nil
}

// Package backup writes and restores the full application state as a
// single pretty-printed JSON document. The layout matches what the
// storage layer persists, so a backup taken today restores cleanly
// later.
package backup

import (
	"encoding/json"
	"fmt"
	"io"

	"clases/internal/core"
)

// Write encodes the snapshot as indented JSON.
func Write(w io.Writer, snap core.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(exportDoc(snap)); err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	return nil
}

// Read decodes a backup document. Empty collections come back as empty
// slices, never nil, and invoice statuses are normalized the same way
// the storage layer does on load.
func Read(r io.Reader) (core.Snapshot, error) {
	var snap core.Snapshot
	dec := json.NewDecoder(r)
	if err := dec.Decode(&snap); err != nil {
		return core.Snapshot{}, fmt.Errorf("decode backup: %w", err)
	}
	snap = exportDoc(snap)
	for i := range snap.Invoices {
		if snap.Invoices[i].Status == "" {
			snap.Invoices[i].Status = core.StatusPending
		}
		if snap.Invoices[i].Status != core.StatusPaid {
			snap.Invoices[i].PaidDate = nil
		}
	}
	return snap, nil
}

// Filename suggests the download name for a backup taken on the given
// day.
func Filename(d core.Date) string {
	return "clases_backup_" + d.String() + ".json"
}

func exportDoc(snap core.Snapshot) core.Snapshot {
	if snap.Transactions == nil {
		snap.Transactions = []core.Transaction{}
	}
	if snap.Students == nil {
		snap.Students = []core.Student{}
	}
	if snap.Invoices == nil {
		snap.Invoices = []core.Invoice{}
	}
	return snap
}

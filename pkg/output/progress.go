package output

import (
	"io"

	"github.com/cheggaaa/pb/v3"

	"github.com/fileferry/fileferry/pkg/files"
)

// TransferBar renders a byte-level progress bar for one transfer,
// driven by the client's progress snapshots.
type TransferBar struct {
	bar *pb.ProgressBar
}

// NewTransferBar starts a progress bar labelled with the file name.
// An unknown total (zero or negative) still renders; the total is
// adopted from the first snapshot that carries one.
func NewTransferBar(w io.Writer, label string, total int64) *TransferBar {
	if total < 0 {
		total = 0
	}

	bar := pb.New64(total)
	bar.Set(pb.Bytes, true)
	bar.Set("prefix", label+" ")
	if w != nil {
		bar.SetWriter(w)
	}
	bar.Start()

	return &TransferBar{bar: bar}
}

// Update applies the latest progress snapshot. The newest snapshot
// always wins; no history is kept.
func (b *TransferBar) Update(p files.Progress) {
	if p.Total > 0 && b.bar.Total() != p.Total {
		b.bar.SetTotal(p.Total)
	}
	b.bar.SetCurrent(p.Loaded)
}

// Finish completes and removes the bar.
func (b *TransferBar) Finish() {
	b.bar.Finish()
}

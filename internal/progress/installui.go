package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"
)

// barScale converts fractions to bar units. Install reports carry no
// byte counts, so bars run on permille.
const barScale = 1000

// InstallUI renders one bar per package during a bulk install, fed by
// router updates correlated through operation ids.
type InstallUI struct {
	progress   *mpb.Progress
	bars       sync.Map // operationID -> *InstallBar
	isTerminal bool
	totalFiles int
	completed  int32
}

// InstallBar is the progress bar of a single package install.
type InstallBar struct {
	bar      *mpb.Bar
	ui       *InstallUI
	index    int
	fileName string
	stage    atomic.Value // string
}

// NewInstallUI creates a UI expecting totalFiles packages.
func NewInstallUI(totalFiles int) *InstallUI {
	isTerminal := term.IsTerminal(int(os.Stderr.Fd()))

	var p *mpb.Progress
	if isTerminal {
		enableWindowsANSI(os.Stderr)

		p = mpb.New(
			mpb.WithOutput(os.Stderr),
			mpb.WithRefreshRate(300*time.Millisecond),
			mpb.WithWidth(100),
		)
	} else {
		// Non-TTY: disable progress bars, just use text output
		p = mpb.New(mpb.WithOutput(io.Discard))
	}

	return &InstallUI{
		progress:   p,
		isTerminal: isTerminal,
		totalFiles: totalFiles,
	}
}

// AddBar creates the progress bar for one package.
func (u *InstallUI) AddBar(index int, operationID, fileName string) *InstallBar {
	ib := &InstallBar{
		ui:       u,
		index:    index,
		fileName: fileName,
	}
	ib.stage.Store("queued")

	if u.isTerminal {
		ib.bar = u.progress.New(barScale,
			mpb.BarStyle().
				Lbound("[").
				Filler("█").
				Tip("█").
				Padding("░").
				Rbound("]"),
			mpb.PrependDecorators(
				decor.Any(func(decor.Statistics) string {
					return fmt.Sprintf("[%d/%d] %s (%s)",
						ib.index, u.totalFiles, ib.fileName, ib.stage.Load())
				}, decor.WCSyncSpace),
			),
			mpb.AppendDecorators(
				decor.Any(func(s decor.Statistics) string {
					pct := float64(s.Current) / float64(barScale) * 100
					return fmt.Sprintf("%6.2f%%", pct)
				}, decor.WCSyncSpace),
			),
			mpb.BarRemoveOnComplete(),
		)
	} else {
		fmt.Printf("Installing [%d/%d]: %s\n", index, u.totalFiles, fileName)
	}

	u.bars.Store(operationID, ib)
	return ib
}

// Apply routes one router update to its bar. Updates for unknown
// operations are ignored; they belong to work this UI is not tracking.
func (u *InstallUI) Apply(up Update) {
	v, ok := u.bars.Load(up.OperationID)
	if !ok {
		return
	}
	ib := v.(*InstallBar)

	if up.Stage != "" {
		ib.stage.Store(up.Stage)
	}
	if up.Done {
		var err error
		if up.Err != nil {
			err = up.Err
		}
		ib.Complete(err)
		return
	}
	ib.SetProgress(up.Fraction)
}

// SetProgress moves the bar to the given fraction. Progress never runs
// backwards even if a stale update slips through.
func (b *InstallBar) SetProgress(fraction float64) {
	if b.bar == nil {
		return
	}
	current := int64(fraction * barScale)
	if current > b.bar.Current() {
		b.bar.SetCurrent(current)
	}
}

// Complete finishes the bar and prints a one-line summary.
func (b *InstallBar) Complete(err error) {
	if err == nil {
		if b.bar != nil {
			b.bar.SetCurrent(barScale)
			b.bar.SetTotal(barScale, true)
		}
		msg := fmt.Sprintf("✓ %s installed\n", b.fileName)
		if b.ui.isTerminal && b.ui.progress != nil {
			b.ui.progress.Write([]byte(msg))
		} else {
			fmt.Print(msg)
		}
	} else {
		if b.bar != nil {
			b.bar.Abort(false)
		}
		msg := fmt.Sprintf("✗ %s: %v\n", b.fileName, err)
		if b.ui.isTerminal && b.ui.progress != nil {
			b.ui.progress.Write([]byte(msg))
		} else {
			fmt.Print(msg)
		}
	}

	atomic.AddInt32(&b.ui.completed, 1)
}

// Wait blocks until every bar has finished rendering.
func (u *InstallUI) Wait() {
	if u.progress != nil {
		u.progress.Wait()
	}
}

// LogWriter returns a writer that safely prints above the bars.
func (u *InstallUI) LogWriter() io.Writer {
	if u.progress != nil && u.isTerminal {
		return u.progress
	}
	return os.Stderr
}

// GetCompleted returns how many bars have settled.
func (u *InstallUI) GetCompleted() int {
	return int(atomic.LoadInt32(&u.completed))
}

// IsTerminal reports whether output goes to a terminal.
func (u *InstallUI) IsTerminal() bool {
	return u.isTerminal
}

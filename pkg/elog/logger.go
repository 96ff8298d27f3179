package elog

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/vbauerster/mpb/v5"
	"github.com/vbauerster/mpb/v5/decor"
)

// IsJSON switches all output to machine-readable logging. Progress bars
// are suppressed while it is set.
var IsJSON bool

type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Progress tracks one long-running byte-counted operation.
type Progress interface {

	// ProxyReader wraps r so that progress advances as it is read.
	ProxyReader(r io.Reader) io.ReadCloser

	// Increment advances progress by n bytes, for callers that cannot
	// route their reads through a proxy.
	Increment(n int64)

	// Finish releases the tracker. It must be called on every exit
	// path, successful or not, and is safe to call more than once.
	Finish(success bool)
}

// View is the logging interface handed down to library code.
type View interface {
	Logger
	NewProgress(label string, total int64) Progress
}

// CLI implements View on top of logrus for terminal use. It doubles as a
// logrus.Formatter so that log lines and progress bars share one style.
type CLI struct {

	// DisableTTY forces the plain non-interactive output even when
	// stderr is a terminal.
	DisableTTY bool
}

func (log *CLI) Debugf(format string, args ...interface{}) {
	logrus.Debugf(format, args...)
}

func (log *CLI) Infof(format string, args ...interface{}) {
	logrus.Infof(format, args...)
}

func (log *CLI) Warnf(format string, args ...interface{}) {
	logrus.Warnf(format, args...)
}

func (log *CLI) Errorf(format string, args ...interface{}) {
	logrus.Errorf(format, args...)
}

// Format implements logrus.Formatter.
func (log *CLI) Format(entry *logrus.Entry) ([]byte, error) {

	if IsJSON {
		return (&logrus.JSONFormatter{}).Format(entry)
	}

	switch entry.Level {
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return []byte(fmt.Sprintf("error: %s\n", entry.Message)), nil
	case logrus.WarnLevel:
		return []byte(fmt.Sprintf("warning: %s\n", entry.Message)), nil
	default:
		return []byte(fmt.Sprintf("%s\n", entry.Message)), nil
	}
}

func (log *CLI) useTTY() bool {
	if log.DisableTTY || IsJSON {
		return false
	}
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

// NewProgress returns a byte-counted progress bar on stderr, or a silent
// tracker when stderr is not an interactive terminal.
func (log *CLI) NewProgress(label string, total int64) Progress {

	if !log.useTTY() {
		return &silentProgress{}
	}

	p := mpb.New(
		mpb.WithOutput(os.Stderr),
		mpb.WithWidth(64),
		mpb.WithRefreshRate(120*time.Millisecond),
	)

	bar := p.AddBar(total,
		mpb.BarRemoveOnComplete(),
		mpb.PrependDecorators(
			decor.Name(label),
			decor.CountersKibiByte(" % .2f / % .2f"),
		),
		mpb.AppendDecorators(decor.Percentage()),
	)

	return &cliProgress{
		p:   p,
		bar: bar,
	}
}

type cliProgress struct {
	p        *mpb.Progress
	bar      *mpb.Bar
	finished bool
}

func (x *cliProgress) ProxyReader(r io.Reader) io.ReadCloser {
	return x.bar.ProxyReader(r)
}

func (x *cliProgress) Increment(n int64) {
	x.bar.IncrInt64(n)
}

func (x *cliProgress) Finish(success bool) {
	if x.finished {
		return
	}
	x.finished = true

	// force completion so that Wait cannot block on an aborted run
	x.bar.SetTotal(x.bar.Current(), true)
	x.p.Wait()
}

type silentProgress struct {
}

func (x *silentProgress) ProxyReader(r io.Reader) io.ReadCloser {
	return ioutil.NopCloser(r)
}

func (x *silentProgress) Increment(n int64) {
}

func (x *silentProgress) Finish(success bool) {
}

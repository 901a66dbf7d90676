package scan

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/plugkit/extscan/host"
	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
)

// recordingLogger captures diagnostics so tests can assert on them.
type recordingLogger struct {
	mu       sync.Mutex
	errors   []string
	warnings []string
	infos    []string
}

func (l *recordingLogger) Error(scope, message string) { l.record(&l.errors, scope, message) }
func (l *recordingLogger) Warn(scope, message string)  { l.record(&l.warnings, scope, message) }
func (l *recordingLogger) Info(scope, message string)  { l.record(&l.infos, scope, message) }

func (l *recordingLogger) record(dst *[]string, scope, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*dst = append(*dst, scope+": "+message)
}

func (l *recordingLogger) errorMessages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.errors...)
}

func (l *recordingLogger) warningMessages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.warnings...)
}

// fixture is an in-memory extension root with a scanner attached to it.
type fixture struct {
	fs      afs.Service
	root    string
	scanner *Scanner
	log     *recordingLogger
}

func newFixture(t *testing.T, options ...Option) *fixture {
	service := afs.New()
	log := &recordingLogger{}
	return &fixture{
		fs:      service,
		root:    "mem://localhost/" + t.Name(),
		scanner: New(host.NewWithService(service), log, options...),
		log:     log,
	}
}

func (f *fixture) write(t *testing.T, relative, content string) {
	err := f.fs.Upload(context.Background(), f.root+"/"+relative, 0644, strings.NewReader(content))
	assert.Nil(t, err)
}

func (f *fixture) path(relative string) string {
	if relative == "" {
		return f.root
	}
	return f.root + "/" + relative
}

func anyContains(messages []string, fragment string) bool {
	for _, message := range messages {
		if strings.Contains(message, fragment) {
			return true
		}
	}
	return false
}

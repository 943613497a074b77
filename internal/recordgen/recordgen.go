// Package recordgen supplies record sources for the producer binary: a
// random generator of plausible device logs and a fixed list.
package recordgen

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/tinytelemetry/shiplog/internal/model"
)

// timestampLayout matches "2006-01-02 15:04:05,000".
const timestampLayout = "2006-01-02 15:04:05,000"

type template struct {
	message string
	level   string
}

var catalog = []template{
	{"System startup complete.", "INFO"},
	{"User logged in.", "INFO"},
	{"Error reading configuration file.", "ERROR"},
	{"Database connection successful.", "INFO"},
	{"File not found.", "ERROR"},
	{"Data processing completed.", "INFO"},
	{"Network connection lost.", "ERROR"},
	{"Out of memory.", "ERROR"},
	{"User request timed out.", "WARNING"},
	{"New user account created.", "INFO"},
	{"Security update applied.", "INFO"},
	{"Unexpected input format received.", "ERROR"},
	{"Backup completed successfully.", "INFO"},
	{"License verification failed.", "ERROR"},
	{"Disk space reaching capacity.", "WARNING"},
	{"New device detected.", "INFO"},
	{"Service started.", "INFO"},
	{"Service stopped.", "WARNING"},
	{"Password change required.", "INFO"},
	{"High CPU usage detected.", "WARNING"},
	{"Low battery warning.", "WARNING"},
	{"New connection established.", "INFO"},
	{"Session expired.", "WARNING"},
	{"Configuration updated.", "INFO"},
	{"Device disconnected.", "WARNING"},
	{"Firmware upgrade required.", "INFO"},
	{"Temperature threshold exceeded.", "WARNING"},
	{"Data synchronization started.", "INFO"},
	{"Data synchronization completed.", "INFO"},
	{"Invalid login attempt.", "ERROR"},
	{"", "INFO"},
}

// Random produces an endless stream of records with a random MAC, a level
// and message drawn from a fixed catalogue, and the message prefixed with
// the current time.
type Random struct {
	source string
	limit  int
	now    func() time.Time

	mu      sync.Mutex
	rng     *rand.Rand
	emitted int
}

// NewRandom returns a random source tagging records with source. limit > 0
// stops the stream after that many records.
func NewRandom(source string, limit int) *Random {
	return &Random{
		source: source,
		limit:  limit,
		now:    time.Now,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// NewSeededRandom is NewRandom with a deterministic generator and clock.
func NewSeededRandom(source string, limit int, seed uint64, now func() time.Time) *Random {
	r := NewRandom(source, limit)
	r.rng = rand.New(rand.NewPCG(seed, seed))
	if now != nil {
		r.now = now
	}
	return r
}

func (r *Random) Next() (model.LogRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.limit > 0 && r.emitted >= r.limit {
		return model.LogRecord{}, false
	}
	r.emitted++

	mac := make([]byte, 6)
	for i := range mac {
		mac[i] = byte(r.rng.IntN(256))
	}
	t := catalog[r.rng.IntN(len(catalog))]
	message := r.now().Format(timestampLayout) + " - " + t.message

	return model.LogRecord{
		Level:      t.level,
		Source:     r.source,
		HardwareID: mac,
		Message:    message,
	}, true
}

// Fixed yields the given records once, in order.
type Fixed struct {
	mu      sync.Mutex
	records []model.LogRecord
	next    int
}

// NewFixed returns a source over records.
func NewFixed(records ...model.LogRecord) *Fixed {
	return &Fixed{records: records}
}

func (f *Fixed) Next() (model.LogRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.next >= len(f.records) {
		return model.LogRecord{}, false
	}
	r := f.records[f.next]
	f.next++
	return r, true
}

// DemoRecords returns the fixed demonstration list sent by the producer's
// fixed mode.
func DemoRecords(source string) []model.LogRecord {
	mac := []byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}
	return []model.LogRecord{
		model.NewLogRecord("ERROR", source, mac, "First test message"),
		model.NewLogRecord("INFO", source, mac, "Second test message"),
	}
}

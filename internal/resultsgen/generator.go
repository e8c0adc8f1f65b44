package resultsgen

import (
	"bufio"
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/okian/podium/internal/domain/laptime"
)

// Header is the first line of every generated file.
const Header = "Jugador,Tiempo,Profile"

// Time ranges in milliseconds, kept on hundredth boundaries.
const (
	fastestMS = 20_000
	spreadMS  = 100_000
	hundredth = 10

	profileShare = 0.7
)

var malformedTimes = []string{"DNF", "1:2", "", "0:xx:10", "soon"} //nolint:gochecknoglobals // fixed sample set

var firstNames = []string{ //nolint:gochecknoglobals // fixed sample set
	"Ana", "Luis", "Beto", "Eva", "Sol", "Iker", "Nora", "Pau", "Lucia", "Marco",
	"Irene", "Hugo", "Vera", "Dario", "Alba", "Teo",
}

// Generate creates cfg.Rows rows. Names are unique; ties reuse an earlier
// row's time and malformed rows carry a time ParseStrict rejects.
func Generate(cfg *Config, stats *Stats) []Row {
	rng := newRand(cfg.Seed)
	rows := make([]Row, cfg.Rows)
	for i := range rows {
		rows[i] = Row{
			Player: fmt.Sprintf("%s %03d", firstNames[rng.IntN(len(firstNames))], i+1),
			Time:   randomTime(rng),
		}
		if rng.Float64() < profileShare {
			rows[i].Profile = "img/" + uuid.NewString() + ".webp"
		}

		switch r := rng.Float64(); {
		case r < cfg.MalformedRate:
			rows[i].Time = malformedTimes[rng.IntN(len(malformedTimes))]
			stats.Malformed++
		case i > 0 && r < cfg.MalformedRate+cfg.TieRate:
			if t, ok := earlierValidTime(rows[:i], rng); ok {
				rows[i].Time = t
				stats.Ties++
			}
		}
	}
	stats.RowsGenerated = len(rows)
	return rows
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		var b [8]byte
		_, _ = crand.Read(b[:])
		seed = binary.LittleEndian.Uint64(b[:])
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // sample data
}

func randomTime(rng *rand.Rand) string {
	ms := fastestMS + rng.IntN(spreadMS/hundredth)*hundredth
	return laptime.Duration(ms).String()
}

// earlierValidTime picks the time of a random earlier row that parses.
func earlierValidTime(rows []Row, rng *rand.Rand) (string, bool) {
	start := rng.IntN(len(rows))
	for k := range rows {
		r := rows[(start+k)%len(rows)]
		if laptime.Valid(r.Time) {
			return r.Time, true
		}
	}
	return "", false
}

// Write renders rows as result text.
func Write(w io.Writer, rows []Row) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range rows {
		if _, err := fmt.Fprintf(bw, "%s,%s,%s\n", r.Player, r.Time, r.Profile); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

package mapping

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Simcenter .dat decks carry the group structure in comment lines:
//
//	$* Mesh Collector: W_Flap_UpperSkin Panel 2 Bay 6_1.27mm
//	$* Mesh: CQUAD4 2601158-2601200(27)
var (
	collectorRe = regexp.MustCompile(`^\$\*\s+Mesh Collector:\s+(.+)`)
	meshRangeRe = regexp.MustCompile(`^\$\*\s+Mesh:\s+\w+\s+(\d+)-(\d+)\(\d+\)`)
)

// ParseDat extracts the component mapping from a Nastran .dat deck. Only the
// mesh-collector comments are read; the bulk data itself is ignored.
// Collectors without any id range are dropped.
func ParseDat(path string) (Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseDatReader(f)
}

func ParseDatReader(r io.Reader) (Map, error) {
	m := Map{}
	current := ""

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if match := collectorRe.FindStringSubmatch(line); match != nil {
			current = strings.TrimSpace(match[1])
			if _, ok := m[current]; !ok {
				m[current] = Entry{Type: "panel"}
			}
			continue
		}
		if current == "" {
			continue
		}
		if match := meshRangeRe.FindStringSubmatch(line); match != nil {
			start, _ := strconv.Atoi(match[1])
			end, _ := strconv.Atoi(match[2])
			entry := m[current]
			for id := start; id <= end; id++ {
				entry.IDs = append(entry.IDs, id)
			}
			m[current] = entry
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	for name, entry := range m {
		if len(entry.IDs) == 0 {
			delete(m, name)
		}
	}
	return m, nil
}

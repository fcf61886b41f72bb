package blame

import (
	"bufio"
	"sort"
	"strconv"
	"strings"

	"github.com/zjrosen/gutterblame/internal/log"
)

// maxLineBytes bounds a single blame output line (long minified sources).
const maxLineBytes = 4 * 1024 * 1024

// header is the first line of a blame block:
//
//	<commitId> <origLine> <finalLine> [<runLength>]
type header struct {
	id        string
	origLine  int
	finalLine int
	runLength int // 0 when the field is absent
}

// Parse dispatches to the parser for the given format.
func Parse(format Format, raw string) []Record {
	switch format {
	case FormatIncremental:
		return ParseIncremental(raw)
	default:
		return ParsePorcelain(raw)
	}
}

// ParsePorcelain parses `git blame --line-porcelain` output. Every line has
// its own header and metadata block, terminated by the TAB-prefixed content
// line.
//
// Parsing is best-effort: on the first malformed block the records completed
// so far are returned.
func ParsePorcelain(raw string) []Record {
	records := make([]Record, 0, strings.Count(raw, "\n\t")+1)

	var (
		cur  Record
		open bool
	)

	scanner := newScanner(raw)
	for scanner.Scan() {
		line := scanner.Text()

		if !open {
			if strings.TrimSpace(line) == "" {
				continue
			}
			h, ok := parseHeader(line)
			if !ok {
				log.Debug(log.CatBlame, "porcelain: malformed header, stopping", "parsed", len(records))
				return records
			}
			cur = Record{
				LineNumber: h.finalLine,
				CommitID:   h.id,
				Committed:  !IsUncommittedID(h.id),
			}
			open = true
			continue
		}

		// Content line closes the block.
		if strings.HasPrefix(line, "\t") {
			records = append(records, cur)
			open = false
			continue
		}
		if line == "" {
			continue
		}
		if _, ok := parseHeader(line); ok {
			log.Debug(log.CatBlame, "porcelain: block without content line, stopping", "parsed", len(records))
			return records
		}
		if cur.Committed {
			applyMetadata(&cur.Author, &cur.AuthorMail, &cur.Summary, &cur.Timestamp, line)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Warn(log.CatBlame, "porcelain: scan aborted", "error", err, "parsed", len(records))
	}

	return records
}

// commitMeta is the metadata block remembered for a commit in incremental
// output, where it is only emitted the first time the commit appears.
type commitMeta struct {
	author  string
	mail    string
	summary string
	time    int64
}

// run is a contiguous block of final lines attributed to one commit.
type run struct {
	id        string
	finalLine int
	length    int
}

// ParseIncremental parses `git blame --incremental` output. A header carries
// a run length and may cover several lines; metadata appears only on the
// first block for a commit and a `filename` line closes each block.
//
// Parsing is best-effort: on the first malformed block the runs completed so
// far are expanded and returned.
func ParseIncremental(raw string) []Record {
	metas := make(map[string]*commitMeta)
	var runs []run

	var (
		cur  run
		meta *commitMeta
		open bool
	)

	scanner := newScanner(raw)
scan:
	for scanner.Scan() {
		line := scanner.Text()

		if !open {
			if strings.TrimSpace(line) == "" {
				continue
			}
			h, ok := parseHeader(line)
			if !ok || h.runLength <= 0 {
				log.Debug(log.CatBlame, "incremental: malformed header, stopping", "runs", len(runs))
				break scan
			}
			cur = run{id: h.id, finalLine: h.finalLine, length: h.runLength}
			meta = metas[h.id]
			if meta == nil {
				meta = &commitMeta{}
				metas[h.id] = meta
			}
			open = true
			continue
		}

		if strings.HasPrefix(line, "filename ") {
			runs = append(runs, cur)
			open = false
			continue
		}
		if line == "" {
			continue
		}
		if _, ok := parseHeader(line); ok {
			log.Debug(log.CatBlame, "incremental: block without filename, stopping", "runs", len(runs))
			break scan
		}
		if !IsUncommittedID(cur.id) {
			applyMetadata(&meta.author, &meta.mail, &meta.summary, &meta.time, line)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Warn(log.CatBlame, "incremental: scan aborted", "error", err, "runs", len(runs))
	}

	return expandRuns(runs, metas)
}

// expandRuns produces one record per line covered by the runs, ordered by
// final line number.
func expandRuns(runs []run, metas map[string]*commitMeta) []Record {
	total := 0
	for _, r := range runs {
		total += r.length
	}

	records := make([]Record, 0, total)
	for _, r := range runs {
		committed := !IsUncommittedID(r.id)
		m := metas[r.id]
		for i := 0; i < r.length; i++ {
			rec := Record{
				LineNumber: r.finalLine + i,
				CommitID:   r.id,
				Committed:  committed,
			}
			if committed && m != nil {
				rec.Author = m.author
				rec.AuthorMail = m.mail
				rec.Summary = m.summary
				rec.Timestamp = m.time
			}
			records = append(records, rec)
		}
	}

	// git emits incremental blocks in the order blame resolves them, not in
	// line order.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].LineNumber < records[j].LineNumber
	})
	return records
}

func newScanner(raw string) *bufio.Scanner {
	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return scanner
}

// parseHeader recognizes `<hex id> <orig> <final> [<count>]`.
func parseHeader(line string) (header, bool) {
	fields := strings.Fields(line)
	if len(fields) != 3 && len(fields) != 4 {
		return header{}, false
	}
	if !isHexID(fields[0]) {
		return header{}, false
	}

	orig, err := strconv.Atoi(fields[1])
	if err != nil || orig < 1 {
		return header{}, false
	}
	final, err := strconv.Atoi(fields[2])
	if err != nil || final < 1 {
		return header{}, false
	}

	h := header{id: strings.TrimPrefix(fields[0], "^"), origLine: orig, finalLine: final}
	if len(fields) == 4 {
		n, err := strconv.Atoi(fields[3])
		if err != nil || n < 1 {
			return header{}, false
		}
		h.runLength = n
	}
	return h, true
}

// isHexID accepts abbreviated (>= 4) and full commit ids. A leading '^'
// marks a boundary commit.
func isHexID(s string) bool {
	s = strings.TrimPrefix(s, "^")
	if len(s) < 4 || len(s) > 64 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}

// applyMetadata fills the known metadata keys; everything else (committer,
// previous, boundary, ...) is ignored.
func applyMetadata(author, mail, summary *string, ts *int64, line string) {
	key, value, found := strings.Cut(line, " ")
	if !found {
		return
	}
	switch key {
	case "author":
		*author = value
	case "author-mail":
		*mail = strings.TrimSuffix(strings.TrimPrefix(value, "<"), ">")
	case "author-time":
		if v, err := strconv.ParseInt(value, 10, 64); err == nil {
			*ts = v
		}
	case "summary":
		*summary = value
	}
}

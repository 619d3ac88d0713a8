// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bench

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/sugawarayuuta/sonnet"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Units of a Result.
const (
	UnitMsgPerSec = "msg/sec"
	UnitRoundTrip = "sec/round-trip"
)

// Result is one measurement. Threads is zero for latency results.
type Result struct {
	Queue   string
	Threads int
	Unit    string
	Value   float64
}

// String formats r as a report line.
func (r Result) String() string {
	if r.Unit == UnitRoundTrip {
		return FormatLatency(r.Queue, r.Value)
	}
	return FormatThroughput(r.Queue, r.Threads, r.Value)
}

var printer = message.NewPrinter(language.English)

// FormatThroughput formats a throughput line, for example
//
//	                     AtomicQueue, 4,s:  12,345,678 msg/sec
func FormatThroughput(queue string, threads int, msgPerSec float64) string {
	return printer.Sprintf("%32s,%2d,s: %11d %s", queue, threads, int64(msgPerSec), UnitMsgPerSec)
}

// FormatLatency formats a latency line, for example
//
//	                     AtomicQueue: 0.000000123 sec/round-trip
func FormatLatency(queue string, secPerRoundTrip float64) string {
	return fmt.Sprintf("%32s: %.9f %s", queue, secPerRoundTrip, UnitRoundTrip)
}

var lineRE = regexp.MustCompile(`^\s*(.+):\s+([,.0-9]+)\s+(\S+)`)

// Parse reads report lines from r. Lines that are not results are skipped.
func Parse(r io.Reader) ([]Result, error) {
	var out []Result
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		m := lineRE.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		value, err := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", ""), 64)
		if err != nil {
			return out, fmt.Errorf("bench: parse %q: %w", sc.Text(), err)
		}
		res := Result{Queue: m[1], Unit: m[3], Value: value}
		switch res.Unit {
		case UnitMsgPerSec:
			fields := strings.Split(res.Queue, ",")
			if len(fields) != 3 {
				return out, fmt.Errorf("bench: parse %q: want queue,threads,placement", sc.Text())
			}
			res.Queue = fields[0]
			if res.Threads, err = strconv.Atoi(strings.TrimSpace(fields[1])); err != nil {
				return out, fmt.Errorf("bench: parse %q: %w", sc.Text(), err)
			}
		case UnitRoundTrip:
		default:
			continue
		}
		out = append(out, res)
	}
	return out, sc.Err()
}

// Report aggregates results across runs.
type Report struct {
	// Scalability is the best msg/sec per queue and thread count.
	Scalability map[string]map[int]float64 `json:"scalability"`
	// Latency summarizes sec/round-trip samples per queue.
	Latency map[string]Stats `json:"latency"`
}

// Aggregate builds a Report keeping the maximum throughput per
// (queue, threads) and summarizing all latency samples per queue.
func Aggregate(results []Result) Report {
	rep := Report{
		Scalability: make(map[string]map[int]float64),
		Latency:     make(map[string]Stats),
	}
	samples := make(map[string][]float64)
	for _, r := range results {
		switch r.Unit {
		case UnitMsgPerSec:
			byThreads := rep.Scalability[r.Queue]
			if byThreads == nil {
				byThreads = make(map[int]float64)
				rep.Scalability[r.Queue] = byThreads
			}
			if v, ok := byThreads[r.Threads]; !ok || r.Value > v {
				byThreads[r.Threads] = r.Value
			}
		case UnitRoundTrip:
			samples[r.Queue] = append(samples[r.Queue], r.Value)
		}
	}
	for q, s := range samples {
		rep.Latency[q] = Summarize(s)
	}
	return rep
}

// ParseOutput rebuilds a Report from report lines.
func ParseOutput(r io.Reader) (Report, error) {
	results, err := Parse(r)
	if err != nil {
		return Report{}, err
	}
	return Aggregate(results), nil
}

// Encode returns the JSON encoding of rep.
func (rep Report) Encode() ([]byte, error) {
	return sonnet.Marshal(rep)
}

// DecodeReport parses a JSON report.
func DecodeReport(data []byte) (Report, error) {
	var rep Report
	if err := sonnet.Unmarshal(data, &rep); err != nil {
		return Report{}, fmt.Errorf("bench: decode report: %w", err)
	}
	return rep, nil
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command atomq-bench measures queue throughput and round-trip latency.
//
// Usage:
//
//	go run ./cmd/atomq-bench -threads 4 -queues AtomicQueue,channel
//	go run ./cmd/atomq-bench -db results.db -json report.json
//	go run ./cmd/atomq-bench parse < output.txt > report.json
//
// Result lines go to stdout; they can be parsed back with the parse
// subcommand. Throughput is measured for 1..threads producers and as many
// consumers; latency with two threads pinned to the -cpus pair.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"code.hybscloud.com/atomq/internal/bench"
)

func main() {
	capacity := flag.Int("capacity", 65536, "queue capacity (power of 2)")
	msgs := flag.Int("msgs", 1_000_000, "messages per throughput run, split across producers")
	threads := flag.Int("threads", max(bench.NumCPU()/2, 1), "maximum number of producers (and consumers)")
	runs := flag.Int("runs", 3, "runs per measurement")
	roundTrips := flag.Int("round-trips", 100_000, "messages per ping-pong run")
	queues := flag.String("queues", "", "comma-separated queue names (default: all)")
	jsonPath := flag.String("json", "", "write the aggregated report as JSON to this file (- for stdout)")
	dbPath := flag.String("db", "", "append results to this SQLite database and report across all stored runs")
	cpus := flag.String("cpus", "0,1", "sender,receiver CPUs for ping-pong (-1 leaves a side unpinned)")
	flag.Parse()

	if flag.Arg(0) == "parse" {
		if err := parse(os.Stdin, os.Stdout); err != nil {
			fatalf("parse: %v", err)
		}
		return
	}

	factories, err := bench.Select(splitList(*queues))
	if err != nil {
		fatalf("%v", err)
	}
	pair, err := parseCPUs(*cpus)
	if err != nil {
		fatalf("-cpus: %v", err)
	}

	var results []bench.Result

	fmt.Println("---- Running throughput benchmarks (higher is better) ----")
	for _, f := range factories {
		for n := 1; n <= *threads; n++ {
			if !f.Allows(n) {
				break
			}
			for range *runs {
				rate, err := bench.Throughput(f, bench.ThroughputConfig{
					Messages: *msgs,
					Threads:  n,
					Capacity: *capacity,
				})
				if err != nil {
					fmt.Fprintf(os.Stderr, "%s: %v\n", f.Name, err)
					continue
				}
				r := bench.Result{Queue: f.Name, Threads: n, Unit: bench.UnitMsgPerSec, Value: rate}
				fmt.Println(r)
				results = append(results, r)
			}
		}
	}
	fmt.Println()

	fmt.Println("---- Running ping-pong benchmarks (lower is better) ----")
	for _, f := range factories {
		for range *runs {
			rt, err := bench.PingPong(f, bench.PingPongConfig{
				RoundTrips: *roundTrips,
				Capacity:   *capacity,
				CPUs:       pair,
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", f.Name, err)
				continue
			}
			r := bench.Result{Queue: f.Name, Unit: bench.UnitRoundTrip, Value: rt}
			fmt.Println(r)
			results = append(results, r)
		}
	}
	fmt.Println()

	rep := bench.Aggregate(results)
	if *dbPath != "" {
		rep, err = record(*dbPath, results)
		if err != nil {
			fatalf("%s: %v", *dbPath, err)
		}
	}
	if *jsonPath != "" {
		if err := writeReport(*jsonPath, rep); err != nil {
			fatalf("%s: %v", *jsonPath, err)
		}
	}
}

// record stores results and returns the report over every stored run.
func record(path string, results []bench.Result) (bench.Report, error) {
	ctx := context.Background()
	s, err := bench.OpenStore(path)
	if err != nil {
		return bench.Report{}, err
	}
	defer s.Close()
	if err := s.Record(ctx, results...); err != nil {
		return bench.Report{}, err
	}
	return s.Report(ctx)
}

func writeReport(path string, rep bench.Report) error {
	data, err := rep.Encode()
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func parse(r io.Reader, w io.Writer) error {
	rep, err := bench.ParseOutput(r)
	if err != nil {
		return err
	}
	data, err := rep.Encode()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func parseCPUs(s string) ([2]int, error) {
	var pair [2]int
	fields := splitList(s)
	if len(fields) != 2 {
		return pair, fmt.Errorf("want two CPUs, got %q", s)
	}
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return pair, err
		}
		pair[i] = n
	}
	return pair, nil
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "atomq-bench: "+format+"\n", args...)
	os.Exit(1)
}

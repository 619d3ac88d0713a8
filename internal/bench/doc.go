// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package bench measures atomq queues against lock-based and third-party
// baselines.
//
// Throughput runs P producers and P consumers over one queue and verifies
// a checksum of everything received. PingPong bounces messages between two
// pinned threads over a pair of queues and reports the round-trip time.
// Results are printed as text lines, aggregated into a Report that encodes
// to JSON, and optionally kept in a SQLite Store across runs.
package bench

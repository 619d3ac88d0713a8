// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package atomq

// RaceEnabled is true when the race detector is active.
// Tests skip concurrent stress of generic queues, whose plain slot data is
// ordered by atomix tags the detector does not track.
const RaceEnabled = true

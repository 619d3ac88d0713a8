// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !linux

package bench

import "runtime"

// pinThread only locks the goroutine to its OS thread; cpu is ignored.
func pinThread(int) (func(), error) {
	runtime.LockOSThread()
	return runtime.UnlockOSThread, nil
}

// NumCPU returns the number of logical processors.
func NumCPU() int {
	return runtime.NumCPU()
}

// SPDX-License-Identifier: EPL-2.0

// Package aiff records played audio to an AIFF file using
// github.com/go-audio/aiff.
//
//	capture := aiff.NewCapture("out.aiff")
//	defer capture.Finish()
package aiff

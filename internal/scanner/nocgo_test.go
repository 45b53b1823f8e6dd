//go:build !cgo

package scanner_test

const cgoEnabled = false

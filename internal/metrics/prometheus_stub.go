//go:build noprom

package metrics

func enablePrometheus(addr string) error { return nil }

//go:build debug

package wlog

func init() {
	defaultLevel = LevelDebug
}

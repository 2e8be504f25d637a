//go:build trace

package wlog

func init() {
	defaultLevel = LevelTrace
}

package format

import (
	"time"
)

const (
	filetimeTicksPerSecond = 10_000_000  // FILETIME units are 100ns
	filetimeUnixEpochSecs  = 11644473600 // seconds from 1601-01-01 to 1970-01-01
)

// FiletimeToTime converts a FILETIME value (100ns ticks since 1601-01-01 UTC)
// to time.Time in UTC.
func FiletimeToTime(v uint64) time.Time {
	sec := int64(v/filetimeTicksPerSecond) - filetimeUnixEpochSecs
	nsec := int64(v%filetimeTicksPerSecond) * 100
	return time.Unix(sec, nsec).UTC()
}

// TimeToFiletime converts a time.Time to a FILETIME value. Times before
// 1601-01-01 clamp to zero.
func TimeToFiletime(t time.Time) uint64 {
	sec := t.Unix() + filetimeUnixEpochSecs
	if sec < 0 {
		return 0
	}
	return uint64(sec)*filetimeTicksPerSecond + uint64(t.Nanosecond()/100)
}

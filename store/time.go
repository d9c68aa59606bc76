package store

import "time"

func nowUTC() time.Time {
	return time.Now().UTC()
}

func unixToTime(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

package morsecode

// DropRate returns the fraction of decoded symbols lost to queue
// overflow, 0.0 to 1.0. Returns 0.0 when nothing was produced.
func DropRate(stats Stats) float64 {
	total := stats.Queue.Enqueued + stats.Queue.Dropped
	if total == 0 {
		return 0.0
	}
	return float64(stats.Queue.Dropped) / float64(total)
}

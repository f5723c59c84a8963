package scoring

// Benchmark maps a composite score onto a coarse industry-average figure and
// percentile rank. It is a monotonic step function with no interpolation.
func Benchmark(composite float64) (industryAverage float64, percentile int) {
	switch {
	case composite >= 90:
		return 85.0, 95
	case composite >= 75:
		return 75.0, 80
	case composite >= 60:
		return 65.0, 60
	default:
		return 55.0, 40
	}
}

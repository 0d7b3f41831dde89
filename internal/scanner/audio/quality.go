package audio

// Quality is a coarse fidelity tier.
type Quality string

// Quality tiers, best first.
const (
	QualityLossless Quality = "lossless"
	QualityHigh     Quality = "high"
	QualityMedium   Quality = "medium"
	QualityLow      Quality = "low"
)

// Bitrate thresholds in bits per second.
const (
	highBitrate   = 320000
	mediumBitrate = 192000
)

// Rank orders tiers; a higher rank is better. Unknown tiers rank 0.
func (q Quality) Rank() int {
	switch q {
	case QualityLossless:
		return 4
	case QualityHigh:
		return 3
	case QualityMedium:
		return 2
	case QualityLow:
		return 1
	default:
		return 0
	}
}

// Classify maps a format and bitrate to a tier. Lossless formats ignore the
// bitrate; for anything else the caller must have a real bitrate.
func Classify(format Format, bitrate int) Quality {
	switch {
	case format.Lossless():
		return QualityLossless
	case bitrate >= highBitrate:
		return QualityHigh
	case bitrate >= mediumBitrate:
		return QualityMedium
	default:
		return QualityLow
	}
}

package converter

import "math"

// Money amounts cross the storage boundary as integer cents.

func ConvertAmountFloatToInt(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func ConvertAmountIntToFloat(amount int64) float64 {
	return float64(amount) / 100
}

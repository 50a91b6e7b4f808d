package filetransfer

import (
	"fmt"
	"math"
)

// sizeUnits are the binary size suffixes, from bytes up to tebibytes.
var sizeUnits = [...]string{"B", "kiB", "MiB", "GiB", "TiB"}

// HumanReadableSize formats a byte count with the largest binary unit that
// keeps the scaled value below 1024, to two decimal places. Values beyond
// the tebibyte range stay in TiB.
//
//	HumanReadableSize(0)          // "0.00B"
//	HumanReadableSize(1536)       // "1.50kiB"
//	HumanReadableSize(1073741824) // "1.00GiB"
func HumanReadableSize(size uint64) string {
	exp := 0
	if size > 0 {
		exp = int(math.Log(float64(size)) / math.Log(1024))
		if exp > len(sizeUnits)-1 {
			exp = len(sizeUnits) - 1
		}
	}
	return fmt.Sprintf("%.2f%s", float64(size)/math.Pow(1024, float64(exp)), sizeUnits[exp])
}

// formatETA renders a number of seconds as "mm:ss". The minute field wraps
// at 60, like the clock-time display it replaces.
func formatETA(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	secs %= 3600
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
